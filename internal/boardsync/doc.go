// Package boardsync places assignments as cards on a Trello list.
//
// A Syncer resolves a board and list by exact name, skips assignments whose
// title is already a card title on the list and creates the rest with their
// due date. Cards are never updated or deleted.
package boardsync
