// Package trello is a small client for the Trello REST API.
//
// It covers what duesync needs: listing the member's boards, a board's
// lists and a list's cards, creating a card and setting its due date.
// Requests authenticate with an API key and token sent as request
// parameters.
package trello
