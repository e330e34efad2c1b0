// Package coursesync runs one synchronization: it resolves a Classroom
// course, normalizes its coursework and places every assignment that is
// still due as a card on a Trello list.
package coursesync
