// Package classroom reads courses and coursework from the Google Classroom
// API and turns coursework into dated assignments.
//
// The Client resolves a course by name or id and fetches its coursework.
// Normalize is a pure function that composes each item's due date and time
// into a UTC instant and keeps only the items that are still due.
package classroom
