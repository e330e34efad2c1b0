// Package cmd implements the command-line interface for duesync.
//
// This package provides the following commands:
//   - sync: Copy upcoming Classroom coursework onto a Trello list
//   - login: Authorize Google Classroom access and cache the credential
//   - version: Display version information
//
// The sync command is the default command when no subcommand is specified.
package cmd
