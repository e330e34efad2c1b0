// Package logging provides structured logging utilities for duesync.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - Consistent attribute naming for courses, boards, lists and cards
//   - Token masking so credentials never reach the logs
//   - Logger adapter interface for components that accept an injected logger
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "classroom.list_coursework")
//	logger.Info("listing coursework",
//	    logging.Course(courseID))
//
// Never log tokens directly:
//
//	logger.Debug("loaded cached token",
//	    "access_token", logging.SanitizeToken(tok.AccessToken))
package logging
