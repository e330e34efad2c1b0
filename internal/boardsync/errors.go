package boardsync

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by NotFoundError through errors.Is.
var ErrNotFound = errors.New("not found")

// NotFoundError reports a board or list name with no exact match.
type NotFoundError struct {
	Kind  string
	Name  string
	Board string
}

func (e *NotFoundError) Error() string {
	if e.Board != "" {
		return fmt.Sprintf("%s %q not found on board %q", e.Kind, e.Name, e.Board)
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// PartialCardError is returned when a card was created but its due date
// could not be set. The card stays on the list without a due date.
type PartialCardError struct {
	CardID string
	Title  string
	Err    error
}

func (e *PartialCardError) Error() string {
	return fmt.Sprintf("card %q (%s) created without due date: %v", e.Title, e.CardID, e.Err)
}

func (e *PartialCardError) Unwrap() error {
	return e.Err
}
