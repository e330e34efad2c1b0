package classroom

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is matched by NotFoundError through errors.Is.
var ErrNotFound = errors.New("not found")

// NotFoundError reports a course that no visible course matched.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Course is a Classroom course visible to the authenticated user.
type Course struct {
	ID      string
	Name    string
	Section string
	State   string
}

// Date is a calendar date as returned by the API. Fields are not validated.
type Date struct {
	Year  int
	Month int
	Day   int
}

// TimeOfDay is a wall-clock time as returned by the API.
type TimeOfDay struct {
	Hours   int
	Minutes int
}

// CourseWork is a raw coursework item. DueDate and DueTime are nil when the
// item has none.
type CourseWork struct {
	ID          string
	Title       string
	Description string
	DueDate     *Date
	DueTime     *TimeOfDay
	Link        string
}

// Assignment is a coursework item with a composed due instant.
type Assignment struct {
	Title       string
	Description string
	Due         time.Time
}

// Skip reasons.
const (
	ReasonNoDueDate = "no_due_date"
	ReasonPastDue   = "past_due"
)

// Skipped is a coursework item that Normalize left out.
type Skipped struct {
	Title  string
	Reason string
}

// Result is the output of Normalize.
type Result struct {
	Assignments []Assignment
	Skipped     []Skipped
}
