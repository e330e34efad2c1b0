package classroom

import (
	"errors"
	"fmt"
	"time"
)

// DueStampLayout is the time layout of a stamp built by FormatDueStamp.
const DueStampLayout = "200601021504"

var (
	// ErrMissingDueDate marks coursework without a due date.
	ErrMissingDueDate = errors.New("coursework has no due date")

	// ErrInvalidDueDate marks a due date or time that is not a real instant,
	// such as month 13 or hour 24.
	ErrInvalidDueDate = errors.New("invalid due date")
)

// FormatDueStamp renders date and tod as YYYYMMDDHHMM, padding every field
// below the year to two digits. A nil tod is midnight.
func FormatDueStamp(date Date, tod *TimeOfDay) string {
	var hours, minutes int
	if tod != nil {
		hours, minutes = tod.Hours, tod.Minutes
	}
	return fmt.Sprintf("%04d%02d%02d%02d%02d", date.Year, date.Month, date.Day, hours, minutes)
}

// DueTime composes the due instant of cw in UTC.
func DueTime(cw CourseWork) (time.Time, error) {
	if cw.DueDate == nil {
		return time.Time{}, ErrMissingDueDate
	}
	stamp := FormatDueStamp(*cw.DueDate, cw.DueTime)
	due, err := time.ParseInLocation(DueStampLayout, stamp, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s for %q: %v", ErrInvalidDueDate, stamp, cw.Title, err)
	}
	return due, nil
}

// Normalize keeps the items of items due at or after now, in input order.
// Items without a due date or already past due are listed in Skipped. An
// invalid due date fails the whole batch.
func Normalize(items []CourseWork, now time.Time) (Result, error) {
	var res Result
	for _, cw := range items {
		due, err := DueTime(cw)
		if errors.Is(err, ErrMissingDueDate) {
			res.Skipped = append(res.Skipped, Skipped{Title: cw.Title, Reason: ReasonNoDueDate})
			continue
		}
		if err != nil {
			return Result{}, err
		}

		if due.Before(now) {
			res.Skipped = append(res.Skipped, Skipped{Title: cw.Title, Reason: ReasonPastDue})
			continue
		}
		res.Assignments = append(res.Assignments, Assignment{
			Title:       cw.Title,
			Description: cw.Description,
			Due:         due,
		})
	}
	return res, nil
}
