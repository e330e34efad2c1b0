package coursesync

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/duesync/internal/boardsync"
	"github.com/teemow/duesync/internal/classroom"
	"github.com/teemow/duesync/internal/instrumentation"
	"github.com/teemow/duesync/internal/logging"
)

// CourseSource resolves courses and lists their coursework.
type CourseSource interface {
	FindCourse(ctx context.Context, identifier string) (classroom.Course, error)
	ListCourseWork(ctx context.Context, courseID string) ([]classroom.CourseWork, error)
}

// CardSink places assignments on a board list.
type CardSink interface {
	ResolveList(ctx context.Context, boardName, listName string) (boardsync.Target, error)
	AddCardToList(ctx context.Context, target boardsync.Target, a classroom.Assignment) (boardsync.Outcome, error)
}

// Request names the course to read and the list to write to.
type Request struct {
	Course string
	Board  string
	List   string
}

// Validate checks that every field is set.
func (r Request) Validate() error {
	var missing []string
	if r.Course == "" {
		missing = append(missing, "course")
	}
	if r.Board == "" {
		missing = append(missing, "board")
	}
	if r.List == "" {
		missing = append(missing, "list")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// CardResult is the outcome for one assignment.
type CardResult struct {
	Title   string
	Due     time.Time
	Outcome boardsync.Outcome
}

// Report summarizes a run.
type Report struct {
	Course   classroom.Course
	Cards    []CardResult
	Skipped  []classroom.Skipped
	Created  int
	Existing int
	Partial  int
}

func (r *Report) add(a classroom.Assignment, outcome boardsync.Outcome) {
	r.Cards = append(r.Cards, CardResult{Title: a.Title, Due: a.Due, Outcome: outcome})
	switch outcome {
	case boardsync.OutcomeCreated:
		r.Created++
	case boardsync.OutcomeExists:
		r.Existing++
	case boardsync.OutcomePartial:
		r.Partial++
	}
}

// Runner executes synchronization requests.
type Runner struct {
	courses CourseSource
	cards   CardSink
	now     func() time.Time
	logger  *slog.Logger
	metrics *instrumentation.Metrics
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics records skipped assignments.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// NewRunner returns a Runner reading from courses and writing to cards.
func NewRunner(courses CourseSource, cards CardSink, opts ...Option) *Runner {
	r := &Runner{
		courses: courses,
		cards:   cards,
		now:     time.Now,
		logger:  slog.Default(),
		metrics: &instrumentation.Metrics{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run performs one synchronization. The first error stops the run; the
// returned Report covers the work done up to that point.
func (r *Runner) Run(ctx context.Context, req Request) (report Report, err error) {
	if err := req.Validate(); err != nil {
		return Report{}, err
	}

	ctx, span := instrumentation.StartSpan(ctx, "coursesync.run",
		attribute.String(instrumentation.SpanAttrCourse, req.Course),
		attribute.String(instrumentation.SpanAttrBoard, req.Board),
		attribute.String(instrumentation.SpanAttrList, req.List),
	)
	defer func() { instrumentation.EndSpan(span, err) }()

	logger := logging.WithOperation(r.logger, "sync").With(logging.Course(req.Course))

	course, err := r.courses.FindCourse(ctx, req.Course)
	if err != nil {
		return report, err
	}
	report.Course = course

	items, err := r.courses.ListCourseWork(ctx, course.ID)
	if err != nil {
		return report, err
	}

	res, err := classroom.Normalize(items, r.now())
	if err != nil {
		return report, err
	}
	report.Skipped = res.Skipped
	for _, s := range res.Skipped {
		r.metrics.RecordAssignmentSkipped(ctx, s.Reason)
		logger.Debug("skipping coursework", logging.Card(s.Title), "reason", s.Reason)
	}
	logger.Info("coursework normalized", "due", len(res.Assignments), "skipped", len(res.Skipped))

	target, err := r.cards.ResolveList(ctx, req.Board, req.List)
	if err != nil {
		return report, err
	}

	for _, a := range res.Assignments {
		outcome, err := r.cards.AddCardToList(ctx, target, a)
		if outcome != "" {
			report.add(a, outcome)
		}
		if err != nil {
			return report, err
		}
	}

	logger.Info("sync finished",
		logging.Status(logging.StatusSuccess),
		"created", report.Created,
		"existing", report.Existing,
	)
	return report, nil
}
