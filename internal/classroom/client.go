package classroom

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	classroom "google.golang.org/api/classroom/v1"
	"google.golang.org/api/option"

	"github.com/teemow/duesync/internal/instrumentation"
	"github.com/teemow/duesync/internal/logging"
)

const pageSize = 100

// Client wraps the Google Classroom service
type Client struct {
	svc     *classroom.Service
	metrics *instrumentation.Metrics
	logger  *slog.Logger
}

type clientOptions struct {
	endpoint string
	metrics  *instrumentation.Metrics
	logger   *slog.Logger
}

// Option configures a Client.
type Option func(*clientOptions)

// WithEndpoint points the client at another API root, e.g. a test server.
func WithEndpoint(url string) Option {
	return func(o *clientOptions) { o.endpoint = url }
}

// WithMetrics records API calls.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(o *clientOptions) { o.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *clientOptions) { o.logger = l }
}

// NewClient creates a Classroom client that sends requests through
// httpClient, which must already carry the OAuth credential.
func NewClient(ctx context.Context, httpClient *http.Client, opts ...Option) (*Client, error) {
	o := clientOptions{
		metrics: &instrumentation.Metrics{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	svcOpts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if o.endpoint != "" {
		svcOpts = append(svcOpts, option.WithEndpoint(o.endpoint))
	}
	svc, err := classroom.NewService(ctx, svcOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Classroom service: %w", err)
	}

	return &Client{
		svc:     svc,
		metrics: o.metrics,
		logger:  logging.WithService(o.logger, instrumentation.ServiceClassroom),
	}, nil
}

// ListCourses returns every course visible to the user, walking all pages.
func (c *Client) ListCourses(ctx context.Context) (courses []Course, err error) {
	ctx, span := instrumentation.StartAPISpan(ctx, instrumentation.ServiceClassroom, "courses.list")
	defer func() { instrumentation.EndSpan(span, err) }()

	err = c.metrics.Observe(ctx, instrumentation.ServiceClassroom, instrumentation.OperationList, func() error {
		return c.svc.Courses.List().PageSize(pageSize).Pages(ctx, func(resp *classroom.ListCoursesResponse) error {
			for _, course := range resp.Courses {
				courses = append(courses, toCourse(course))
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

// FindCourse returns the first course whose name or id equals identifier.
// When nothing matches the error is a *NotFoundError.
func (c *Client) FindCourse(ctx context.Context, identifier string) (Course, error) {
	courses, err := c.ListCourses(ctx)
	if err != nil {
		return Course{}, err
	}

	course, ok := MatchCourse(courses, identifier)
	if !ok {
		return Course{}, &NotFoundError{Kind: "course", Name: identifier}
	}
	c.logger.Debug("resolved course", logging.Course(course.Name), "course_id", course.ID)
	return course, nil
}

// MatchCourse scans courses in order and returns the first one whose Name or
// ID equals identifier exactly.
func MatchCourse(courses []Course, identifier string) (Course, bool) {
	for _, course := range courses {
		if course.Name == identifier || course.ID == identifier {
			return course, true
		}
	}
	return Course{}, false
}

// ListCourseWork returns the course's coursework unfiltered, in API order.
func (c *Client) ListCourseWork(ctx context.Context, courseID string) (items []CourseWork, err error) {
	ctx, span := instrumentation.StartAPISpan(ctx, instrumentation.ServiceClassroom, "coursework.list",
		attribute.String(instrumentation.SpanAttrCourse, courseID))
	defer func() { instrumentation.EndSpan(span, err) }()

	err = c.metrics.Observe(ctx, instrumentation.ServiceClassroom, instrumentation.OperationList, func() error {
		return c.svc.Courses.CourseWork.List(courseID).PageSize(pageSize).Pages(ctx, func(resp *classroom.ListCourseWorkResponse) error {
			for _, cw := range resp.CourseWork {
				items = append(items, toCourseWork(cw))
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list coursework for course %s: %w", courseID, err)
	}
	c.logger.Debug("fetched coursework", "course_id", courseID, "count", len(items))
	return items, nil
}

func toCourse(c *classroom.Course) Course {
	if c == nil {
		return Course{}
	}
	return Course{
		ID:      c.Id,
		Name:    c.Name,
		Section: c.Section,
		State:   c.CourseState,
	}
}

func toCourseWork(cw *classroom.CourseWork) CourseWork {
	if cw == nil {
		return CourseWork{}
	}
	item := CourseWork{
		ID:          cw.Id,
		Title:       cw.Title,
		Description: cw.Description,
		Link:        cw.AlternateLink,
	}
	if cw.DueDate != nil {
		item.DueDate = &Date{
			Year:  int(cw.DueDate.Year),
			Month: int(cw.DueDate.Month),
			Day:   int(cw.DueDate.Day),
		}
	}
	if cw.DueTime != nil {
		item.DueTime = &TimeOfDay{
			Hours:   int(cw.DueTime.Hours),
			Minutes: int(cw.DueTime.Minutes),
		}
	}
	return item
}
