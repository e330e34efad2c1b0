package trello

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/duesync/internal/instrumentation"
	"github.com/teemow/duesync/internal/logging"
)

const (
	// DefaultBaseURL is the root of the Trello REST API.
	DefaultBaseURL = "https://api.trello.com/1"

	// DefaultTimeout bounds a single request.
	DefaultTimeout = 30 * time.Second

	maxErrorBody = 4 << 10
)

// Client talks to the Trello REST API.
type Client struct {
	baseURL string
	key     string
	token   string
	http    *http.Client
	metrics *instrumentation.Metrics
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimSuffix(u, "/")
		}
	}
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithMetrics records API calls.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient returns a client authenticating with key and token.
func NewClient(key, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		key:     key,
		token:   token,
		http:    &http.Client{Timeout: DefaultTimeout},
		metrics: &instrumentation.Metrics{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.WithService(c.logger, instrumentation.ServiceTrello)
	return c
}

// ListBoards returns the boards of the token's member.
func (c *Client) ListBoards(ctx context.Context) ([]Board, error) {
	var boards []Board
	params := url.Values{"fields": {"name,closed,url"}}
	if err := c.do(ctx, http.MethodGet, "/members/me/boards", params, &boards); err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	return boards, nil
}

// ListLists returns the open lists of a board.
func (c *Client) ListLists(ctx context.Context, boardID string) ([]List, error) {
	var lists []List
	path := "/boards/" + url.PathEscape(boardID) + "/lists"
	if err := c.do(ctx, http.MethodGet, path, nil, &lists); err != nil {
		return nil, fmt.Errorf("failed to list lists of board %s: %w", boardID, err)
	}
	return lists, nil
}

// ListCards returns the cards of a list.
func (c *Client) ListCards(ctx context.Context, listID string) ([]Card, error) {
	var cards []Card
	path := "/lists/" + url.PathEscape(listID) + "/cards"
	if err := c.do(ctx, http.MethodGet, path, nil, &cards); err != nil {
		return nil, fmt.Errorf("failed to list cards of list %s: %w", listID, err)
	}
	return cards, nil
}

// CreateCard adds a card to a list.
func (c *Client) CreateCard(ctx context.Context, in CardInput) (*Card, error) {
	pos := in.Pos
	if pos == "" {
		pos = PositionTop
	}
	params := url.Values{
		"idList": {in.ListID},
		"name":   {in.Name},
		"desc":   {in.Desc},
		"pos":    {pos},
	}

	var card Card
	if err := c.do(ctx, http.MethodPost, "/cards", params, &card); err != nil {
		return nil, fmt.Errorf("failed to create card %q: %w", in.Name, err)
	}
	c.logger.Debug("created card", logging.Card(card.Name), "card_id", card.ID)
	return &card, nil
}

// SetDue sets a card's due date.
func (c *Client) SetDue(ctx context.Context, cardID string, due time.Time) (*Card, error) {
	params := url.Values{"due": {due.UTC().Format(time.RFC3339)}}

	var card Card
	if err := c.do(ctx, http.MethodPut, "/cards/"+url.PathEscape(cardID), params, &card); err != nil {
		return nil, fmt.Errorf("failed to set due date of card %s: %w", cardID, err)
	}
	return &card, nil
}

// do sends one request. GET parameters go in the query string, writes are
// form encoded. The key and token are added to every request.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, out any) (err error) {
	op := operationFor(method)
	ctx, span := instrumentation.StartAPISpan(ctx, instrumentation.ServiceTrello, op,
		attribute.String("http.method", method),
		attribute.String("url.path", path),
	)
	defer func() { instrumentation.EndSpan(span, err) }()

	return c.metrics.Observe(ctx, instrumentation.ServiceTrello, op, func() error {
		values := url.Values{}
		for k, v := range params {
			values[k] = v
		}
		values.Set("key", c.key)
		values.Set("token", c.token)

		endpoint := c.baseURL + path
		var body io.Reader
		if method == http.MethodGet {
			endpoint += "?" + values.Encode()
		} else {
			body = strings.NewReader(values.Encode())
		}

		req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}

		c.logger.Debug("trello request", "method", method, "path", path)
		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("failed to send request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
			return &APIError{
				Method:     method,
				Path:       path,
				StatusCode: resp.StatusCode,
				Body:       strings.TrimSpace(string(data)),
			}
		}

		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	})
}

func operationFor(method string) string {
	switch method {
	case http.MethodPost:
		return instrumentation.OperationCreate
	case http.MethodPut:
		return instrumentation.OperationUpdate
	default:
		return instrumentation.OperationList
	}
}
