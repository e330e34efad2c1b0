package trello

import (
	"fmt"
	"time"
)

// Board is a Trello board.
type Board struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Closed bool   `json:"closed"`
	URL    string `json:"url,omitempty"`
}

// List is a column on a board.
type List struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IDBoard string `json:"idBoard"`
	Closed  bool   `json:"closed"`
}

// Card is a card on a list. Due is nil when no due date is set.
type Card struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Desc     string     `json:"desc"`
	IDList   string     `json:"idList"`
	IDBoard  string     `json:"idBoard"`
	Due      *time.Time `json:"due"`
	ShortURL string     `json:"shortUrl,omitempty"`
}

// Card positions.
const (
	PositionTop    = "top"
	PositionBottom = "bottom"
)

// CardInput describes a card to create.
type CardInput struct {
	ListID string
	Name   string
	Desc   string
	// Pos is "top", "bottom" or a positive number. Empty means top.
	Pos string
}

// APIError is returned for any non-2xx response.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("trello API %s %s returned status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}
