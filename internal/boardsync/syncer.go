package boardsync

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/duesync/internal/classroom"
	"github.com/teemow/duesync/internal/instrumentation"
	"github.com/teemow/duesync/internal/logging"
	"github.com/teemow/duesync/internal/trello"
)

// Board is the part of the Trello API the Syncer uses.
type Board interface {
	ListBoards(ctx context.Context) ([]trello.Board, error)
	ListLists(ctx context.Context, boardID string) ([]trello.List, error)
	ListCards(ctx context.Context, listID string) ([]trello.Card, error)
	CreateCard(ctx context.Context, in trello.CardInput) (*trello.Card, error)
	SetDue(ctx context.Context, cardID string, due time.Time) (*trello.Card, error)
}

// Outcome is the result of placing one assignment.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeExists  Outcome = "exists"
	OutcomePartial Outcome = "partial"
)

// Target is a resolved board and list.
type Target struct {
	BoardID   string
	BoardName string
	ListID    string
	ListName  string
}

// Syncer places assignments on a list.
type Syncer struct {
	board   Board
	logger  logging.Logger
	metrics *instrumentation.Metrics
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithLogger sets the logger. Nil discards output.
func WithLogger(l logging.Logger) Option {
	return func(s *Syncer) { s.logger = logging.OrDiscard(l) }
}

// WithMetrics records card outcomes.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(s *Syncer) { s.metrics = m }
}

// New returns a Syncer backed by board.
func New(board Board, opts ...Option) *Syncer {
	s := &Syncer{
		board:   board,
		logger:  logging.Discard(),
		metrics: &instrumentation.Metrics{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ResolveList finds the board named boardName and its list named listName.
// Names match exactly and case-sensitively; archived boards are ignored and
// the first match wins.
func (s *Syncer) ResolveList(ctx context.Context, boardName, listName string) (Target, error) {
	boards, err := s.board.ListBoards(ctx)
	if err != nil {
		return Target{}, err
	}

	target := Target{BoardName: boardName, ListName: listName}
	for _, b := range boards {
		if !b.Closed && b.Name == boardName {
			target.BoardID = b.ID
			break
		}
	}
	if target.BoardID == "" {
		return Target{}, &NotFoundError{Kind: "board", Name: boardName}
	}

	lists, err := s.board.ListLists(ctx, target.BoardID)
	if err != nil {
		return Target{}, err
	}
	for _, l := range lists {
		if !l.Closed && l.Name == listName {
			target.ListID = l.ID
			break
		}
	}
	if target.ListID == "" {
		return Target{}, &NotFoundError{Kind: "list", Name: listName, Board: boardName}
	}

	s.logger.Debug("resolved list", logging.KeyBoard, boardName, logging.KeyList, listName, "list_id", target.ListID)
	return target, nil
}

// AddCardToList creates a card for a on the target list unless a card with
// the same title is already there. The card is created first and its due
// date set in a second call; if that call fails the outcome is
// OutcomePartial with a *PartialCardError.
func (s *Syncer) AddCardToList(ctx context.Context, target Target, a classroom.Assignment) (outcome Outcome, err error) {
	ctx, span := instrumentation.StartSpan(ctx, "boardsync.add_card",
		attribute.String(instrumentation.SpanAttrBoard, target.BoardName),
		attribute.String(instrumentation.SpanAttrList, target.ListName),
		attribute.String(instrumentation.SpanAttrCard, a.Title),
	)
	defer func() {
		span.SetAttributes(attribute.String("duesync.outcome", string(outcome)))
		instrumentation.EndSpan(span, err)
	}()

	cards, err := s.board.ListCards(ctx, target.ListID)
	if err != nil {
		return "", err
	}
	for _, c := range cards {
		if c.Name == a.Title {
			s.logger.Info("card already exists", logging.KeyCard, a.Title, logging.KeyList, target.ListName)
			s.metrics.RecordCard(ctx, string(OutcomeExists))
			return OutcomeExists, nil
		}
	}

	card, err := s.board.CreateCard(ctx, trello.CardInput{
		ListID: target.ListID,
		Name:   a.Title,
		Desc:   a.Description,
		Pos:    trello.PositionTop,
	})
	if err != nil {
		return "", err
	}

	if _, err := s.board.SetDue(ctx, card.ID, a.Due); err != nil {
		s.logger.Warn("card created without due date", logging.KeyCard, a.Title, "card_id", card.ID, logging.KeyError, err)
		s.metrics.RecordCard(ctx, string(OutcomePartial))
		return OutcomePartial, &PartialCardError{CardID: card.ID, Title: a.Title, Err: err}
	}

	s.logger.Info("card created", logging.KeyCard, a.Title, "due", a.Due.Format(time.RFC3339))
	s.metrics.RecordCard(ctx, string(OutcomeCreated))
	return OutcomeCreated, nil
}

// AddCard resolves the board and list and adds a card for a.
func (s *Syncer) AddCard(ctx context.Context, boardName, listName string, a classroom.Assignment) (Outcome, error) {
	target, err := s.ResolveList(ctx, boardName, listName)
	if err != nil {
		return "", err
	}
	return s.AddCardToList(ctx, target, a)
}
