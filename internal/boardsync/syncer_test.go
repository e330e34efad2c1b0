package boardsync_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/duesync/internal/boardsync"
	"github.com/teemow/duesync/internal/boardsync/boardsynctest"
	"github.com/teemow/duesync/internal/classroom"
	"github.com/teemow/duesync/internal/logging"
)

func setup(t *testing.T) (*boardsynctest.FakeBoard, string) {
	t.Helper()
	fake := boardsynctest.NewFakeBoard()
	fake.AddBoard("School", true)
	boardID := fake.AddBoard("School", false)
	fake.AddList(boardID, "Done")
	listID := fake.AddList(boardID, "To Do")
	return fake, listID
}

func essay() classroom.Assignment {
	return classroom.Assignment{
		Title:       "Essay",
		Description: "500 words",
		Due:         time.Date(2030, 3, 5, 9, 7, 0, 0, time.UTC),
	}
}

func TestSyncer_ResolveList(t *testing.T) {
	fake, listID := setup(t)
	s := boardsync.New(fake)

	target, err := s.ResolveList(context.Background(), "School", "To Do")
	require.NoError(t, err)
	assert.Equal(t, listID, target.ListID)
	assert.Equal(t, "board-2", target.BoardID, "the archived board is ignored")
}

func TestSyncer_ResolveListNotFound(t *testing.T) {
	fake, _ := setup(t)
	s := boardsync.New(fake)
	ctx := context.Background()

	_, err := s.ResolveList(ctx, "Work", "To Do")
	assert.ErrorIs(t, err, boardsync.ErrNotFound)
	var nf *boardsync.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "board", nf.Kind)

	_, err = s.ResolveList(ctx, "School", "to do")
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "list", nf.Kind)
	assert.Equal(t, `list "to do" not found on board "School"`, err.Error())
}

func TestSyncer_ResolveListPropagatesAPIErrors(t *testing.T) {
	fake, _ := setup(t)
	fake.ListBoardsErr = errors.New("unauthorized")

	_, err := boardsync.New(fake).ResolveList(context.Background(), "School", "To Do")
	require.Error(t, err)
	assert.NotErrorIs(t, err, boardsync.ErrNotFound)
}

func TestSyncer_AddCardIsIdempotent(t *testing.T) {
	fake, listID := setup(t)
	var buf bytes.Buffer
	s := boardsync.New(fake, boardsync.WithLogger(logging.NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, nil)))))
	ctx := context.Background()

	outcome, err := s.AddCard(ctx, "School", "To Do", essay())
	require.NoError(t, err)
	assert.Equal(t, boardsync.OutcomeCreated, outcome)

	outcome, err = s.AddCard(ctx, "School", "To Do", essay())
	require.NoError(t, err)
	assert.Equal(t, boardsync.OutcomeExists, outcome)

	cards := fake.Cards(listID)
	require.Len(t, cards, 1)
	assert.Equal(t, "Essay", cards[0].Name)
	assert.Equal(t, "500 words", cards[0].Desc)
	require.NotNil(t, cards[0].Due)
	assert.True(t, cards[0].Due.Equal(essay().Due))

	assert.Equal(t, 1, fake.Calls["CreateCard"])
	assert.Equal(t, 1, fake.Calls["SetDue"])
	assert.Contains(t, buf.String(), "card already exists")
}

func TestSyncer_AddCardToListNewCardsGoOnTop(t *testing.T) {
	fake, listID := setup(t)
	fake.AddExistingCard(listID, "Older")
	s := boardsync.New(fake)
	target, err := s.ResolveList(context.Background(), "School", "To Do")
	require.NoError(t, err)

	outcome, err := s.AddCardToList(context.Background(), target, essay())
	require.NoError(t, err)
	assert.Equal(t, boardsync.OutcomeCreated, outcome)

	cards := fake.Cards(listID)
	require.Len(t, cards, 2)
	assert.Equal(t, "Essay", cards[0].Name)
}

func TestSyncer_DedupIsCaseSensitive(t *testing.T) {
	fake, listID := setup(t)
	fake.AddExistingCard(listID, "essay")

	outcome, err := boardsync.New(fake).AddCard(context.Background(), "School", "To Do", essay())
	require.NoError(t, err)
	assert.Equal(t, boardsync.OutcomeCreated, outcome)
	assert.Len(t, fake.Cards(listID), 2)
}

func TestSyncer_PartialWhenDueDateFails(t *testing.T) {
	fake, listID := setup(t)
	dueErr := errors.New("rate limited")
	fake.SetDueErr = dueErr

	outcome, err := boardsync.New(fake).AddCard(context.Background(), "School", "To Do", essay())
	assert.Equal(t, boardsync.OutcomePartial, outcome)
	assert.ErrorIs(t, err, dueErr)

	var partial *boardsync.PartialCardError
	require.ErrorAs(t, err, &partial)
	cards := fake.Cards(listID)
	require.Len(t, cards, 1)
	assert.Equal(t, cards[0].ID, partial.CardID)
	assert.Nil(t, cards[0].Due)
}

func TestSyncer_CreateFailure(t *testing.T) {
	fake, _ := setup(t)
	fake.CreateCardErr = errors.New("boom")

	outcome, err := boardsync.New(fake).AddCard(context.Background(), "School", "To Do", essay())
	assert.Error(t, err)
	assert.Empty(t, outcome)
	assert.Equal(t, 0, fake.Calls["SetDue"])
}
