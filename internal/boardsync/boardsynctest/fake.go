// Package boardsynctest provides an in-memory boardsync.Board for tests.
package boardsynctest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/teemow/duesync/internal/trello"
)

// FakeBoard keeps boards, lists and cards in memory. Set the Err fields to
// make the matching call fail.
type FakeBoard struct {
	mu     sync.Mutex
	boards []trello.Board
	lists  map[string][]trello.List
	cards  map[string][]trello.Card
	nextID int

	ListBoardsErr error
	CreateCardErr error
	SetDueErr     error

	// Calls counts calls per method name.
	Calls map[string]int
}

// NewFakeBoard returns an empty fake.
func NewFakeBoard() *FakeBoard {
	return &FakeBoard{
		lists: map[string][]trello.List{},
		cards: map[string][]trello.Card{},
		Calls: map[string]int{},
	}
}

func (f *FakeBoard) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s%d", prefix, f.nextID)
}

// AddBoard adds a board and returns its id.
func (f *FakeBoard) AddBoard(name string, closed bool) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.id("board-")
	f.boards = append(f.boards, trello.Board{ID: id, Name: name, Closed: closed})
	return id
}

// AddList adds a list to a board and returns its id.
func (f *FakeBoard) AddList(boardID, name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.id("list-")
	f.lists[boardID] = append(f.lists[boardID], trello.List{ID: id, Name: name, IDBoard: boardID})
	return id
}

// AddExistingCard puts a card on a list without counting a call.
func (f *FakeBoard) AddExistingCard(listID, name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.id("card-")
	f.cards[listID] = append(f.cards[listID], trello.Card{ID: id, Name: name, IDList: listID})
	return id
}

// Cards returns a copy of the cards on a list.
func (f *FakeBoard) Cards(listID string) []trello.Card {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]trello.Card(nil), f.cards[listID]...)
}

func (f *FakeBoard) ListBoards(ctx context.Context) ([]trello.Board, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls["ListBoards"]++
	if f.ListBoardsErr != nil {
		return nil, f.ListBoardsErr
	}
	return append([]trello.Board(nil), f.boards...), nil
}

func (f *FakeBoard) ListLists(ctx context.Context, boardID string) ([]trello.List, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls["ListLists"]++
	return append([]trello.List(nil), f.lists[boardID]...), nil
}

func (f *FakeBoard) ListCards(ctx context.Context, listID string) ([]trello.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls["ListCards"]++
	return append([]trello.Card(nil), f.cards[listID]...), nil
}

func (f *FakeBoard) CreateCard(ctx context.Context, in trello.CardInput) (*trello.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls["CreateCard"]++
	if f.CreateCardErr != nil {
		return nil, f.CreateCardErr
	}
	card := trello.Card{ID: f.id("card-"), Name: in.Name, Desc: in.Desc, IDList: in.ListID}
	if in.Pos == trello.PositionTop {
		f.cards[in.ListID] = append([]trello.Card{card}, f.cards[in.ListID]...)
	} else {
		f.cards[in.ListID] = append(f.cards[in.ListID], card)
	}
	return &card, nil
}

func (f *FakeBoard) SetDue(ctx context.Context, cardID string, due time.Time) (*trello.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls["SetDue"]++
	if f.SetDueErr != nil {
		return nil, f.SetDueErr
	}
	for listID, cards := range f.cards {
		for i := range cards {
			if cards[i].ID == cardID {
				d := due
				f.cards[listID][i].Due = &d
				c := f.cards[listID][i]
				return &c, nil
			}
		}
	}
	return nil, fmt.Errorf("card %s not found", cardID)
}
