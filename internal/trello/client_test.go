package trello

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("the-key", "the-token", WithBaseURL(srv.URL+"/"), WithTimeout(5*time.Second))
}

func TestClient_ListBoards(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/members/me/boards", r.URL.Path)
		assert.Equal(t, "the-key", r.URL.Query().Get("key"))
		assert.Equal(t, "the-token", r.URL.Query().Get("token"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"b1","name":"School","closed":false},{"id":"b2","name":"Home","closed":true}]`))
	})

	boards, err := c.ListBoards(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Board{
		{ID: "b1", Name: "School"},
		{ID: "b2", Name: "Home", Closed: true},
	}, boards)
}

func TestClient_ListListsAndCards(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/boards/b1/lists":
			_, _ = w.Write([]byte(`[{"id":"l1","name":"To Do","idBoard":"b1"}]`))
		case "/lists/l1/cards":
			_, _ = w.Write([]byte(`[{"id":"c1","name":"Essay","desc":"","idList":"l1","idBoard":"b1","due":"2030-03-05T09:07:00.000Z"},` +
				`{"id":"c2","name":"Quiz","idList":"l1","due":null}]`))
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	lists, err := c.ListLists(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, []List{{ID: "l1", Name: "To Do", IDBoard: "b1"}}, lists)

	cards, err := c.ListCards(ctx, "l1")
	require.NoError(t, err)
	require.Len(t, cards, 2)
	require.NotNil(t, cards[0].Due)
	assert.True(t, cards[0].Due.Equal(time.Date(2030, 3, 5, 9, 7, 0, 0, time.UTC)))
	assert.Nil(t, cards[1].Due)
}

func TestClient_CreateCard(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/cards", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "l1", r.PostForm.Get("idList"))
		assert.Equal(t, "Essay & notes", r.PostForm.Get("name"))
		assert.Equal(t, "500 words", r.PostForm.Get("desc"))
		assert.Equal(t, "top", r.PostForm.Get("pos"))
		assert.Equal(t, "the-key", r.PostForm.Get("key"))
		assert.Equal(t, "the-token", r.PostForm.Get("token"))
		_, _ = w.Write([]byte(`{"id":"new-card","name":"Essay & notes","idList":"l1"}`))
	})

	card, err := c.CreateCard(context.Background(), CardInput{ListID: "l1", Name: "Essay & notes", Desc: "500 words"})
	require.NoError(t, err)
	assert.Equal(t, "new-card", card.ID)
}

func TestClient_SetDue(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/cards/c1", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "2030-03-05T09:07:00Z", r.PostForm.Get("due"))
		_, _ = w.Write([]byte(`{"id":"c1","due":"2030-03-05T09:07:00.000Z"}`))
	})

	loc := time.FixedZone("UTC+2", 2*60*60)
	card, err := c.SetDue(context.Background(), "c1", time.Date(2030, 3, 5, 11, 7, 0, 0, loc))
	require.NoError(t, err)
	require.NotNil(t, card.Due)
}

func TestClient_APIError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid token", http.StatusUnauthorized)
	})

	_, err := c.ListBoards(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "invalid token", apiErr.Body)
	assert.Equal(t, "/members/me/boards", apiErr.Path)
	assert.NotContains(t, err.Error(), "the-token")
}

func TestClient_DecodeError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := c.ListCards(context.Background(), "l1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("k", "t", WithBaseURL(""), WithTimeout(0))
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, DefaultTimeout, c.http.Timeout)
}
