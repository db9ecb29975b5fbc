package remote_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blackwell-systems/shelfboard/internal/catalog"
	"github.com/blackwell-systems/shelfboard/internal/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, h http.HandlerFunc) *remote.Client {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	return remote.New(server.URL+"/api/", remote.WithSearchRate(0))
}

func TestListBooks_MixedIDs(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/books", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id":1,"title":"Dune","author":"Herbert","shelf_id":2},{"id":"abc","title":"Emma","rating":7}]`)
	})

	books, err := c.ListBooks(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, catalog.ID("1"), books[0].ID)
	assert.Equal(t, catalog.ID("2"), books[0].ShelfID)
	assert.Equal(t, catalog.ID("abc"), books[1].ID)
	require.NotNil(t, books[1].Rating)
	assert.Equal(t, 7, *books[1].Rating)
}

func TestUpdateShelf_SendsShelfID(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/books/1", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(3), body["shelf_id"])
		_, _ = io.WriteString(w, `{"id":1,"title":"Dune","shelf_id":3}`)
	})

	b, err := c.UpdateShelf(context.Background(), "1", "3")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, catalog.ID("3"), b.ShelfID)
}

func TestUpdateShelf_EmptyBody(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	b, err := c.UpdateShelf(context.Background(), "1", "3")
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestUpdateDetails_SendsExplicitNulls(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/books/9/details", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		for _, k := range []string{"rating", "comments", "series", "series_index"} {
			_, present := body[k]
			assert.True(t, present, "field %q missing from payload", k)
		}
		assert.Equal(t, float64(8), body["rating"])
		assert.Nil(t, body["comments"], "blank comments should be sent as null")
		w.WriteHeader(http.StatusOK)
	})
	blank := "  "
	rating := 8
	_, err := c.UpdateDetails(context.Background(), "9", catalog.Details{Rating: &rating, Comments: &blank})
	require.NoError(t, err)
}

func TestCreateBook_Conflict(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"error":"Book already exists"}`)
	})

	_, err := c.CreateBook(context.Background(), catalog.Draft{Title: "Dune", CatalogRef: "OL1M"})
	require.Error(t, err)
	assert.ErrorIs(t, err, remote.ErrConflict)

	var re *remote.Error
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusConflict, re.Status)
	assert.Equal(t, "Book already exists", re.Message)
	assert.Equal(t, "Book already exists", remote.UserMessage(err, "fallback"))
}

func TestStatusClassification(t *testing.T) {
	tests := []struct {
		status int
		body   string
		want   error
		msg    string
	}{
		{http.StatusNotFound, `{"error":"Book not found"}`, remote.ErrNotFound, "Book not found"},
		{http.StatusBadRequest, `{"message":"bad shelf"}`, remote.ErrBadRequest, "bad shelf"},
		{http.StatusInternalServerError, `oops`, remote.ErrServer, ""},
		{http.StatusBadGateway, ``, remote.ErrServer, ""},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			err := c.DeleteBook(context.Background(), "1")
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.msg, remote.UserMessage(err, ""))
		})
	}
}

func TestMalformedResponse(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"books":`)
	})
	_, err := c.ListBooks(context.Background())
	assert.ErrorIs(t, err, remote.ErrMalformed)
}

func TestTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	c := remote.New(url)
	_, err := c.ListShelves(context.Background())
	require.ErrorIs(t, err, remote.ErrTransport)
	assert.Equal(t, "Could not reach the store", remote.UserMessage(err, "Could not reach the store"))
}

func TestContextCancelled(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.ListBooks(ctx)
	require.ErrorIs(t, err, remote.ErrTransport)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestSearch(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/search", r.URL.Path)
		switch r.URL.Query().Get("q") {
		case "le guin":
			_, _ = io.WriteString(w, `[{"title":"The Dispossessed","author":"Ursula K. Le Guin","open_library_id":"OL59M"}]`)
		default:
			_, _ = io.WriteString(w, `null`)
		}
	})

	got, err := c.Search(context.Background(), "le guin")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "OL59M", got[0].CatalogRef)

	none, err := c.Search(context.Background(), "zzzz")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestCreateShelf(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/shelves", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":4,"name":"Favourites"}`)
	})
	sh, err := c.CreateShelf(context.Background(), "Favourites")
	require.NoError(t, err)
	assert.Equal(t, catalog.Shelf{ID: "4", Name: "Favourites"}, sh)
}
