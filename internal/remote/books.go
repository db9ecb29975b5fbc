package remote

import (
	"context"
	"fmt"
	"net/http"

	"github.com/blackwell-systems/shelfboard/internal/catalog"
)

// ListBooks fetches the whole collection.
func (c *Client) ListBooks(ctx context.Context) ([]catalog.Book, error) {
	var books []catalog.Book
	if _, err := c.doJSON(ctx, "list books", http.MethodGet, c.url("books"), nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// CreateBook adds a book picked from a catalog search. The store assigns the
// id and default shelf.
func (c *Client) CreateBook(ctx context.Context, d catalog.Draft) (catalog.Book, error) {
	var created catalog.Book
	ok, err := c.doJSON(ctx, "create book", http.MethodPost, c.url("books"), d, &created)
	if err != nil {
		return catalog.Book{}, err
	}
	if !ok || created.ID.IsZero() {
		return catalog.Book{}, &Error{Op: "create book", Err: fmt.Errorf("%w: no book id in response", ErrMalformed)}
	}
	return created, nil
}

// UpdateShelf moves a book to another shelf. The returned book is nil when
// the store answered without a body.
func (c *Client) UpdateShelf(ctx context.Context, id, shelfID catalog.ID) (*catalog.Book, error) {
	body := struct {
		ShelfID catalog.ID `json:"shelf_id"`
	}{shelfID}
	return c.updateBook(ctx, "update shelf", c.url("books", id.String()), body)
}

// UpdateDetails replaces the editable fields. Absent fields are sent as
// explicit nulls so the store clears them.
func (c *Client) UpdateDetails(ctx context.Context, id catalog.ID, d catalog.Details) (*catalog.Book, error) {
	return c.updateBook(ctx, "update details", c.url("books", id.String(), "details"), d.Normalize())
}

// UpdateFormat switches a book between paper and audio.
func (c *Client) UpdateFormat(ctx context.Context, id catalog.ID, f catalog.Format) (*catalog.Book, error) {
	body := struct {
		Type catalog.Format `json:"type"`
	}{f}
	return c.updateBook(ctx, "update type", c.url("books", id.String(), "type"), body)
}

// DeleteBook removes a book from the collection.
func (c *Client) DeleteBook(ctx context.Context, id catalog.ID) error {
	_, err := c.doJSON(ctx, "delete book", http.MethodDelete, c.url("books", id.String()), nil, nil)
	return err
}

func (c *Client) updateBook(ctx context.Context, op, url string, body any) (*catalog.Book, error) {
	var updated catalog.Book
	ok, err := c.doJSON(ctx, op, http.MethodPut, url, body, &updated)
	if err != nil {
		return nil, err
	}
	if !ok || updated.ID.IsZero() {
		return nil, nil
	}
	return &updated, nil
}
