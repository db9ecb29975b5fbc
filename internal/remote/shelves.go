package remote

import (
	"context"
	"fmt"
	"net/http"

	"github.com/blackwell-systems/shelfboard/internal/catalog"
)

// ListShelves fetches the shelf set.
func (c *Client) ListShelves(ctx context.Context) ([]catalog.Shelf, error) {
	var shelves []catalog.Shelf
	if _, err := c.doJSON(ctx, "list shelves", http.MethodGet, c.url("shelves"), nil, &shelves); err != nil {
		return nil, err
	}
	return shelves, nil
}

// CreateShelf adds a user shelf. A name already in use fails with
// ErrConflict.
func (c *Client) CreateShelf(ctx context.Context, name string) (catalog.Shelf, error) {
	body := struct {
		Name string `json:"name"`
	}{name}
	var created catalog.Shelf
	ok, err := c.doJSON(ctx, "create shelf", http.MethodPost, c.url("shelves"), body, &created)
	if err != nil {
		return catalog.Shelf{}, err
	}
	if !ok || created.ID.IsZero() {
		return catalog.Shelf{}, &Error{Op: "create shelf", Err: fmt.Errorf("%w: no shelf id in response", ErrMalformed)}
	}
	return created, nil
}
