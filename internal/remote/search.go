package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/blackwell-systems/shelfboard/internal/catalog"
)

// Search queries the external catalog through the store. No matches is an
// empty slice, not an error. Calls are throttled.
func (c *Client) Search(ctx context.Context, q string) ([]catalog.Candidate, error) {
	if err := c.search.Wait(ctx); err != nil {
		return nil, &Error{Op: "search", Err: fmt.Errorf("%w: %w", ErrTransport, err)}
	}
	u := c.url("search") + "?" + url.Values{"q": {q}}.Encode()
	var results []catalog.Candidate
	if _, err := c.doJSON(ctx, "search", http.MethodGet, u, nil, &results); err != nil {
		return nil, err
	}
	if results == nil {
		results = []catalog.Candidate{}
	}
	return results, nil
}
