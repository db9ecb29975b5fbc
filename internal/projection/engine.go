package projection

import (
	"sync"

	"github.com/blackwell-systems/shelfboard/internal/catalog"
)

// Source is the read side of the collection state.
type Source interface {
	Version() uint64
	Contents() (version uint64, books []catalog.Book, shelves []catalog.Shelf)
}

type cacheKey struct {
	version uint64
	params  Params
}

// Engine memoizes the most recent projection. It never mutates the source.
type Engine struct {
	src Source

	mu       sync.Mutex
	key      cacheKey
	view     View
	valid    bool
	computes int
}

// NewEngine returns an engine reading from src.
func NewEngine(src Source) *Engine {
	return &Engine{src: src}
}

// View returns the projection for p, recomputing only when the collection
// version or the parameters changed since the last call.
func (e *Engine) View(p Params) View {
	p = p.Normalize()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.valid && e.key == (cacheKey{version: e.src.Version(), params: p}) {
		return e.view.clone()
	}
	version, books, shelves := e.src.Contents()
	e.view = Project(Input{Books: books, Shelves: shelves}, p)
	e.key = cacheKey{version: version, params: p}
	e.valid = true
	e.computes++
	return e.view.clone()
}

// Invalidate drops the memoized view.
func (e *Engine) Invalidate() {
	e.mu.Lock()
	e.valid = false
	e.mu.Unlock()
}
