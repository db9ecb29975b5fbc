// Package coordinator turns user intents into optimistic collection changes
// confirmed or rolled back against the store.
//
// Dispatch validates and applies an intent before it returns, so the next
// render already shows the change. The store call then runs in the
// background and its result either confirms the change or undoes it.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/blackwell-systems/shelfboard/internal/catalog"
	"github.com/blackwell-systems/shelfboard/internal/collection"
	"github.com/blackwell-systems/shelfboard/internal/remote"
)

var (
	// ErrDuplicateCatalogEntry is returned when adding a book whose catalog
	// reference is already in the collection.
	ErrDuplicateCatalogEntry = errors.New("book already in collection")
	// ErrDuplicateShelfName is returned when creating a shelf whose name is
	// taken.
	ErrDuplicateShelfName = errors.New("shelf name already in use")
	// ErrUnknownIntent is returned for intents this package does not handle.
	ErrUnknownIntent = errors.New("unknown intent")
)

// DefaultTimeout bounds each store call.
const DefaultTimeout = 15 * time.Second

// Fallback messages when the store gives no explanation.
const (
	msgMoveFailed   = "Failed to update book status. Please try again."
	msgEditFailed   = "Failed to update book details. Please try again."
	msgFormatFailed = "Failed to update book type. Please try again."
	msgAddFailed    = "Failed to add book. Please try again."
	msgDeleteFailed = "Failed to delete book. Please try again."
	msgShelfFailed  = "Failed to create shelf. Please try again."
)

// Store is the remote side of every intent. *remote.Client implements it.
type Store interface {
	CreateBook(ctx context.Context, d catalog.Draft) (catalog.Book, error)
	UpdateShelf(ctx context.Context, id, shelfID catalog.ID) (*catalog.Book, error)
	UpdateDetails(ctx context.Context, id catalog.ID, d catalog.Details) (*catalog.Book, error)
	UpdateFormat(ctx context.Context, id catalog.ID, f catalog.Format) (*catalog.Book, error)
	DeleteBook(ctx context.Context, id catalog.ID) error
	CreateShelf(ctx context.Context, name string) (catalog.Shelf, error)
}

// Coordinator processes intents against one collection and one store.
type Coordinator struct {
	state    *collection.State
	store    Store
	notifier Notifier
	timeout  time.Duration
	log      *slog.Logger

	wg sync.WaitGroup
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithNotifier sets where status messages go.
func WithNotifier(n Notifier) Option {
	return func(c *Coordinator) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithTimeout sets the per-call store timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.log = l
		}
	}
}

// New returns a coordinator for state backed by store.
func New(state *collection.State, store Store, opts ...Option) *Coordinator {
	c := &Coordinator{
		state:    state,
		store:    store,
		notifier: discard{},
		timeout:  DefaultTimeout,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dispatch runs an intent. Validation and the optimistic change happen
// before Dispatch returns; the store call continues in the background and
// is not cancelled by ctx ending.
func (c *Coordinator) Dispatch(ctx context.Context, in Intent) *Ticket {
	t := newTicket(in)
	switch in := in.(type) {
	case Move:
		c.move(ctx, t, in)
	case Edit:
		c.edit(ctx, t, in)
	case ChangeFormat:
		c.changeFormat(ctx, t, in)
	case Delete:
		c.remove(ctx, t, in)
	case Add:
		c.add(ctx, t, in)
	case CreateShelf:
		c.createShelf(ctx, t, in)
	default:
		c.reject(t, fmt.Errorf("%w: %T", ErrUnknownIntent, in), "")
	}
	return t
}

// Wait blocks until every dispatched intent has resolved.
func (c *Coordinator) Wait() { c.wg.Wait() }

func (c *Coordinator) move(ctx context.Context, t *Ticket, in Move) {
	b, ok := c.state.Book(in.BookID)
	if !ok {
		c.fault(t, "move", fmt.Errorf("move %s: %w", in.BookID, collection.ErrNotFound))
		return
	}
	if b.ShelfID == in.ShelfID {
		c.confirm(t, Outcome{Book: &b})
		return
	}
	prior, err := c.state.ApplyShelfChange(in.BookID, in.ShelfID)
	if err != nil {
		c.fault(t, "move", err)
		return
	}
	c.resolve(ctx, t, prior, msgMoveFailed, "", func(ctx context.Context) (*catalog.Book, error) {
		return c.store.UpdateShelf(ctx, in.BookID, in.ShelfID)
	})
}

func (c *Coordinator) edit(ctx context.Context, t *Ticket, in Edit) {
	if err := in.Details.Validate(); err != nil {
		c.reject(t, err, err.Error())
		return
	}
	b, ok := c.state.Book(in.BookID)
	if !ok {
		c.fault(t, "edit", fmt.Errorf("edit %s: %w", in.BookID, collection.ErrNotFound))
		return
	}
	d := in.Details.Normalize()
	if b.Details().Equal(d) {
		c.confirm(t, Outcome{Book: &b})
		return
	}
	prior, err := c.state.ApplyDetailsEdit(in.BookID, d)
	if err != nil {
		c.fault(t, "edit", err)
		return
	}
	c.resolve(ctx, t, prior, msgEditFailed, "Changes saved successfully!", func(ctx context.Context) (*catalog.Book, error) {
		return c.store.UpdateDetails(ctx, in.BookID, d)
	})
}

func (c *Coordinator) changeFormat(ctx context.Context, t *Ticket, in ChangeFormat) {
	b, ok := c.state.Book(in.BookID)
	if !ok {
		c.fault(t, "format", fmt.Errorf("change type of %s: %w", in.BookID, collection.ErrNotFound))
		return
	}
	if b.Format == in.Format {
		c.confirm(t, Outcome{Book: &b})
		return
	}
	prior, err := c.state.ApplyFormatChange(in.BookID, in.Format)
	if err != nil {
		if catalog.IsValidation(err) {
			c.reject(t, err, err.Error())
			return
		}
		c.fault(t, "format", err)
		return
	}
	c.resolve(ctx, t, prior, msgFormatFailed, "", func(ctx context.Context) (*catalog.Book, error) {
		return c.store.UpdateFormat(ctx, in.BookID, in.Format)
	})
}

func (c *Coordinator) remove(ctx context.Context, t *Ticket, in Delete) {
	prior, err := c.state.Remove(in.BookID)
	if err != nil {
		c.fault(t, "delete", err)
		return
	}
	title := prior.Before().Title
	c.resolve(ctx, t, prior, msgDeleteFailed, fmt.Sprintf(`Book "%s" deleted.`, title), func(ctx context.Context) (*catalog.Book, error) {
		err := c.store.DeleteBook(ctx, in.BookID)
		if errors.Is(err, remote.ErrNotFound) {
			// Already gone on the store side.
			return nil, nil
		}
		return nil, err
	})
}

// resolve runs call in the background and confirms or reverts prior.
func (c *Coordinator) resolve(ctx context.Context, t *Ticket, prior collection.Prior, fallback, success string, call func(context.Context) (*catalog.Book, error)) {
	t.setPhase(PhaseApplied)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		canonical, err := call(callCtx)
		if err != nil {
			c.rollback(t, prior, err, fallback)
			return
		}
		if canonical != nil {
			c.state.Confirm(prior, *canonical)
		}
		o := Outcome{Phase: PhaseConfirmed, Message: success}
		if b, ok := c.state.Book(prior.BookID()); ok {
			o.Book = &b
		}
		if success != "" {
			c.report(t, Status{Area: AreaBookshelf, Message: success})
		}
		t.finish(o)
	}()
}

func (c *Coordinator) rollback(t *Ticket, prior collection.Prior, cause error, fallback string) {
	reverted, err := c.state.Revert(prior)
	switch {
	case err != nil:
		c.log.Error("rollback failed", "intent", t.intent.Kind(), "book_id", prior.BookID(), "error", err)
	case !reverted:
		c.log.Warn("rollback skipped, superseded by a later change", "intent", t.intent.Kind(), "book_id", prior.BookID())
	default:
		c.log.Warn("store rejected change, rolled back", "intent", t.intent.Kind(), "book_id", prior.BookID(), "error", cause)
	}
	msg := remote.UserMessage(cause, fallback)
	c.report(t, Status{Area: AreaBookshelf, Message: msg, Err: cause})
	t.finish(Outcome{Phase: PhaseRolledBack, Err: cause, Message: msg})
}

func (c *Coordinator) add(ctx context.Context, t *Ticket, in Add) {
	d := in.Draft
	d.Title = strings.TrimSpace(d.Title)
	d.CatalogRef = strings.TrimSpace(d.CatalogRef)
	if err := d.Validate(); err != nil {
		c.reject(t, err, err.Error())
		return
	}
	if _, dup := c.state.ByCatalogRef(d.CatalogRef); dup {
		c.reject(t, duplicateBook(d.Title), duplicateMessage(d.Title))
		return
	}
	t.setPhase(PhasePending)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		created, err := c.store.CreateBook(callCtx, d)
		if err != nil {
			msg := remote.UserMessage(err, msgAddFailed)
			if isDuplicateEntry(err) {
				err = fmt.Errorf("%w: %w", duplicateBook(d.Title), err)
				msg = duplicateMessage(d.Title)
			}
			c.fail(t, err, msg)
			return
		}
		if err := c.state.Insert(created); err != nil {
			// A reload delivered the record before the create returned.
			c.log.Warn("added book already in collection", "book_id", created.ID, "error", err)
			existing, ok := c.state.Book(created.ID)
			if !ok {
				existing = created
			}
			msg := duplicateMessage(existing.Title)
			c.report(t, Status{Area: AreaSearch, Message: msg})
			t.finish(Outcome{Phase: PhaseConfirmed, Message: msg, Book: &existing})
			return
		}
		msg := fmt.Sprintf(`Book "%s" added successfully!`, created.Title)
		c.report(t, Status{Area: AreaSearch, Message: msg})
		t.finish(Outcome{Phase: PhaseConfirmed, Message: msg, Book: &created})
	}()
}

func (c *Coordinator) createShelf(ctx context.Context, t *Ticket, in CreateShelf) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		err := &catalog.ValidationError{Field: "name", Message: "is required"}
		c.reject(t, err, err.Error())
		return
	}
	if _, taken := c.state.ShelfByName(name); taken {
		c.reject(t, fmt.Errorf("create shelf %q: %w", name, ErrDuplicateShelfName), shelfTakenMessage(name))
		return
	}
	t.setPhase(PhasePending)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		sh, err := c.store.CreateShelf(callCtx, name)
		if err != nil {
			msg := remote.UserMessage(err, msgShelfFailed)
			if errors.Is(err, remote.ErrConflict) {
				err = fmt.Errorf("create shelf %q: %w: %w", name, ErrDuplicateShelfName, err)
				msg = shelfTakenMessage(name)
			}
			c.fail(t, err, msg)
			return
		}
		if err := c.state.InsertShelf(sh); err != nil {
			c.log.Error("created shelf already present", "shelf_id", sh.ID, "error", err)
		}
		msg := fmt.Sprintf(`Shelf "%s" created.`, sh.Name)
		c.report(t, Status{Area: AreaBookshelf, Message: msg})
		t.finish(Outcome{Phase: PhaseConfirmed, Message: msg, Shelf: &sh})
	}()
}

func (c *Coordinator) confirm(t *Ticket, o Outcome) {
	o.Phase = PhaseConfirmed
	t.finish(o)
}

// reject ends an intent that failed before anything changed.
func (c *Coordinator) reject(t *Ticket, err error, msg string) {
	c.report(t, Status{Area: areaOf(t.intent), Message: msg, Err: err})
	t.finish(Outcome{Phase: PhaseRejected, Err: err, Message: msg})
}

// fault rejects an intent that referenced something missing locally. That
// points at a caller bug, so it is logged as an error.
func (c *Coordinator) fault(t *Ticket, op string, err error) {
	c.log.Error("intent rejected", "intent", op, "error", err)
	c.reject(t, err, "")
}

func (c *Coordinator) fail(t *Ticket, err error, msg string) {
	c.log.Warn("store rejected intent", "intent", t.intent.Kind(), "error", err)
	c.report(t, Status{Area: areaOf(t.intent), Message: msg, Err: err})
	t.finish(Outcome{Phase: PhaseFailed, Err: err, Message: msg})
}

func (c *Coordinator) report(t *Ticket, s Status) {
	if t.Ignored() || (s.Message == "" && s.Err == nil) {
		return
	}
	if s.Message == "" {
		s.Message = s.Err.Error()
	}
	c.notifier.Notify(s)
}

func areaOf(in Intent) Area {
	if _, ok := in.(Add); ok {
		return AreaSearch
	}
	return AreaBookshelf
}

// isDuplicateEntry reports whether the store refused a create because the
// catalog entry is already stored. Some stores answer 500 with the database
// error text instead of 409.
func isDuplicateEntry(err error) bool {
	if errors.Is(err, remote.ErrConflict) {
		return true
	}
	var re *remote.Error
	return errors.As(err, &re) && strings.Contains(strings.ToLower(re.Message), "unique constraint")
}

func duplicateBook(title string) error {
	return fmt.Errorf("add %q: %w", title, ErrDuplicateCatalogEntry)
}

func duplicateMessage(title string) string {
	return fmt.Sprintf(`Book "%s" is already on your shelf.`, title)
}

func shelfTakenMessage(name string) string {
	return fmt.Sprintf(`A shelf named "%s" already exists.`, name)
}
