package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/blackwell-systems/shelfboard/internal/cache"
	"github.com/blackwell-systems/shelfboard/internal/catalog"
	"github.com/blackwell-systems/shelfboard/internal/collection"
	"github.com/blackwell-systems/shelfboard/internal/coordinator"
	"github.com/blackwell-systems/shelfboard/internal/projection"
	"golang.org/x/sync/errgroup"
)

// session is one loaded collection together with the coordinator that
// mutates it.
type session struct {
	state  *collection.State
	engine *projection.Engine
	coord  *coordinator.Coordinator
	// offline is set when the collection came from the local snapshot.
	offline bool
}

// fetchCollection loads books and shelves from the server in parallel.
func fetchCollection(ctx context.Context) (catalog.Snapshot, error) {
	var snap catalog.Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		books, err := client.ListBooks(gctx)
		if err != nil {
			return err
		}
		snap.Books = books
		return nil
	})
	g.Go(func() error {
		shelves, err := client.ListShelves(gctx)
		if err != nil {
			return err
		}
		snap.Shelves = shelves
		return nil
	})
	if err := g.Wait(); err != nil {
		return catalog.Snapshot{}, err
	}
	return snap, nil
}

// loadSnapshot returns the collection, preferring the server. With
// allowCache a server failure falls back to the last saved snapshot; with
// offline the server is not contacted at all.
func loadSnapshot(ctx context.Context, offline, allowCache bool) (catalog.Snapshot, bool, error) {
	if offline {
		snap, err := cacheMgr.Load(cfg.Remote.BaseURL)
		if errors.Is(err, cache.ErrNoSnapshot) {
			return catalog.Snapshot{}, true, fmt.Errorf("no offline snapshot for %s (run any command online first)", cfg.Remote.BaseURL)
		}
		return snap, true, err
	}

	snap, err := fetchCollection(ctx)
	if err != nil {
		if allowCache && !cfg.Cache.Disabled && cacheMgr.Exists(cfg.Remote.BaseURL) {
			cached, cerr := cacheMgr.Load(cfg.Remote.BaseURL)
			if cerr == nil {
				warn("Server unavailable (%v); showing snapshot from %s", err, cached.SavedAt.Local().Format("2006-01-02 15:04"))
				return cached, true, nil
			}
			slog.Warn("cached snapshot unusable", "error", cerr)
		}
		return catalog.Snapshot{}, false, fmt.Errorf("loading collection: %w", err)
	}

	if !cfg.Cache.Disabled {
		if path, err := cacheMgr.Save(cfg.Remote.BaseURL, snap); err != nil {
			slog.Warn("saving offline snapshot failed", "error", err)
		} else {
			slog.Debug("saved offline snapshot", "path", path)
		}
	}
	return snap, false, nil
}

// openSession loads the collection and wires a coordinator against the
// server. Mutating commands refuse to run on a cached snapshot.
func openSession(ctx context.Context, opts ...coordinator.Option) (*session, error) {
	snap, offline, err := loadSnapshot(ctx, false, false)
	if err != nil {
		return nil, err
	}
	return newSession(snap, offline, opts...), nil
}

func newSession(snap catalog.Snapshot, offline bool, opts ...coordinator.Option) *session {
	state := collection.New()
	state.LoadShelves(snap.Shelves)
	state.Load(snap.Books)

	opts = append([]coordinator.Option{coordinator.WithTimeout(cfg.Remote.Timeout)}, opts...)
	return &session{
		state:   state,
		engine:  projection.NewEngine(state),
		coord:   coordinator.New(state, client, opts...),
		offline: offline,
	}
}

// run dispatches one intent and waits for the server's answer. A rejected or
// rolled-back intent comes back as an error carrying the user message.
func (s *session) run(ctx context.Context, in coordinator.Intent) (coordinator.Outcome, error) {
	t := s.coord.Dispatch(ctx, in)
	// The store call outlives ctx, so wait on the ticket itself.
	<-t.Done()
	o := t.Outcome()
	switch o.Phase {
	case coordinator.PhaseConfirmed:
		return o, nil
	default:
		msg := o.Message
		if msg == "" && o.Err != nil {
			msg = o.Err.Error()
		}
		return o, &outcomeError{msg: msg, err: o.Err}
	}
}

// outcomeError prints as the user-facing message and unwraps to the cause.
type outcomeError struct {
	msg string
	err error
}

func (e *outcomeError) Error() string { return e.msg }

func (e *outcomeError) Unwrap() error { return e.err }
