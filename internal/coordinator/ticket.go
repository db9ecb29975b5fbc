package coordinator

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/blackwell-systems/shelfboard/internal/catalog"
)

// Phase is where an intent is in its lifecycle.
type Phase string

const (
	PhaseValidating Phase = "validating"
	// PhaseApplied means the change is visible locally and the store call is
	// in flight.
	PhaseApplied Phase = "applied"
	// PhasePending means the store call is in flight for an intent that has
	// no local effect until it succeeds (add, create shelf).
	PhasePending    Phase = "pending"
	PhaseConfirmed  Phase = "confirmed"
	PhaseRolledBack Phase = "rolled-back"
	// PhaseRejected means the intent failed locally. Nothing changed and the
	// store was not called.
	PhaseRejected Phase = "rejected"
	// PhaseFailed means the store refused a non-optimistic intent. Nothing
	// changed locally.
	PhaseFailed Phase = "failed"
)

// Terminal reports whether no further transition can happen.
func (p Phase) Terminal() bool {
	switch p {
	case PhaseConfirmed, PhaseRolledBack, PhaseRejected, PhaseFailed:
		return true
	}
	return false
}

// Outcome is the final result of an intent.
type Outcome struct {
	Phase Phase
	// Err is nil for confirmed intents.
	Err error
	// Message is the user-facing text, empty when there is nothing to say.
	Message string
	// Book is the resulting record for add and confirmed book intents.
	Book *catalog.Book
	// Shelf is the created shelf for CreateShelf.
	Shelf *catalog.Shelf
}

// Ticket tracks one dispatched intent.
type Ticket struct {
	intent  Intent
	done    chan struct{}
	ignored atomic.Bool

	mu      sync.Mutex
	phase   Phase
	outcome Outcome
}

func newTicket(in Intent) *Ticket {
	return &Ticket{intent: in, done: make(chan struct{}), phase: PhaseValidating}
}

// Intent returns the intent this ticket tracks.
func (t *Ticket) Intent() Intent { return t.intent }

// Phase returns the current phase.
func (t *Ticket) Phase() Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.phase
}

// Done is closed when the intent reaches a terminal phase.
func (t *Ticket) Done() <-chan struct{} { return t.done }

// Wait blocks until the intent resolves or ctx ends. Ending ctx does not
// cancel the intent.
func (t *Ticket) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-t.done:
		return t.Outcome(), nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

// Outcome returns the result so far. Phase is non-terminal until Done.
func (t *Ticket) Outcome() Outcome {
	t.mu.Lock()
	defer t.mu.Unlock()
	o := t.outcome
	o.Phase = t.phase
	return o
}

// Ignore abandons interest in the result. The store call is not aborted and
// a failure still rolls the collection back, but no status is reported.
func (t *Ticket) Ignore() { t.ignored.Store(true) }

// Ignored reports whether Ignore was called.
func (t *Ticket) Ignored() bool { return t.ignored.Load() }

func (t *Ticket) setPhase(p Phase) {
	t.mu.Lock()
	t.phase = p
	t.mu.Unlock()
}

func (t *Ticket) finish(o Outcome) {
	t.mu.Lock()
	t.phase = o.Phase
	t.outcome = o
	t.mu.Unlock()
	close(t.done)
}
