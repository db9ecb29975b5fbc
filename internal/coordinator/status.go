package coordinator

// Area names the part of the UI a status message belongs to.
type Area string

const (
	AreaBookshelf Area = "bookshelf"
	AreaSearch    Area = "search"
)

// Status is one user-visible message. Err is nil for success notices.
type Status struct {
	Area    Area
	Message string
	Err     error
}

// IsError reports whether the status reports a failure.
func (s Status) IsError() bool { return s.Err != nil }

// Notifier receives status messages. Notify may be called from any
// goroutine.
type Notifier interface {
	Notify(Status)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Status)

// Notify calls f(s).
func (f NotifierFunc) Notify(s Status) { f(s) }

type discard struct{}

func (discard) Notify(Status) {}
