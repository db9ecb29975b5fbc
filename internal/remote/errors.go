package remote

import (
	"errors"
	"net/http"
)

// Failure classes. Every error returned by Client wraps exactly one.
var (
	// ErrNotFound is returned when the book or shelf does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when the store already holds the resource.
	ErrConflict = errors.New("conflict")
	// ErrBadRequest is returned when the store rejects the payload.
	ErrBadRequest = errors.New("bad request")
	// ErrServer is returned for 5xx and unexpected statuses.
	ErrServer = errors.New("server error")
	// ErrTransport is returned when the request never got a response.
	ErrTransport = errors.New("store unreachable")
	// ErrMalformed is returned when a success response cannot be decoded.
	ErrMalformed = errors.New("malformed response")
)

// Error describes a failed store call.
type Error struct {
	// Op names the call, e.g. "update shelf".
	Op string
	// Status is the HTTP status code, or 0 if no response arrived.
	Status int
	// Message is the store's human-readable explanation, if it sent one.
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Op + ": " + e.Err.Error()
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// UserMessage returns the store's message if present, else fallback.
func UserMessage(err error, fallback string) string {
	var re *Error
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	return fallback
}

func classify(status int) error {
	switch {
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusConflict:
		return ErrConflict
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return ErrBadRequest
	}
	return ErrServer
}
