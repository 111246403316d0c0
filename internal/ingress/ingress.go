// Package ingress adapts external notification feeds into the daemon's
// event model. Each source pushes events to a handler; the daemon owns
// filtering and presentation.
package ingress

import "github.com/minipop/minipop/internal/model"

// Handler receives events as a source produces them.
type Handler func(*model.NotificationEvent)

// Source is a running event feed.
type Source interface {
	// Name returns the source identifier for logging.
	Name() string

	// Start begins producing events. The handler is invoked from the
	// source's own goroutine.
	Start(handler Handler) error

	// Stop halts the feed.
	Stop() error
}

// SourceError represents an error from a specific ingress source.
type SourceError struct {
	Source  string
	Message string
	Err     error
}

func (e *SourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Source + ": " + e.Message
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
