package interfaces

import (
	"context"

	"remote_e2e/domain/entities"
)

// SessionOpener acquires a browser session for a run
type SessionOpener interface {
	// Open starts a session using the hub, capabilities and timeouts of cfg
	Open(ctx context.Context, cfg entities.RunConfig) (Session, error)
}

// Session is a stateful connection to one automated browser. It is valid
// between Open and Close.
type Session interface {
	// ID returns the opaque session identifier
	ID() string

	// Navigate loads a URL in the current window
	Navigate(ctx context.Context, url string) error

	// Click finds the first element matching selector and clicks it
	Click(ctx context.Context, selector entities.Selector) error

	// FindElements queries the live page; an empty result is not an error
	FindElements(ctx context.Context, selector entities.Selector) ([]Element, error)

	// Back navigates one entry back in history
	Back(ctx context.Context) error

	// Close releases the remote session
	Close() error
}

// Element is a reference to a DOM element on the current page
type Element interface {
	Click(ctx context.Context) error
}
