package repositories

import "context"

// OpaqueID is a backend native identifier. String returns its canonical text form.
type OpaqueID interface {
	String() string
}

// IdCodec lets the stores reject malformed ids before any query is issued.
type IdCodec interface {
	IsValid(id string) bool
	Parse(id string) (OpaqueID, error)
}

// Lifecycle owns the connection to a backend. Connect reuses a live connection,
// Close is idempotent, and every repository call made while closed fails
// with errors.ErrNotConnected.
type Lifecycle interface {
	Connect(ctx context.Context) error
	Close(ctx context.Context) error
}
