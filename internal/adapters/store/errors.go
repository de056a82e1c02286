package store

import "errors"

// Sentinel kinds for storage errors.
var (
	// ErrDocMissing marks a backing document that does not exist yet.
	ErrDocMissing = errors.New("backing document missing")

	// ErrDocCorrupt marks a backing document that exists but cannot be
	// parsed into a usable state.
	ErrDocCorrupt = errors.New("backing document corrupt")
)

// IsRecoverableRead reports whether a Load error may be degraded to an empty
// state instead of being propagated.
func IsRecoverableRead(err error) bool {
	return errors.Is(err, ErrDocMissing) || errors.Is(err, ErrDocCorrupt)
}
