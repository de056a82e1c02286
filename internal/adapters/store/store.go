// Package store defines the durable ledger and archive stores and their
// JSON-file implementations.
package store

import (
	"context"
	"time"

	"github.com/okian/aporte/internal/domain/model"
)

// Date format used inside persisted documents.
const dateFormat = "2006-01-02"

// LedgerDocument is the durable state of the open period: accumulated points
// and display names per user, plus the date of the last reset.
type LedgerDocument struct {
	Points    map[model.UserID]int
	Users     map[model.UserID]string
	LastReset time.Time
}

// NewLedgerDocument creates an empty ledger document reset at the given date.
func NewLedgerDocument(lastReset time.Time) *LedgerDocument {
	return &LedgerDocument{
		Points:    make(map[model.UserID]int),
		Users:     make(map[model.UserID]string),
		LastReset: lastReset,
	}
}

// LedgerStore provides durable access to the open period's ledger.
type LedgerStore interface {
	// Load reads the persisted ledger. Returns ErrDocMissing when no
	// document exists yet and ErrDocCorrupt when it cannot be parsed;
	// callers are expected to degrade those to an empty ledger.
	Load(ctx context.Context) (*LedgerDocument, error)

	// Persist durably writes the ledger. A mutation is committed only
	// once Persist returns nil.
	Persist(ctx context.Context, doc *LedgerDocument) error
}

// ArchiveStore provides durable access to the append-only history of closed
// periods.
type ArchiveStore interface {
	// Load reads all archived periods in chronological close order.
	// Returns ErrDocMissing or ErrDocCorrupt under the same contract as
	// LedgerStore.Load.
	Load(ctx context.Context) ([]model.ArchivedPeriod, error)

	// Append durably adds a closed period to the archive.
	Append(ctx context.Context, p model.ArchivedPeriod) error

	// Contains reports whether a period with the given boundary pair has
	// already been archived. Load must have been called first.
	Contains(ctx context.Context, start, end time.Time) bool
}
