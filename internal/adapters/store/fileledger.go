package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/okian/aporte/internal/domain/model"
)

// ledgerWire is the on-disk shape of the ledger document. Field names are
// fixed for compatibility with existing data files; user ids are stored as
// string keys because JSON object keys are strings.
type ledgerWire struct {
	Points    map[string]int    `json:"points"`
	Users     map[string]string `json:"users"`
	LastReset string            `json:"last_reset"`
}

// FileLedger implements LedgerStore on a single JSON document.
type FileLedger struct {
	mu   sync.Mutex
	path string
	cfg  fileConfig
}

// NewFileLedger creates a ledger store backed by the JSON document at path.
func NewFileLedger(path string, opts ...Option) *FileLedger {
	return &FileLedger{
		path: path,
		cfg:  newFileConfig(opts...),
	}
}

// Load reads the persisted ledger document.
func (l *FileLedger) Load(ctx context.Context) (*LedgerDocument, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := readDocument(l.path)
	if err != nil {
		return nil, err
	}

	var wire ledgerWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDocCorrupt, l.path, err)
	}

	doc := NewLedgerDocument(time.Time{})
	if wire.LastReset != "" {
		reset, err := time.Parse(dateFormat, wire.LastReset)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: bad last_reset %q", ErrDocCorrupt, l.path, wire.LastReset)
		}
		doc.LastReset = reset
	}

	for key, points := range wire.Points {
		id, err := parseUserID(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: bad user id %q", ErrDocCorrupt, l.path, key)
		}
		doc.Points[id] = points
	}
	for key, name := range wire.Users {
		id, err := parseUserID(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: bad user id %q", ErrDocCorrupt, l.path, key)
		}
		doc.Users[id] = name
	}

	return doc, nil
}

// Persist durably writes the ledger document.
func (l *FileLedger) Persist(ctx context.Context, doc *LedgerDocument) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	wire := ledgerWire{
		Points:    make(map[string]int, len(doc.Points)),
		Users:     make(map[string]string, len(doc.Users)),
		LastReset: doc.LastReset.Format(dateFormat),
	}
	for id, points := range doc.Points {
		wire.Points[formatUserID(id)] = points
	}
	for id, name := range doc.Users {
		wire.Users[formatUserID(id)] = name
	}

	return writeDocument(l.path, wire, l.cfg)
}

func parseUserID(key string) (model.UserID, error) {
	id, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return 0, err
	}
	return model.UserID(id), nil
}

func formatUserID(id model.UserID) string {
	return strconv.FormatInt(int64(id), 10)
}
