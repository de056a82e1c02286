package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/okian/aporte/internal/domain/model"
)

// archiveRowWire is one ranking line inside an archived period document.
type archiveRowWire struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// archivePeriodWire is the on-disk shape of one closed period. Field names
// are fixed for compatibility with existing history files.
type archivePeriodWire struct {
	PeriodStart string           `json:"period_start"`
	PeriodEnd   string           `json:"period_end"`
	Ranking     []archiveRowWire `json:"ranking"`
}

// FileArchive implements ArchiveStore on a single JSON document holding the
// ordered sequence of closed periods. Entries are immutable once appended;
// the file is rewritten wholesale on append but never edited in place.
type FileArchive struct {
	mu      sync.Mutex
	path    string
	cfg     fileConfig
	entries []model.ArchivedPeriod
}

// NewFileArchive creates an archive store backed by the JSON document at path.
func NewFileArchive(path string, opts ...Option) *FileArchive {
	return &FileArchive{
		path: path,
		cfg:  newFileConfig(opts...),
	}
}

// Load reads all archived periods in chronological close order and caches
// them for Contains checks.
func (a *FileArchive) Load(ctx context.Context) ([]model.ArchivedPeriod, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	data, err := readDocument(a.path)
	if err != nil {
		// A missing archive is a valid empty one; arm the cache either way
		// so Contains works before the first append.
		a.entries = nil
		return nil, err
	}

	var wire []archivePeriodWire
	if err := json.Unmarshal(data, &wire); err != nil {
		a.entries = nil
		return nil, fmt.Errorf("%w: %s: %v", ErrDocCorrupt, a.path, err)
	}

	entries := make([]model.ArchivedPeriod, 0, len(wire))
	for _, w := range wire {
		p, err := w.toModel()
		if err != nil {
			a.entries = nil
			return nil, fmt.Errorf("%w: %s: %v", ErrDocCorrupt, a.path, err)
		}
		entries = append(entries, p)
	}

	a.entries = entries
	return a.snapshot(), nil
}

// Append durably adds a closed period to the archive.
func (a *FileArchive) Append(ctx context.Context, p model.ArchivedPeriod) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	next := append(a.snapshot(), p)
	wire := make([]archivePeriodWire, len(next))
	for i, entry := range next {
		wire[i] = toWire(entry)
	}

	if err := writeDocument(a.path, wire, a.cfg); err != nil {
		return err
	}

	// Cache reflects durable state only after a successful write.
	a.entries = next
	return nil
}

// Contains reports whether a period with the given boundary pair is already
// archived.
func (a *FileArchive) Contains(ctx context.Context, start, end time.Time) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, entry := range a.entries {
		if entry.Start.Equal(start) && entry.End.Equal(end) {
			return true
		}
	}
	return false
}

// snapshot returns a copy of the cached entries.
func (a *FileArchive) snapshot() []model.ArchivedPeriod {
	out := make([]model.ArchivedPeriod, len(a.entries))
	copy(out, a.entries)
	return out
}

func toWire(p model.ArchivedPeriod) archivePeriodWire {
	rows := make([]archiveRowWire, len(p.Ranking))
	for i, r := range p.Ranking {
		rows[i] = archiveRowWire{
			UserID: int64(r.UserID),
			Name:   r.DisplayName,
			Points: r.Points,
		}
	}
	return archivePeriodWire{
		PeriodStart: p.Start.Format(dateFormat),
		PeriodEnd:   p.End.Format(dateFormat),
		Ranking:     rows,
	}
}

func (w archivePeriodWire) toModel() (model.ArchivedPeriod, error) {
	start, err := time.Parse(dateFormat, w.PeriodStart)
	if err != nil {
		return model.ArchivedPeriod{}, fmt.Errorf("bad period_start %q", w.PeriodStart)
	}
	end, err := time.Parse(dateFormat, w.PeriodEnd)
	if err != nil {
		return model.ArchivedPeriod{}, fmt.Errorf("bad period_end %q", w.PeriodEnd)
	}

	rows := make([]model.Row, len(w.Ranking))
	for i, r := range w.Ranking {
		rows[i] = model.Row{
			UserID:      model.UserID(r.UserID),
			DisplayName: r.Name,
			Points:      r.Points,
		}
	}
	return model.ArchivedPeriod{Start: start, End: end, Ranking: rows}, nil
}
