// Package app provides the period accounting engine: it scores incoming
// contributions, accumulates points in the open period's ledger, closes
// elapsed periods into the archive exactly once, and serves consistent
// standings views.
package app

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/okian/aporte/internal/adapters/store"
	"github.com/okian/aporte/internal/domain/model"
	"github.com/okian/aporte/internal/domain/period"
	"github.com/okian/aporte/internal/domain/scoring"
	"github.com/okian/aporte/pkg/logger"
	"github.com/okian/aporte/pkg/metrics"
)

// Default engine configuration constants.
const (
	defaultHistoryTopN = 10
)

// Engine owns the transition logic between periods. All mutations of the
// ledger and archive are serialized behind a single mutex held for the
// duration of one logical operation: boundary check + mutate + persist.
// Boundary evaluation is pull-based; a period with no activity past its end
// stays open until the next contribution or query arrives.
type Engine struct {
	mu sync.Mutex

	ledgerStore  store.LedgerStore
	archiveStore store.ArchiveStore

	clock       period.Clock
	policy      scoring.Policy
	now         func() time.Time
	historyTopN int

	// Open period state. doc is authoritative between successful writes.
	doc       *store.LedgerDocument
	span      period.Span
	firstSeen map[model.UserID]int
	nextSeq   int

	// Chronological copy of the archive.
	archived []model.ArchivedPeriod

	started bool
	logger  logger.Logger
}

// New constructs an Engine over the given stores with default configuration.
func New(ledgerStore store.LedgerStore, archiveStore store.ArchiveStore, opts ...Option) *Engine {
	e := &Engine{
		ledgerStore:  ledgerStore,
		archiveStore: archiveStore,
		clock:        period.NewHalfMonthClock(),
		policy:       scoring.NewResolutionPolicy(),
		now:          time.Now,
		historyTopN:  defaultHistoryTopN,
		firstSeen:    make(map[model.UserID]int),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Start loads persisted state, degrading recoverable read failures to an
// empty ledger or archive, then runs one boundary check so a period that
// elapsed while the process was down is closed before any traffic arrives.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return nil
	}
	if e.logger == nil {
		e.logger = logger.Get().Named("engine")
	}

	doc, err := e.ledgerStore.Load(ctx)
	switch {
	case err == nil:
		e.doc = doc
	case store.IsRecoverableRead(err):
		e.logger.Warn(ctx, "ledger unreadable; starting from empty state", logger.Error(err))
		metrics.RecordStorageReadError()
		e.doc = store.NewLedgerDocument(period.DateOf(e.now()))
	default:
		return fmt.Errorf("load ledger: %w", err)
	}

	archived, err := e.archiveStore.Load(ctx)
	switch {
	case err == nil:
		e.archived = archived
	case store.IsRecoverableRead(err):
		e.logger.Warn(ctx, "archive unreadable; starting from empty history", logger.Error(err))
		metrics.RecordStorageReadError()
		e.archived = nil
	default:
		return fmt.Errorf("load archive: %w", err)
	}

	// The open span is the period containing the last reset; with no prior
	// state it is the period containing now.
	anchor := e.doc.LastReset
	if anchor.IsZero() {
		anchor = period.DateOf(e.now())
		e.doc.LastReset = anchor
	}
	e.span = e.clock.Current(anchor)
	e.rebuildFirstSeen()

	e.started = true

	if err := e.checkBoundary(ctx); err != nil {
		return err
	}

	e.logger.Info(ctx, "engine started",
		logger.Time("period_start", e.span.Start),
		logger.Time("period_end", e.span.End),
		logger.Int("participants", len(e.doc.Points)),
		logger.Int("archived_periods", len(e.archived)),
	)
	metrics.UpdateParticipants(len(e.doc.Points))
	metrics.UpdateArchivedPeriods(len(e.archived))

	return nil
}

// RecordContribution scores a contribution and adds the award to the
// contributor's entry in the open period. It never rejects a contribution:
// malformed dimensions earn the base award. The returned total is the
// contributor's accumulated points in the current period.
//
// On a persistence failure the returned values are still valid: in-memory
// state remains authoritative until the next successful write.
func (e *Engine) RecordContribution(ctx context.Context, c model.Contribution) (awarded, total int, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkBoundary(ctx); err != nil {
		return 0, 0, err
	}

	e.doc.Users[c.UserID] = c.DisplayName

	res := e.policy.Score(scoring.Input{Width: c.Width, Height: c.Height})

	// Explicit get-or-create with zero: absence and zero points are
	// distinct code paths.
	if _, ok := e.doc.Points[c.UserID]; !ok {
		e.doc.Points[c.UserID] = 0
		e.markSeen(c.UserID)
	}
	e.doc.Points[c.UserID] += res.Points

	metrics.RecordContribution(res.Points, res.Bonus)
	metrics.UpdateParticipants(len(e.doc.Points))

	e.logger.Debug(ctx, "contribution recorded",
		logger.String("contribution_id", c.ID),
		logger.Int64("user_id", int64(c.UserID)),
		logger.Int("width", c.Width),
		logger.Int("height", c.Height),
		logger.Int("awarded", res.Points),
	)

	awarded = res.Points
	total = e.doc.Points[c.UserID]

	if perr := e.ledgerStore.Persist(ctx, e.doc); perr != nil {
		metrics.RecordStorageWriteError()
		return awarded, total, fmt.Errorf("persist ledger: %w", perr)
	}
	return awarded, total, nil
}

// CurrentStandings returns the open period's standings sorted by points
// descending, ties broken by first-contribution order. The boundary check
// runs first, so a query issued past a boundary observes the new empty
// period.
func (e *Engine) CurrentStandings(ctx context.Context) ([]model.Row, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkBoundary(ctx); err != nil {
		return nil, err
	}

	metrics.RecordStandingsQuery()
	return e.standings(), nil
}

// History returns up to limit archived periods, most recently closed first,
// with each ranking truncated to the configured top-N for display. The
// stored archive itself is never truncated.
func (e *Engine) History(ctx context.Context, limit int) ([]model.ArchivedPeriod, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkBoundary(ctx); err != nil {
		return nil, err
	}

	metrics.RecordHistoryQuery()

	if limit <= 0 || limit > len(e.archived) {
		limit = len(e.archived)
	}

	out := make([]model.ArchivedPeriod, 0, limit)
	for i := len(e.archived) - 1; i >= 0 && len(out) < limit; i-- {
		p := e.archived[i]
		ranking := p.Ranking
		if len(ranking) > e.historyTopN {
			ranking = ranking[:e.historyTopN]
		}
		rows := make([]model.Row, len(ranking))
		copy(rows, ranking)
		out = append(out, model.ArchivedPeriod{Start: p.Start, End: p.End, Ranking: rows})
	}
	return out, nil
}

// OpenSpan returns the boundaries of the period currently accumulating.
func (e *Engine) OpenSpan() period.Span {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.span
}

// Stats returns a snapshot of engine state for monitoring.
func (e *Engine) Stats() map[string]interface{} {
	e.mu.Lock()
	defer e.mu.Unlock()

	return map[string]interface{}{
		"started":          e.started,
		"period_start":     e.span.Start.Format("2006-01-02"),
		"period_end":       e.span.End.Format("2006-01-02"),
		"participants":     len(e.doc.Points),
		"archived_periods": len(e.archived),
	}
}

// checkBoundary detects and performs a pending period close. Callers must
// hold e.mu. The close is effectively atomic from the point of view of every
// other operation, and safe to retry wholesale: if the archive write
// succeeded but the ledger write did not, the next trigger (or the next
// process start) re-runs the close and the idempotency guard skips the
// duplicate archive entry.
func (e *Engine) checkBoundary(ctx context.Context) error {
	now := e.now()
	if !e.clock.Elapsed(e.span, now) {
		return nil
	}

	closing := e.span
	ranking := e.standings()

	if e.archiveStore.Contains(ctx, closing.Start, closing.End) {
		metrics.RecordDuplicateCloseSkip()
		e.logger.Warn(ctx, "period already archived; skipping duplicate close",
			logger.Time("period_start", closing.Start),
			logger.Time("period_end", closing.End),
		)
	} else {
		archivedPeriod := model.ArchivedPeriod{Start: closing.Start, End: closing.End, Ranking: ranking}
		if err := e.archiveStore.Append(ctx, archivedPeriod); err != nil {
			// Nothing was mutated; the stale period stays open and the
			// next trigger retries the whole close.
			metrics.RecordStorageWriteError()
			return fmt.Errorf("archive period: %w", err)
		}
		e.archived = append(e.archived, archivedPeriod)
		metrics.RecordPeriodClose()
		metrics.UpdateArchivedPeriods(len(e.archived))
		e.logger.Info(ctx, "period closed",
			logger.Time("period_start", closing.Start),
			logger.Time("period_end", closing.End),
			logger.Int("participants", len(ranking)),
		)
	}

	// Reset the ledger for the period containing now. The in-memory reset
	// commits regardless of the write below: memory is authoritative and
	// the next successful persist repairs durability.
	e.doc = store.NewLedgerDocument(period.DateOf(now))
	e.span = e.clock.Current(now)
	e.firstSeen = make(map[model.UserID]int)
	e.nextSeq = 0
	metrics.UpdateParticipants(0)

	if err := e.ledgerStore.Persist(ctx, e.doc); err != nil {
		metrics.RecordStorageWriteError()
		e.logger.Error(ctx, "persist of reset ledger failed; in-memory state remains authoritative", logger.Error(err))
	}
	return nil
}

// standings builds the sorted rows for the open ledger. Callers must hold
// e.mu.
func (e *Engine) standings() []model.Row {
	rows := make([]model.Row, 0, len(e.doc.Points))
	for id, points := range e.doc.Points {
		name, ok := e.doc.Users[id]
		if !ok {
			name = fmt.Sprintf("user %d", id)
		}
		rows = append(rows, model.Row{UserID: id, DisplayName: name, Points: points})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		return e.firstSeen[rows[i].UserID] < e.firstSeen[rows[j].UserID]
	})
	return rows
}

// markSeen assigns the next first-contribution sequence number to a user.
func (e *Engine) markSeen(id model.UserID) {
	if _, ok := e.firstSeen[id]; !ok {
		e.firstSeen[id] = e.nextSeq
		e.nextSeq++
	}
}

// rebuildFirstSeen reconstructs tie-break sequence numbers after a load.
// The persisted document carries no insertion order, so ascending user id
// is used as a deterministic stand-in.
func (e *Engine) rebuildFirstSeen() {
	ids := make([]model.UserID, 0, len(e.doc.Points))
	for id := range e.doc.Points {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	e.firstSeen = make(map[model.UserID]int, len(ids))
	e.nextSeq = 0
	for _, id := range ids {
		e.markSeen(id)
	}
}
