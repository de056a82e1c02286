// Package model contains domain models passed between layers.
package model

import "time"

// UserID identifies a contributor. IDs are opaque and stable; the chat
// platform hands out int64 identifiers, so that is what we store.
type UserID int64

// Contribution represents a scored unit of user activity (a submitted photo).
type Contribution struct {
	ID          string    // unique id assigned at ingestion, for tracing
	UserID      UserID    // contributor identity
	DisplayName string    // most-recently-observed label for the contributor
	Width       int       // photo width in pixels
	Height      int       // photo height in pixels
	TS          time.Time // time the contribution was received
}

// Row is one line of a standings view: a user and their points, already
// ordered by the query that produced it.
type Row struct {
	UserID      UserID `json:"user_id"`
	DisplayName string `json:"name"`
	Points      int    `json:"points"`
}

// ArchivedPeriod is the immutable snapshot of a closed period. Uniquely
// keyed by (Start, End); the archive never holds two entries for the same
// boundary pair.
type ArchivedPeriod struct {
	Start   time.Time
	End     time.Time
	Ranking []Row
}
