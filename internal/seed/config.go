// Package seed submits synthetic contributions to a running service and
// verifies the standings it reports. Used for smoke testing deployments.
package seed

import "time"

// Config holds configuration for the seed run
type Config struct {
	BaseURL          string        // Base URL of the service
	NumContributions int           // Number of contributions to submit
	NumUsers         int           // Number of distinct contributors
	Workers          int           // Number of concurrent workers
	Timeout          time.Duration // HTTP request timeout
	Verbose          bool          // Enable verbose logging
}

// contribution mirrors the POST /contributions request body.
type contribution struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ackResponse mirrors the POST /contributions response body.
type ackResponse struct {
	ContributionID string `json:"contribution_id"`
	Awarded        int    `json:"awarded"`
	Total          int    `json:"total"`
}

// row mirrors one standings entry.
type row struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// Stats holds seed run statistics
type Stats struct {
	Submitted     int
	Successful    int
	Failed        int
	PointsAwarded int64
	StartTime     time.Time
	Duration      time.Duration
}
