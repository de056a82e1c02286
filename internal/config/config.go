// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load(ctx) layers defaults, an optional YAML file, and env vars.
// - External errors must be wrapped via this package's error kinds.
package config

import "path/filepath"

// Cadence rule names accepted by the period clock selection.
const (
	CadenceHalfMonth = "half_month"
	CadenceRolling   = "rolling"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataDir is where the ledger and archive documents live.
	DataDir string `koanf:"data_dir"`

	// LedgerFile and ArchiveFile override the document file names.
	LedgerFile  string `koanf:"ledger_file"`
	ArchiveFile string `koanf:"archive_file"`

	// Cadence selects the period rule: half_month or rolling.
	Cadence string `koanf:"cadence"`

	// HistoryTopN caps ranking rows shown per archived period.
	HistoryTopN int `koanf:"history_top_n"`

	// BaseAward, BonusAward and BonusThreshold configure the scoring policy.
	BaseAward      int `koanf:"base_award"`
	BonusAward     int `koanf:"bonus_award"`
	BonusThreshold int `koanf:"bonus_threshold"`

	// TelegramToken enables the telegram transport when set.
	TelegramToken string `koanf:"telegram_token"`

	// TelegramPollTimeoutSec is the long-poll timeout for getUpdates.
	TelegramPollTimeoutSec int `koanf:"telegram_poll_timeout_sec"`

	// UpdateQueueSize bounds the in-memory telegram update queue.
	UpdateQueueSize int `koanf:"update_queue_size"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":9080",
		DataDir:                ".",
		LedgerFile:             "ranking.json",
		ArchiveFile:            "ranking_history.json",
		Cadence:                CadenceHalfMonth,
		HistoryTopN:            10,
		BaseAward:              1,
		BonusAward:             1,
		BonusThreshold:         800,
		TelegramPollTimeoutSec: 30,
		UpdateQueueSize:        1024,
	}
}

// LedgerPath returns the full path of the ledger document.
func (c *Config) LedgerPath() string {
	return filepath.Join(c.DataDir, c.LedgerFile)
}

// ArchivePath returns the full path of the archive document.
func (c *Config) ArchivePath() string {
	return filepath.Join(c.DataDir, c.ArchiveFile)
}
