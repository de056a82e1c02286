package store

import "os"

// Default file configuration constants.
const (
	defaultFileMode = os.FileMode(0o644)
)

// fileConfig holds shared settings for the JSON file stores.
type fileConfig struct {
	mode   os.FileMode
	pretty bool
}

func newFileConfig(opts ...Option) fileConfig {
	c := fileConfig{
		mode:   defaultFileMode,
		pretty: true,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Option applies a configuration option to a JSON file store.
type Option func(*fileConfig)

// WithFileMode sets the permission bits used when writing documents.
func WithFileMode(mode os.FileMode) Option {
	return func(c *fileConfig) {
		if mode != 0 {
			c.mode = mode
		}
	}
}

// WithCompactOutput disables indented JSON output.
func WithCompactOutput() Option {
	return func(c *fileConfig) {
		c.pretty = false
	}
}
