package logging

import "time"

const (
	DefaultURL           = "http://localhost:4000/api/logs"
	DefaultChannel       = "default"
	DefaultBatchSize     = 10
	DefaultFlushInterval = 1 * time.Second
	DefaultTimeout       = 5 * time.Second
)

// Config holds the transport settings. Immutable after construction;
// zero values are replaced by the defaults above.
type Config struct {
	// URL is the log-collection endpoint.
	URL string
	// Channel is the routing label, sent as the X-Channel header.
	Channel string
	// BatchSize is the entry count that triggers an immediate flush.
	BatchSize int
	// FlushInterval bounds how long an entry may sit in a partial batch.
	FlushInterval time.Duration
	// Timeout bounds each delivery request.
	Timeout time.Duration
	// Headers are sent with every request and may override the defaults.
	Headers map[string]string
}

// WithDefaults returns a copy with zero values filled in.
func (c Config) WithDefaults() Config {
	if c.URL == "" {
		c.URL = DefaultURL
	}
	if c.Channel == "" {
		c.Channel = DefaultChannel
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = DefaultFlushInterval
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}
