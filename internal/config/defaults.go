package config

import "github.com/tickfoundry/tradesilver/internal/model"

// Default values for optional configuration fields.
const (
	DefaultChunkSize = 100_000
	DefaultLogLevel  = "info"
)

// DefaultSession matches the reference vendor's convention: daily OHLC
// values describe the electronic session.
const DefaultSession = model.SessionElectronic

// ApplyDefaults fills unset optional fields. Exported so binaries that
// build a Config from flags alone get the same defaults as file loading.
func (c *Config) ApplyDefaults() {
	if c.Pipeline.Session == "" {
		c.Pipeline.Session = DefaultSession
	}
	if c.Pipeline.ChunkSize == 0 {
		c.Pipeline.ChunkSize = DefaultChunkSize
	}

	if c.Bars.Session == "" {
		c.Bars.Session = c.Pipeline.Session
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}
