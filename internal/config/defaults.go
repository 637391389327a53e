package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultServerAddr      = ":8080"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
	DefaultDBPort          = 5432
	DefaultDBSSLMode       = "prefer"
	DefaultMaxConns        = 10
	DefaultMinConns        = 2
	DefaultQuoteTimeout    = 10 * time.Second
	DefaultQuoteRetries    = 3
	DefaultFeedMaxAge      = 5 * time.Second
	DefaultStartingCash    = "10000"
	DefaultMaxTxRetries    = 3
	DefaultTxTimeout       = 5 * time.Second
)

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = DefaultReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}

	if c.Quotes.Timeout == 0 {
		c.Quotes.Timeout = DefaultQuoteTimeout
	}
	if c.Quotes.MaxRetries == 0 {
		c.Quotes.MaxRetries = DefaultQuoteRetries
	}
	if c.Quotes.FeedMaxAge == 0 {
		c.Quotes.FeedMaxAge = DefaultFeedMaxAge
	}

	if c.Ledger.StartingCash == "" {
		c.Ledger.StartingCash = DefaultStartingCash
	}
	if c.Ledger.MaxTxRetries == 0 {
		c.Ledger.MaxTxRetries = DefaultMaxTxRetries
	}
	if c.Ledger.TxTimeout == 0 {
		c.Ledger.TxTimeout = DefaultTxTimeout
	}
}
