package config

import (
	"time"

	"github.com/shopspring/decimal"
)

// StartingCashAmount parses the configured starting cash. Validate guarantees
// the string parses, so the zero value is only returned on misuse.
func (l LedgerConfig) StartingCashAmount() decimal.Decimal {
	d, err := decimal.NewFromString(l.StartingCash)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Config is the root configuration for a papertrader instance.
type Config struct {
	Server   ServerConfig `yaml:"server"`
	Database DBConfig     `yaml:"database"`
	Quotes   QuotesConfig `yaml:"quotes"`
	Ledger   LedgerConfig `yaml:"ledger"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DBConfig holds the ledger database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// QuotesConfig holds the quote provider settings. WSURL is optional; when set
// a streaming feed is kept alongside the REST client and consulted first.
type QuotesConfig struct {
	BaseURL    string        `yaml:"base_url"`
	WSURL      string        `yaml:"ws_url"`
	APIKey     string        `yaml:"api_key"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
	FeedMaxAge time.Duration `yaml:"feed_max_age"`
}

// LedgerConfig holds settlement engine settings. StartingCash is kept as a
// decimal string so amounts never pass through floats.
type LedgerConfig struct {
	StartingCash string        `yaml:"starting_cash"`
	MaxTxRetries int           `yaml:"max_tx_retries"`
	TxTimeout    time.Duration `yaml:"tx_timeout"`
}
