package config

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if err := c.Database.validate("database"); err != nil {
		return err
	}

	if c.Quotes.BaseURL == "" {
		return errors.New("quotes.base_url is required")
	}
	if c.Quotes.MaxRetries < 0 {
		return errors.New("quotes.max_retries must be >= 0")
	}

	cash, err := decimal.NewFromString(c.Ledger.StartingCash)
	if err != nil {
		return fmt.Errorf("ledger.starting_cash must be a decimal amount, got %q", c.Ledger.StartingCash)
	}
	if cash.IsNegative() {
		return errors.New("ledger.starting_cash must be >= 0")
	}
	if c.Ledger.MaxTxRetries < 1 {
		return errors.New("ledger.max_tx_retries must be >= 1")
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Port < 1 || db.Port > 65535 {
		return fmt.Errorf("%s.port must be between 1 and 65535, got %d", prefix, db.Port)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 || db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns must be between 0 and max_conns", prefix)
	}
	return nil
}
