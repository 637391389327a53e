package repository

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"papertrader/internal/config"
)

// Global error declarations.
var (
	ErrUserNotFound       = errors.New("user not found in ledger")
	ErrInsufficientFunds  = errors.New("insufficient cash for purchase")
	ErrInsufficientShares = errors.New("insufficient shares to sell")
	ErrTxConflict         = errors.New("settlement conflicted with concurrent operations")
)

// Database holds the ledger store connection pool and settlement settings.
type Database struct {
	pool         *pgxpool.Pool
	maxTxRetries int
	txTimeout    time.Duration
}

// NewDatabase creates a new Database instance and verifies connectivity.
func NewDatabase(ctx context.Context, dbCfg config.DBConfig, ledgerCfg config.LedgerConfig) (*Database, error) {
	poolCfg, err := pgxpool.ParseConfig(BuildConnString(dbCfg))
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// Register shopspring decimal so NUMERIC columns scan losslessly
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}
	poolCfg.MinConns = int32(dbCfg.MinConns)
	poolCfg.MaxConns = int32(dbCfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	// Ensure the connection is established.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &Database{
		pool:         pool,
		maxTxRetries: ledgerCfg.MaxTxRetries,
		txTimeout:    ledgerCfg.TxTimeout,
	}, nil
}

// Close releases the connection pool.
func (db *Database) Close() {
	db.pool.Close()
}

// BuildConnString builds a PostgreSQL connection string from config.
func BuildConnString(cfg config.DBConfig) string {
	// URL-encode password to handle special characters
	escapedPassword := url.QueryEscape(cfg.Password)

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "prefer"
	}

	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		escapedPassword,
		cfg.Host,
		cfg.Port,
		cfg.Name,
		sslMode,
	)
}
