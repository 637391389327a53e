// Package engine implements the portfolio ledger engine: validated buy/sell
// settlement, holdings and history views, and live valuation.
package engine

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"papertrader/types"
)

type ledgerStore interface {
	ExecuteBuy(ctx context.Context, userID uuid.UUID, symbol string, shares int64, price decimal.Decimal) (types.Settlement, error)
	ExecuteSell(ctx context.Context, userID uuid.UUID, symbol string, shares int64, price decimal.Decimal) (types.Settlement, error)
	CreateUser(ctx context.Context, username string, startingCash decimal.Decimal) (types.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (types.User, error)
	GetHoldings(ctx context.Context, userID uuid.UUID) ([]types.Holding, error)
	GetHistory(ctx context.Context, userID uuid.UUID) ([]types.Transaction, error)
}

type quoteProvider interface {
	Lookup(ctx context.Context, symbol string) (*types.Quote, error)
}

type Engine struct {
	store        ledgerStore
	quotes       quoteProvider
	startingCash decimal.Decimal
	logger       *slog.Logger
}

func NewEngine(store ledgerStore, quotes quoteProvider, startingCash decimal.Decimal, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:        store,
		quotes:       quotes,
		startingCash: startingCash,
		logger:       logger,
	}
}
