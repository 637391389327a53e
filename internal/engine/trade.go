package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"papertrader/types"
)

// Buy purchases req.Shares of req.Symbol at the current quoted price. The
// quote is resolved first; settlement itself (funds check, cash debit,
// holding increment, history append) is a single atomic store operation, so
// a failure at any point leaves no partial state.
func (e *Engine) Buy(ctx context.Context, userID uuid.UUID, req TradeRequest) (types.Settlement, error) {
	q, err := e.resolve(ctx, req.Symbol)
	if err != nil {
		return types.Settlement{}, err
	}

	s, err := e.store.ExecuteBuy(ctx, userID, q.Symbol, req.Shares, q.Price)
	if err != nil {
		return types.Settlement{}, err
	}

	e.logger.Info("buy settled",
		"user", userID,
		"symbol", s.Symbol,
		"shares", s.Shares,
		"price", s.Price,
		"cost", s.Amount,
	)
	return s, nil
}

// Sell disposes req.Shares of req.Symbol at the current quoted price.
// The holding check and every mutation run inside one atomic store
// operation; selling a full position removes the holding row.
func (e *Engine) Sell(ctx context.Context, userID uuid.UUID, req TradeRequest) (types.Settlement, error) {
	q, err := e.resolve(ctx, req.Symbol)
	if err != nil {
		return types.Settlement{}, err
	}

	s, err := e.store.ExecuteSell(ctx, userID, q.Symbol, req.Shares, q.Price)
	if err != nil {
		return types.Settlement{}, err
	}

	e.logger.Info("sell settled",
		"user", userID,
		"symbol", s.Symbol,
		"shares", s.Shares,
		"price", s.Price,
		"proceeds", s.Amount,
	)
	return s, nil
}

// Quote resolves a symbol for display without touching the ledger.
func (e *Engine) Quote(ctx context.Context, symbol string) (*types.Quote, error) {
	req, err := NewTradeRequest(symbol, 1)
	if err != nil {
		return nil, err
	}
	return e.resolve(ctx, req.Symbol)
}

// Register creates a user seeded with the configured starting cash.
func (e *Engine) Register(ctx context.Context, username string) (types.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return types.User{}, InvalidUsernameErr
	}
	return e.store.CreateUser(ctx, username, e.startingCash)
}

// resolve looks up a quote, folding every provider failure into
// SymbolNotFoundErr: an unreachable provider and an unknown ticker are
// indistinguishable to the caller.
func (e *Engine) resolve(ctx context.Context, symbol string) (*types.Quote, error) {
	q, err := e.quotes.Lookup(ctx, symbol)
	if err != nil {
		e.logger.Warn("quote lookup failed", "symbol", symbol, "error", err)
		return nil, fmt.Errorf("%s: %w", symbol, SymbolNotFoundErr)
	}
	return q, nil
}
