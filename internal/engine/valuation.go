package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"papertrader/types"
)

// ListHoldings returns the user's open positions.
func (e *Engine) ListHoldings(ctx context.Context, userID uuid.UUID) ([]types.Holding, error) {
	return e.store.GetHoldings(ctx, userID)
}

// Portfolio values the user's holdings at live quotes. A symbol that cannot
// be quoted right now degrades to a per-row error instead of failing the
// whole view; its value is simply excluded from the total. All figures keep
// full precision here, rounding happens at the presentation boundary.
func (e *Engine) Portfolio(ctx context.Context, userID uuid.UUID) (types.PortfolioView, error) {
	user, err := e.store.GetUser(ctx, userID)
	if err != nil {
		return types.PortfolioView{}, fmt.Errorf("load user: %w", err)
	}

	holdings, err := e.store.GetHoldings(ctx, userID)
	if err != nil {
		return types.PortfolioView{}, fmt.Errorf("load holdings: %w", err)
	}

	view := types.PortfolioView{
		Cash:  user.Cash,
		Total: user.Cash,
	}
	for _, h := range holdings {
		hv := types.HoldingValue{
			Symbol: h.Symbol,
			Shares: h.Shares,
		}
		q, err := e.quotes.Lookup(ctx, h.Symbol)
		if err != nil {
			e.logger.Warn("valuation quote failed", "symbol", h.Symbol, "error", err)
			hv.QuoteErr = "quote unavailable"
		} else {
			hv.Name = q.Name
			hv.Price = q.Price
			hv.Value = q.Price.Mul(decimal.NewFromInt(h.Shares))
			view.Total = view.Total.Add(hv.Value)
		}
		view.Holdings = append(view.Holdings, hv)
	}
	return view, nil
}
