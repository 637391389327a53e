package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"papertrader/types"
)

// GetHoldings returns the user's open positions ordered by symbol. The
// shares > 0 filter re-asserts the no-zero-row invariant defensively.
func (db *Database) GetHoldings(ctx context.Context, userID uuid.UUID) ([]types.Holding, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT symbol, shares FROM holdings
		WHERE user_id = $1 AND shares > 0
		ORDER BY symbol
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query holdings: %w", err)
	}
	defer rows.Close()

	var holdings []types.Holding
	for rows.Next() {
		h := types.Holding{UserID: userID}
		if err := rows.Scan(&h.Symbol, &h.Shares); err != nil {
			return nil, fmt.Errorf("scan holding: %w", err)
		}
		holdings = append(holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read holdings: %w", err)
	}
	return holdings, nil
}
