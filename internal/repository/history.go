package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"papertrader/types"
)

// GetHistory returns the user's full transaction log in insertion order.
func (db *Database) GetHistory(ctx context.Context, userID uuid.UUID) ([]types.Transaction, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT id, symbol, shares, action, price, created_at FROM history
		WHERE user_id = $1
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var txns []types.Transaction
	for rows.Next() {
		txn := types.Transaction{UserID: userID}
		if err := rows.Scan(&txn.ID, &txn.Symbol, &txn.Shares, &txn.Action, &txn.Price, &txn.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	return txns, nil
}
