package engine

import (
	"context"

	"github.com/google/uuid"

	"papertrader/types"
)

// History returns the user's transaction log in insertion order.
func (e *Engine) History(ctx context.Context, userID uuid.UUID) ([]types.Transaction, error) {
	return e.store.GetHistory(ctx, userID)
}
