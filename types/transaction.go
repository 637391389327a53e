package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
)

// Transaction is one row of the append-only history ledger. Shares is the
// signed delta: positive for buys, negative for sells. Summing Shares over a
// (user, symbol) pair reproduces the current holding.
type Transaction struct {
	ID        int64           `json:"id"`
	UserID    uuid.UUID       `json:"userId"`
	Symbol    string          `json:"symbol"`
	Shares    int64           `json:"shares"`
	Action    Action          `json:"action"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"createdAt"`
}
