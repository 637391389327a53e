package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is an ephemeral price observation, never persisted.
type Quote struct {
	Symbol     string          `json:"symbol"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	ReceivedAt time.Time       `json:"receivedAt"`
}
