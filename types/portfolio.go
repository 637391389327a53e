package types

import (
	"github.com/shopspring/decimal"
)

// Settlement confirms a fully committed buy or sell. Amount is the total cost
// (buy) or proceeds (sell); Cash is the balance after settlement.
type Settlement struct {
	Symbol        string          `json:"symbol"`
	Action        Action          `json:"action"`
	Shares        int64           `json:"shares"`
	Price         decimal.Decimal `json:"price"`
	Amount        decimal.Decimal `json:"amount"`
	Cash          decimal.Decimal `json:"cash"`
	TransactionID int64           `json:"transactionId"`
}

// HoldingValue is one valuation row: a holding priced at its live quote.
// QuoteErr carries a per-row lookup failure so one stale symbol does not
// abort the whole view; Price and Value are zero when it is set.
type HoldingValue struct {
	Symbol   string          `json:"symbol"`
	Name     string          `json:"name"`
	Shares   int64           `json:"shares"`
	Price    decimal.Decimal `json:"price"`
	Value    decimal.Decimal `json:"value"`
	QuoteErr string          `json:"quoteError,omitempty"`
}

type PortfolioView struct {
	Cash     decimal.Decimal `json:"cash"`
	Holdings []HoldingValue  `json:"holdings"`
	Total    decimal.Decimal `json:"total"`
}
