package engine

import (
	"errors"
	"strconv"
	"strings"
)

var InvalidSymbolErr = errors.New("symbol must be a non-empty ticker")
var InvalidQuantityErr = errors.New("shares must be a positive whole number")
var InvalidUsernameErr = errors.New("username must be non-empty")
var SymbolNotFoundErr = errors.New("symbol could not be resolved to a quote")

// TradeRequest is a validated buy/sell input. Construct one through
// ParseTradeRequest or NewTradeRequest; the engine never sees raw form values.
type TradeRequest struct {
	Symbol string
	Shares int64
}

// ParseTradeRequest validates raw form values into a TradeRequest.
func ParseTradeRequest(symbol, shares string) (TradeRequest, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(shares), 10, 64)
	if err != nil {
		return TradeRequest{}, InvalidQuantityErr
	}
	return NewTradeRequest(symbol, n)
}

// NewTradeRequest validates already-typed trade parameters.
func NewTradeRequest(symbol string, shares int64) (TradeRequest, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return TradeRequest{}, InvalidSymbolErr
	}
	if shares < 1 {
		return TradeRequest{}, InvalidQuantityErr
	}
	return TradeRequest{Symbol: symbol, Shares: shares}, nil
}
