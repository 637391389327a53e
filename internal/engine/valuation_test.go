package engine

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestPortfolio(t *testing.T) {
	userID := uuid.New()
	store := newFakeLedger()
	store.seed(userID, decimal.RequireFromString("2500.50"))
	store.holdings[userID]["AAPL"] = 10
	store.holdings[userID]["MSFT"] = 2

	quotes := &fakeQuotes{
		prices: map[string]decimal.Decimal{
			"AAPL": decimal.RequireFromString("150.10"),
			"MSFT": decimal.RequireFromString("300.05"),
		},
		names: map[string]string{"AAPL": "Apple Inc", "MSFT": "Microsoft"},
	}
	eng := NewEngine(store, quotes, decimal.NewFromInt(10000), nil)

	view, err := eng.Portfolio(context.Background(), userID)
	if err != nil {
		t.Fatalf("Portfolio() error = %v", err)
	}

	if !view.Cash.Equal(decimal.RequireFromString("2500.50")) {
		t.Errorf("cash = %s, want 2500.50", view.Cash)
	}
	if len(view.Holdings) != 2 {
		t.Fatalf("holdings = %d, want 2", len(view.Holdings))
	}

	// Sorted by symbol: AAPL first.
	aapl := view.Holdings[0]
	if aapl.Symbol != "AAPL" || !aapl.Value.Equal(decimal.RequireFromString("1501.00")) {
		t.Errorf("AAPL row = %+v, want value 1501.00", aapl)
	}
	if aapl.Name != "Apple Inc" {
		t.Errorf("AAPL name = %q", aapl.Name)
	}

	// 2500.50 + 10*150.10 + 2*300.05
	want := decimal.RequireFromString("4601.60")
	if !view.Total.Equal(want) {
		t.Errorf("total = %s, want %s", view.Total, want)
	}
}

func TestPortfolioDegradesPerRow(t *testing.T) {
	userID := uuid.New()
	store := newFakeLedger()
	store.seed(userID, decimal.NewFromInt(1000))
	store.holdings[userID]["AAPL"] = 10
	store.holdings[userID]["GONE"] = 5

	quotes := &fakeQuotes{
		prices: map[string]decimal.Decimal{"AAPL": decimal.NewFromInt(100)},
		names:  map[string]string{"AAPL": "Apple Inc"},
	}
	eng := NewEngine(store, quotes, decimal.NewFromInt(10000), nil)

	view, err := eng.Portfolio(context.Background(), userID)
	if err != nil {
		t.Fatalf("Portfolio() error = %v", err)
	}
	if len(view.Holdings) != 2 {
		t.Fatalf("holdings = %d, want 2 (unquotable row kept)", len(view.Holdings))
	}

	gone := -1
	for i, h := range view.Holdings {
		if h.Symbol == "GONE" {
			gone = i
		}
	}
	if gone < 0 {
		t.Fatal("GONE row missing from view")
	}
	row := view.Holdings[gone]
	if row.QuoteErr == "" {
		t.Error("GONE row has no quote error")
	}
	if !row.Value.IsZero() {
		t.Errorf("GONE value = %s, want 0", row.Value)
	}

	// Total excludes the unquotable row: 1000 + 10*100.
	if !view.Total.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("total = %s, want 2000", view.Total)
	}
}

func TestListHoldingsFiltersEmptyRows(t *testing.T) {
	userID := uuid.New()
	store := newFakeLedger()
	store.seed(userID, decimal.NewFromInt(1000))
	store.holdings[userID]["AAPL"] = 3
	store.holdings[userID]["ZERO"] = 0

	eng := NewEngine(store, &fakeQuotes{}, decimal.NewFromInt(10000), nil)
	holdings, err := eng.ListHoldings(context.Background(), userID)
	if err != nil {
		t.Fatalf("ListHoldings() error = %v", err)
	}
	if len(holdings) != 1 || holdings[0].Symbol != "AAPL" {
		t.Errorf("holdings = %+v, want only AAPL", holdings)
	}
}
