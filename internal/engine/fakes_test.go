package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"papertrader/internal/repository"
	"papertrader/types"
)

// fakeLedger is an in-memory stand-in for the repository honoring the same
// contract: each settlement is atomic (a single mutex serializes them) and
// either fully commits or leaves no trace.
type fakeLedger struct {
	mu       sync.Mutex
	cash     map[uuid.UUID]decimal.Decimal
	holdings map[uuid.UUID]map[string]int64
	history  []types.Transaction
	nextID   int64

	execErr error // injected settlement failure
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		cash:     make(map[uuid.UUID]decimal.Decimal),
		holdings: make(map[uuid.UUID]map[string]int64),
	}
}

func (f *fakeLedger) seed(userID uuid.UUID, cash decimal.Decimal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cash[userID] = cash
	f.holdings[userID] = make(map[string]int64)
}

func (f *fakeLedger) ExecuteBuy(_ context.Context, userID uuid.UUID, symbol string, shares int64, price decimal.Decimal) (types.Settlement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.execErr != nil {
		return types.Settlement{}, f.execErr
	}
	cash, ok := f.cash[userID]
	if !ok {
		return types.Settlement{}, repository.ErrUserNotFound
	}
	cost := price.Mul(decimal.NewFromInt(shares))
	if cash.LessThan(cost) {
		return types.Settlement{}, fmt.Errorf("cash %s below cost %s: %w", cash, cost, repository.ErrInsufficientFunds)
	}

	f.cash[userID] = cash.Sub(cost)
	f.holdings[userID][symbol] += shares
	txID := f.append(userID, symbol, shares, types.ActionBuy, price)

	return types.Settlement{
		Symbol:        symbol,
		Action:        types.ActionBuy,
		Shares:        shares,
		Price:         price,
		Amount:        cost,
		Cash:          f.cash[userID],
		TransactionID: txID,
	}, nil
}

func (f *fakeLedger) ExecuteSell(_ context.Context, userID uuid.UUID, symbol string, shares int64, price decimal.Decimal) (types.Settlement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.execErr != nil {
		return types.Settlement{}, f.execErr
	}
	owned := f.holdings[userID][symbol]
	if owned < shares {
		return types.Settlement{}, fmt.Errorf("own %d, selling %d: %w", owned, shares, repository.ErrInsufficientShares)
	}

	proceeds := price.Mul(decimal.NewFromInt(shares))
	f.cash[userID] = f.cash[userID].Add(proceeds)
	if owned == shares {
		delete(f.holdings[userID], symbol)
	} else {
		f.holdings[userID][symbol] = owned - shares
	}
	txID := f.append(userID, symbol, -shares, types.ActionSell, price)

	return types.Settlement{
		Symbol:        symbol,
		Action:        types.ActionSell,
		Shares:        shares,
		Price:         price,
		Amount:        proceeds,
		Cash:          f.cash[userID],
		TransactionID: txID,
	}, nil
}

func (f *fakeLedger) append(userID uuid.UUID, symbol string, shares int64, action types.Action, price decimal.Decimal) int64 {
	f.nextID++
	f.history = append(f.history, types.Transaction{
		ID:        f.nextID,
		UserID:    userID,
		Symbol:    symbol,
		Shares:    shares,
		Action:    action,
		Price:     price,
		CreatedAt: time.Now(),
	})
	return f.nextID
}

func (f *fakeLedger) CreateUser(_ context.Context, username string, startingCash decimal.Decimal) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user := types.User{ID: uuid.New(), Username: username, Cash: startingCash, CreatedAt: time.Now()}
	f.cash[user.ID] = startingCash
	f.holdings[user.ID] = make(map[string]int64)
	return user, nil
}

func (f *fakeLedger) GetUser(_ context.Context, id uuid.UUID) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cash, ok := f.cash[id]
	if !ok {
		return types.User{}, repository.ErrUserNotFound
	}
	return types.User{ID: id, Cash: cash}, nil
}

func (f *fakeLedger) GetHoldings(_ context.Context, userID uuid.UUID) ([]types.Holding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []types.Holding
	for sym, shares := range f.holdings[userID] {
		if shares > 0 {
			out = append(out, types.Holding{UserID: userID, Symbol: sym, Shares: shares})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out, nil
}

func (f *fakeLedger) GetHistory(_ context.Context, userID uuid.UUID) ([]types.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []types.Transaction
	for _, txn := range f.history {
		if txn.UserID == userID {
			out = append(out, txn)
		}
	}
	return out, nil
}

// sharesOf reads current holding shares without the engine in the way.
func (f *fakeLedger) sharesOf(userID uuid.UUID, symbol string) (int64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.holdings[userID][symbol]
	return s, ok
}

func (f *fakeLedger) cashOf(userID uuid.UUID) decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cash[userID]
}

// fakeQuotes serves quotes from a fixed map.
type fakeQuotes struct {
	prices map[string]decimal.Decimal
	names  map[string]string
	err    error
}

func (f *fakeQuotes) Lookup(_ context.Context, symbol string) (*types.Quote, error) {
	if f.err != nil {
		return nil, f.err
	}
	price, ok := f.prices[symbol]
	if !ok {
		return nil, fmt.Errorf("%s: unknown ticker", symbol)
	}
	return &types.Quote{
		Symbol:     symbol,
		Name:       f.names[symbol],
		Price:      price,
		ReceivedAt: time.Now(),
	}, nil
}
