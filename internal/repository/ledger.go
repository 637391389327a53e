package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"papertrader/types"
)

// SQLSTATEs that mean the serializable transaction lost a race and the whole
// settlement must be re-run against fresh state.
const (
	sqlstateSerializationFailure = "40001"
	sqlstateDeadlockDetected     = "40P01"
)

// ExecuteBuy atomically settles a purchase: debits cash, upserts the holding,
// and appends the history row. Preconditions are checked inside the same
// serializable transaction, so a failed buy leaves no trace. Retried a bounded
// number of times on serialization conflicts.
func (db *Database) ExecuteBuy(ctx context.Context, userID uuid.UUID, symbol string, shares int64, price decimal.Decimal) (types.Settlement, error) {
	var s types.Settlement
	err := db.withTxRetry(ctx, func(ctx context.Context) error {
		var err error
		s, err = db.buyOnce(ctx, userID, symbol, shares, price)
		return err
	})
	return s, err
}

// ExecuteSell atomically settles a sale: credits cash, decrements the holding
// (deleting the row when it reaches zero), and appends the history row.
func (db *Database) ExecuteSell(ctx context.Context, userID uuid.UUID, symbol string, shares int64, price decimal.Decimal) (types.Settlement, error) {
	var s types.Settlement
	err := db.withTxRetry(ctx, func(ctx context.Context) error {
		var err error
		s, err = db.sellOnce(ctx, userID, symbol, shares, price)
		return err
	})
	return s, err
}

func (db *Database) buyOnce(ctx context.Context, userID uuid.UUID, symbol string, shares int64, price decimal.Decimal) (types.Settlement, error) {
	ctx, cancel := context.WithTimeout(ctx, db.txTimeout)
	defer cancel()

	tx, err := db.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return types.Settlement{}, fmt.Errorf("begin buy settlement: %w", err)
	}
	defer tx.Rollback(ctx)

	var cash decimal.Decimal
	err = tx.QueryRow(ctx, `SELECT cash FROM users WHERE id = $1`, userID).Scan(&cash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Settlement{}, ErrUserNotFound
		}
		return types.Settlement{}, fmt.Errorf("read cash: %w", err)
	}

	cost := price.Mul(decimal.NewFromInt(shares))
	if cash.LessThan(cost) {
		return types.Settlement{}, fmt.Errorf("cash %s below cost %s: %w", cash, cost, ErrInsufficientFunds)
	}
	newCash := cash.Sub(cost)

	if _, err := tx.Exec(ctx, `UPDATE users SET cash = $2 WHERE id = $1`, userID, newCash); err != nil {
		return types.Settlement{}, fmt.Errorf("debit cash: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO holdings (user_id, symbol, shares)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, symbol) DO UPDATE SET shares = holdings.shares + EXCLUDED.shares
	`, userID, symbol, shares)
	if err != nil {
		return types.Settlement{}, fmt.Errorf("upsert holding: %w", err)
	}

	var txID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO history (user_id, symbol, shares, action, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, userID, symbol, shares, types.ActionBuy, price).Scan(&txID)
	if err != nil {
		return types.Settlement{}, fmt.Errorf("append history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return types.Settlement{}, fmt.Errorf("commit buy settlement: %w", err)
	}

	return types.Settlement{
		Symbol:        symbol,
		Action:        types.ActionBuy,
		Shares:        shares,
		Price:         price,
		Amount:        cost,
		Cash:          newCash,
		TransactionID: txID,
	}, nil
}

func (db *Database) sellOnce(ctx context.Context, userID uuid.UUID, symbol string, shares int64, price decimal.Decimal) (types.Settlement, error) {
	ctx, cancel := context.WithTimeout(ctx, db.txTimeout)
	defer cancel()

	tx, err := db.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return types.Settlement{}, fmt.Errorf("begin sell settlement: %w", err)
	}
	defer tx.Rollback(ctx)

	var owned int64
	err = tx.QueryRow(ctx, `SELECT shares FROM holdings WHERE user_id = $1 AND symbol = $2`, userID, symbol).Scan(&owned)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Settlement{}, fmt.Errorf("no %s position: %w", symbol, ErrInsufficientShares)
		}
		return types.Settlement{}, fmt.Errorf("read holding: %w", err)
	}
	if owned < shares {
		return types.Settlement{}, fmt.Errorf("own %d of %s, selling %d: %w", owned, symbol, shares, ErrInsufficientShares)
	}

	proceeds := price.Mul(decimal.NewFromInt(shares))

	var newCash decimal.Decimal
	err = tx.QueryRow(ctx, `UPDATE users SET cash = cash + $2 WHERE id = $1 RETURNING cash`, userID, proceeds).Scan(&newCash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Settlement{}, ErrUserNotFound
		}
		return types.Settlement{}, fmt.Errorf("credit cash: %w", err)
	}

	// A holding row never persists at zero shares.
	if owned == shares {
		_, err = tx.Exec(ctx, `DELETE FROM holdings WHERE user_id = $1 AND symbol = $2`, userID, symbol)
	} else {
		_, err = tx.Exec(ctx, `UPDATE holdings SET shares = shares - $3 WHERE user_id = $1 AND symbol = $2`, userID, symbol, shares)
	}
	if err != nil {
		return types.Settlement{}, fmt.Errorf("reduce holding: %w", err)
	}

	var txID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO history (user_id, symbol, shares, action, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, userID, symbol, -shares, types.ActionSell, price).Scan(&txID)
	if err != nil {
		return types.Settlement{}, fmt.Errorf("append history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return types.Settlement{}, fmt.Errorf("commit sell settlement: %w", err)
	}

	return types.Settlement{
		Symbol:        symbol,
		Action:        types.ActionSell,
		Shares:        shares,
		Price:         price,
		Amount:        proceeds,
		Cash:          newCash,
		TransactionID: txID,
	}, nil
}

// withTxRetry re-runs the whole settlement closure on serialization
// conflicts, so every attempt re-reads preconditions against fresh state.
func (db *Database) withTxRetry(ctx context.Context, op func(context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt < db.maxTxRetries; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if !isSerializationFailure(err) {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("%w (%d attempts): %v", ErrTxConflict, db.maxTxRetries, lastErr)
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == sqlstateSerializationFailure || pgErr.Code == sqlstateDeadlockDetected
}
