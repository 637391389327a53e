package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"papertrader/types"
)

// CreateUser inserts a user row seeded with the starting cash balance.
func (db *Database) CreateUser(ctx context.Context, username string, startingCash decimal.Decimal) (types.User, error) {
	user := types.User{
		ID:       uuid.New(),
		Username: username,
		Cash:     startingCash,
	}
	err := db.pool.QueryRow(ctx, `
		INSERT INTO users (id, username, cash)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, user.ID, user.Username, user.Cash).Scan(&user.CreatedAt)
	if err != nil {
		return types.User{}, fmt.Errorf("create user %s: %w", username, err)
	}
	return user, nil
}

// GetUser retrieves a user by id.
func (db *Database) GetUser(ctx context.Context, id uuid.UUID) (types.User, error) {
	user := types.User{ID: id}
	err := db.pool.QueryRow(ctx, `
		SELECT username, cash, created_at FROM users WHERE id = $1
	`, id).Scan(&user.Username, &user.Cash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.User{}, fmt.Errorf("user %s: %w", id, ErrUserNotFound)
		}
		return types.User{}, err
	}
	return user, nil
}
