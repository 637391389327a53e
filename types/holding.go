package types

import "github.com/google/uuid"

// Holding is a (user, symbol) position. Rows only exist while shares > 0;
// selling a position down to zero deletes the row.
type Holding struct {
	UserID uuid.UUID `json:"userId"`
	Symbol string    `json:"symbol"`
	Shares int64     `json:"shares"`
}
