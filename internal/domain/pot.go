package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pot is a named savings sub-balance. Total is independent storage, never
// derived; every change to it is paired with an opposite-signed change to the
// owning user's balance.
type Pot struct {
	ID        int32           `json:"id"`
	UserID    uuid.UUID       `json:"userId"`
	Name      string          `json:"name"`
	Target    decimal.Decimal `json:"target"`
	Total     decimal.Decimal `json:"total"`
	Theme     Theme           `json:"theme"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// UpdatePotData carries a metadata-only pot update. Nil fields are left
// unchanged. Total is deliberately absent.
type UpdatePotData struct {
	Name   *string
	Target *decimal.Decimal
	Theme  *Theme
}

type PotRepository interface {
	Create(ctx context.Context, pot *Pot) (*Pot, error)
	GetByID(ctx context.Context, userID uuid.UUID, id int32) (*Pot, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Pot, error)
	UpdateMeta(ctx context.Context, userID uuid.UUID, id int32, data *UpdatePotData) (*Pot, error)
	Delete(ctx context.Context, userID uuid.UUID, id int32) error
	// AddToTotal atomically increments the pot total by amount (which may be
	// negative when reversing a half-applied deposit) and returns the new
	// total.
	AddToTotal(ctx context.Context, id int32, amount decimal.Decimal) (decimal.Decimal, error)
	// TakeFromTotal atomically decrements the pot total by amount only if the
	// current total covers it, returning ErrInsufficientPotFunds otherwise.
	// This is a single conditional decrement, never read-then-write, so
	// concurrent withdrawals cannot race the total below zero.
	TakeFromTotal(ctx context.Context, id int32, amount decimal.Decimal) (decimal.Decimal, error)
	// SumTotals returns the number of pots and the sum of their totals.
	SumTotals(ctx context.Context, userID uuid.UUID) (int32, decimal.Decimal, error)
}
