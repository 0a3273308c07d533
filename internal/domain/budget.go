package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Budget is a per-category spending cap. Spent and remaining figures are
// derived from the transaction ledger at read time and never persisted.
type Budget struct {
	ID        int32           `json:"id"`
	UserID    uuid.UUID       `json:"userId"`
	Category  Category        `json:"category"`
	Maximum   decimal.Decimal `json:"maximum"`
	Theme     Theme           `json:"theme"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// BudgetSummary is a budget annotated with its computed figures.
type BudgetSummary struct {
	Budget    *Budget         `json:"budget"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
	Latest    []*Transaction  `json:"latest"`
}

// BudgetsOverview combines every budget summary with the aggregate residual.
type BudgetsOverview struct {
	Budgets    []*BudgetSummary `json:"budgets"`
	TotalLimit decimal.Decimal  `json:"totalLimit"`
	TotalSpent decimal.Decimal  `json:"totalSpent"`
	Free       decimal.Decimal  `json:"free"`
}

type BudgetRepository interface {
	Create(ctx context.Context, budget *Budget) (*Budget, error)
	GetByID(ctx context.Context, userID uuid.UUID, id int32) (*Budget, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Budget, error)
	Update(ctx context.Context, budget *Budget) (*Budget, error)
	Delete(ctx context.Context, userID uuid.UUID, id int32) error
	ExistsForCategory(ctx context.Context, userID uuid.UUID, category Category) (bool, error)
}
