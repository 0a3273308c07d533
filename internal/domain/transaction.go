package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is a single ledger entry. A positive amount is income, a
// negative amount is an expense. Rows with IsTemplate set are recurring bill
// templates and never count toward balances or budget totals.
type Transaction struct {
	ID              int32           `json:"id"`
	UserID          uuid.UUID       `json:"userId"`
	Name            string          `json:"name"`
	Category        Category        `json:"category"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionDate time.Time       `json:"transactionDate"`
	Recurring       bool            `json:"recurring"`
	IsTemplate      bool            `json:"isTemplate"`
	TemplateID      *int32          `json:"templateId,omitempty"`
	PeriodKey       *string         `json:"-"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// SortOption enumerates the supported transaction list orderings.
type SortOption string

const (
	SortLatest  SortOption = "latest"
	SortOldest  SortOption = "oldest"
	SortAToZ    SortOption = "a_to_z"
	SortZToA    SortOption = "z_to_a"
	SortHighest SortOption = "highest"
	SortLowest  SortOption = "lowest"
)

// IsValid reports whether s is a supported sort option.
func (s SortOption) IsValid() bool {
	switch s {
	case SortLatest, SortOldest, SortAToZ, SortZToA, SortHighest, SortLowest:
		return true
	}
	return false
}

type TransactionFilters struct {
	Search   string
	Sort     SortOption
	Category *Category
	Page     int32
	PageSize int32
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type PaginatedTransactions struct {
	Data       []*Transaction `json:"data"`
	Page       int32          `json:"page"`
	PageSize   int32          `json:"pageSize"`
	TotalItems int64          `json:"totalItems"`
	TotalPages int32          `json:"totalPages"`
}

type TransactionRepository interface {
	Create(ctx context.Context, transaction *Transaction) (*Transaction, error)
	GetByID(ctx context.Context, userID uuid.UUID, id int32) (*Transaction, error)
	List(ctx context.Context, userID uuid.UUID, filters *TransactionFilters) (*PaginatedTransactions, error)
	Delete(ctx context.Context, userID uuid.UUID, id int32) error
	// SumExpensesByCategory returns the sum of absolute amounts of all
	// non-template expense transactions in the category within [from, to).
	SumExpensesByCategory(ctx context.Context, userID uuid.UUID, category Category, from, to time.Time) (decimal.Decimal, error)
	// LatestByCategory returns the n most recent non-template transactions in
	// the category, newest first, ties broken by most recently created.
	LatestByCategory(ctx context.Context, userID uuid.UUID, category Category, n int32) ([]*Transaction, error)
	// SumInPeriod returns total income and total absolute expenses over
	// non-template transactions within [from, to).
	SumInPeriod(ctx context.Context, userID uuid.UUID, from, to time.Time) (income, expenses decimal.Decimal, err error)
}
