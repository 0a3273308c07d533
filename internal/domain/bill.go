package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillStatus is derived per budgeting period, never stored.
type BillStatus string

const (
	BillStatusPaid     BillStatus = "paid"
	BillStatusDueSoon  BillStatus = "due_soon"
	BillStatusUpcoming BillStatus = "upcoming"
	BillStatusOverdue  BillStatus = "overdue"
)

// Bill is a recurring bill template: a transaction-shaped record that does
// not affect the balance until explicitly paid. Amount is negative, matching
// the expense transaction it produces.
type Bill struct {
	ID        int32           `json:"id"`
	UserID    uuid.UUID       `json:"userId"`
	Name      string          `json:"name"`
	Category  Category        `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	DueDay    int32           `json:"dueDay"`
	CreatedAt time.Time       `json:"createdAt"`
}

// BillWithStatus is a bill annotated with its derived state for the current
// period.
type BillWithStatus struct {
	Bill    *Bill      `json:"bill"`
	Status  BillStatus `json:"status"`
	DueDate time.Time  `json:"dueDate"`
}

// BillsSummary aggregates bill figures for the current period.
type BillsSummary struct {
	PaidTotal     decimal.Decimal `json:"paidTotal"`
	PaidCount     int32           `json:"paidCount"`
	UpcomingTotal decimal.Decimal `json:"upcomingTotal"`
	UpcomingCount int32           `json:"upcomingCount"`
	DueSoonTotal  decimal.Decimal `json:"dueSoonTotal"`
	DueSoonCount  int32           `json:"dueSoonCount"`
}

type BillFilters struct {
	Search string
	Sort   SortOption
}

type BillRepository interface {
	Create(ctx context.Context, bill *Bill) (*Bill, error)
	GetByID(ctx context.Context, userID uuid.UUID, id int32) (*Bill, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filters *BillFilters) ([]*Bill, error)
	// PaidInPeriod reports whether a concrete transaction created from the
	// template exists with the given period key.
	PaidInPeriod(ctx context.Context, userID uuid.UUID, templateID int32, periodKey string) (bool, error)
}
