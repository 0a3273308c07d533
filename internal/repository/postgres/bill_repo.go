package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/centavo/centavo-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BillRepository implements domain.BillRepository over the transactions
// table: a bill template is a transaction row with is_template = true and a
// due_day.
type BillRepository struct {
	pool *pgxpool.Pool
}

// NewBillRepository creates a new BillRepository
func NewBillRepository(pool *pgxpool.Pool) *BillRepository {
	return &BillRepository{pool: pool}
}

var billSortClauses = map[domain.SortOption]string{
	domain.SortLatest:  "due_day ASC, id ASC",
	domain.SortOldest:  "due_day DESC, id ASC",
	domain.SortAToZ:    "LOWER(name) ASC, id ASC",
	domain.SortZToA:    "LOWER(name) DESC, id ASC",
	domain.SortHighest: "ABS(amount) DESC, id ASC",
	domain.SortLowest:  "ABS(amount) ASC, id ASC",
}

// Create creates a new bill template
func (r *BillRepository) Create(ctx context.Context, bill *domain.Bill) (*domain.Bill, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	amount, err := decimalToPgNumeric(bill.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	query := `
		INSERT INTO transactions (user_id, name, category, amount, transaction_date, recurring, is_template, due_day)
		VALUES ($1, $2, $3, $4, now(), true, true, $5)
		RETURNING id, user_id, name, category, amount, due_day, created_at`

	return scanBill(r.pool.QueryRow(ctx, query, bill.UserID, bill.Name, string(bill.Category), amount, bill.DueDay))
}

// GetByID retrieves a bill template by ID scoped to its owner
func (r *BillRepository) GetByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Bill, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, user_id, name, category, amount, due_day, created_at
		FROM transactions
		WHERE user_id = $1 AND id = $2 AND is_template = true`

	bill, err := scanBill(r.pool.QueryRow(ctx, query, userID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBillNotFound
		}
		return nil, storeError(err)
	}
	return bill, nil
}

// ListByUser retrieves bill templates with optional search and sort
func (r *BillRepository) ListByUser(ctx context.Context, userID uuid.UUID, filters *domain.BillFilters) ([]*domain.Bill, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	sort := domain.SortLatest
	search := ""
	if filters != nil {
		if filters.Sort != "" {
			sort = filters.Sort
		}
		search = filters.Search
	}

	orderBy, ok := billSortClauses[sort]
	if !ok {
		return nil, domain.ErrInvalidSort
	}

	query := `
		SELECT id, user_id, name, category, amount, due_day, created_at
		FROM transactions
		WHERE user_id = $1
		  AND is_template = true
		  AND ($2 = '' OR name ILIKE '%' || $2 || '%')
		ORDER BY ` + orderBy

	rows, err := r.pool.Query(ctx, query, userID, search)
	if err != nil {
		return nil, storeError(err)
	}
	defer rows.Close()

	var bills []*domain.Bill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, storeError(err)
		}
		bills = append(bills, bill)
	}
	return bills, rows.Err()
}

// PaidInPeriod reports whether the template already produced a concrete
// transaction for the period
func (r *BillRepository) PaidInPeriod(ctx context.Context, userID uuid.UUID, templateID int32, periodKey string) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var exists bool
	query := `
		SELECT EXISTS(
			SELECT 1 FROM transactions
			WHERE user_id = $1 AND template_id = $2 AND period_key = $3
		)`
	if err := r.pool.QueryRow(ctx, query, userID, templateID, periodKey).Scan(&exists); err != nil {
		return false, storeError(err)
	}
	return exists, nil
}

func scanBill(row pgx.Row) (*domain.Bill, error) {
	var (
		bill      domain.Bill
		category  string
		amount    pgtype.Numeric
		createdAt pgtype.Timestamptz
	)
	if err := row.Scan(&bill.ID, &bill.UserID, &bill.Name, &category, &amount, &bill.DueDay, &createdAt); err != nil {
		return nil, storeError(err)
	}
	bill.Category = domain.Category(category)
	bill.Amount = pgNumericToDecimal(amount)
	bill.CreatedAt = createdAt.Time
	return &bill, nil
}
