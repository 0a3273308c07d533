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

// BudgetRepository implements domain.BudgetRepository using PostgreSQL
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

// Create creates a new budget
func (r *BudgetRepository) Create(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	maximum, err := decimalToPgNumeric(budget.Maximum)
	if err != nil {
		return nil, fmt.Errorf("invalid maximum: %w", err)
	}

	query := `
		INSERT INTO budgets (user_id, category, maximum, theme)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, category, maximum, theme, created_at, updated_at`

	return scanBudget(r.pool.QueryRow(ctx, query, budget.UserID, string(budget.Category), maximum, string(budget.Theme)))
}

// GetByID retrieves a budget by ID scoped to its owner
func (r *BudgetRepository) GetByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Budget, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, user_id, category, maximum, theme, created_at, updated_at
		FROM budgets
		WHERE user_id = $1 AND id = $2`

	budget, err := scanBudget(r.pool.QueryRow(ctx, query, userID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, storeError(err)
	}
	return budget, nil
}

// ListByUser retrieves all budgets for a user
func (r *BudgetRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Budget, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, user_id, category, maximum, theme, created_at, updated_at
		FROM budgets
		WHERE user_id = $1
		ORDER BY id`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, storeError(err)
	}
	defer rows.Close()

	var budgets []*domain.Budget
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, storeError(err)
		}
		budgets = append(budgets, budget)
	}
	return budgets, rows.Err()
}

// Update updates a budget's category, maximum and theme
func (r *BudgetRepository) Update(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	maximum, err := decimalToPgNumeric(budget.Maximum)
	if err != nil {
		return nil, fmt.Errorf("invalid maximum: %w", err)
	}

	query := `
		UPDATE budgets
		SET category = $1, maximum = $2, theme = $3, updated_at = now()
		WHERE user_id = $4 AND id = $5
		RETURNING id, user_id, category, maximum, theme, created_at, updated_at`

	updated, err := scanBudget(r.pool.QueryRow(ctx, query, string(budget.Category), maximum, string(budget.Theme), budget.UserID, budget.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, storeError(err)
	}
	return updated, nil
}

// Delete removes a budget. Transactions in the category are untouched.
func (r *BudgetRepository) Delete(ctx context.Context, userID uuid.UUID, id int32) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `DELETE FROM budgets WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return storeError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBudgetNotFound
	}
	return nil
}

// ExistsForCategory reports whether the user already has a budget in the category
func (r *BudgetRepository) ExistsForCategory(ctx context.Context, userID uuid.UUID, category domain.Category) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM budgets WHERE user_id = $1 AND category = $2)`
	if err := r.pool.QueryRow(ctx, query, userID, string(category)).Scan(&exists); err != nil {
		return false, storeError(err)
	}
	return exists, nil
}

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var (
		budget    domain.Budget
		category  string
		maximum   pgtype.Numeric
		theme     string
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&budget.ID, &budget.UserID, &category, &maximum, &theme, &createdAt, &updatedAt); err != nil {
		return nil, storeError(err)
	}
	budget.Category = domain.Category(category)
	budget.Maximum = pgNumericToDecimal(maximum)
	budget.Theme = domain.Theme(theme)
	budget.CreatedAt = createdAt.Time
	budget.UpdatedAt = updatedAt.Time
	return &budget, nil
}
