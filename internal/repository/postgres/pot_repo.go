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
	"github.com/shopspring/decimal"
)

// PotRepository implements domain.PotRepository using PostgreSQL
type PotRepository struct {
	pool *pgxpool.Pool
}

// NewPotRepository creates a new PotRepository
func NewPotRepository(pool *pgxpool.Pool) *PotRepository {
	return &PotRepository{pool: pool}
}

// Create creates a new pot
func (r *PotRepository) Create(ctx context.Context, pot *domain.Pot) (*domain.Pot, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	target, err := decimalToPgNumeric(pot.Target)
	if err != nil {
		return nil, fmt.Errorf("invalid target: %w", err)
	}
	total, err := decimalToPgNumeric(pot.Total)
	if err != nil {
		return nil, fmt.Errorf("invalid total: %w", err)
	}

	query := `
		INSERT INTO pots (user_id, name, target, total, theme)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, name, target, total, theme, created_at, updated_at`

	row := r.pool.QueryRow(ctx, query, pot.UserID, pot.Name, target, total, string(pot.Theme))
	return scanPot(row)
}

// GetByID retrieves a pot by ID scoped to its owner
func (r *PotRepository) GetByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Pot, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, user_id, name, target, total, theme, created_at, updated_at
		FROM pots
		WHERE user_id = $1 AND id = $2`

	pot, err := scanPot(r.pool.QueryRow(ctx, query, userID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPotNotFound
		}
		return nil, storeError(err)
	}
	return pot, nil
}

// ListByUser retrieves all pots for a user
func (r *PotRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Pot, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, user_id, name, target, total, theme, created_at, updated_at
		FROM pots
		WHERE user_id = $1
		ORDER BY id`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, storeError(err)
	}
	defer rows.Close()

	var pots []*domain.Pot
	for rows.Next() {
		pot, err := scanPot(rows)
		if err != nil {
			return nil, storeError(err)
		}
		pots = append(pots, pot)
	}
	return pots, rows.Err()
}

// UpdateMeta updates pot metadata. Total is never touched here; money moves
// only through AddToTotal/TakeFromTotal.
func (r *PotRepository) UpdateMeta(ctx context.Context, userID uuid.UUID, id int32, data *domain.UpdatePotData) (*domain.Pot, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var target *pgtype.Numeric
	if data.Target != nil {
		n, err := decimalToPgNumeric(*data.Target)
		if err != nil {
			return nil, fmt.Errorf("invalid target: %w", err)
		}
		target = &n
	}

	var theme *string
	if data.Theme != nil {
		s := string(*data.Theme)
		theme = &s
	}

	query := `
		UPDATE pots
		SET name = COALESCE($1, name),
		    target = COALESCE($2, target),
		    theme = COALESCE($3, theme),
		    updated_at = now()
		WHERE user_id = $4 AND id = $5
		RETURNING id, user_id, name, target, total, theme, created_at, updated_at`

	pot, err := scanPot(r.pool.QueryRow(ctx, query, data.Name, target, theme, userID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPotNotFound
		}
		return nil, storeError(err)
	}
	return pot, nil
}

// Delete removes a pot record
func (r *PotRepository) Delete(ctx context.Context, userID uuid.UUID, id int32) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `DELETE FROM pots WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return storeError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPotNotFound
	}
	return nil
}

// AddToTotal atomically increments the pot total and returns the new value
func (r *PotRepository) AddToTotal(ctx context.Context, id int32, amount decimal.Decimal) (decimal.Decimal, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	delta, err := decimalToPgNumeric(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount: %w", err)
	}

	query := `
		UPDATE pots
		SET total = total + $1, updated_at = now()
		WHERE id = $2
		RETURNING total`

	var total pgtype.Numeric
	if err := r.pool.QueryRow(ctx, query, delta, id).Scan(&total); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrPotNotFound
		}
		return decimal.Zero, storeError(err)
	}
	return pgNumericToDecimal(total), nil
}

// TakeFromTotal decrements the pot total iff the current total covers the
// amount. The condition and the decrement are one statement, so two
// withdrawals racing on the same pot cannot both pass the check.
func (r *PotRepository) TakeFromTotal(ctx context.Context, id int32, amount decimal.Decimal) (decimal.Decimal, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	delta, err := decimalToPgNumeric(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount: %w", err)
	}

	query := `
		UPDATE pots
		SET total = total - $1, updated_at = now()
		WHERE id = $2 AND total >= $1
		RETURNING total`

	var total pgtype.Numeric
	if err := r.pool.QueryRow(ctx, query, delta, id).Scan(&total); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrInsufficientPotFunds
		}
		return decimal.Zero, storeError(err)
	}
	return pgNumericToDecimal(total), nil
}

// SumTotals returns the pot count and the sum of all pot totals for a user
func (r *PotRepository) SumTotals(ctx context.Context, userID uuid.UUID) (int32, decimal.Decimal, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `SELECT COUNT(*), COALESCE(SUM(total), 0) FROM pots WHERE user_id = $1`

	var (
		count int64
		sum   pgtype.Numeric
	)
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&count, &sum); err != nil {
		return 0, decimal.Zero, storeError(err)
	}
	return int32(count), pgNumericToDecimal(sum), nil
}

func scanPot(row pgx.Row) (*domain.Pot, error) {
	var (
		pot       domain.Pot
		target    pgtype.Numeric
		total     pgtype.Numeric
		theme     string
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&pot.ID, &pot.UserID, &pot.Name, &target, &total, &theme, &createdAt, &updatedAt); err != nil {
		return nil, storeError(err)
	}
	pot.Target = pgNumericToDecimal(target)
	pot.Total = pgNumericToDecimal(total)
	pot.Theme = domain.Theme(theme)
	pot.CreatedAt = createdAt.Time
	pot.UpdatedAt = updatedAt.Time
	return &pot, nil
}
