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

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	balance, err := decimalToPgNumeric(user.Balance)
	if err != nil {
		return nil, fmt.Errorf("invalid balance: %w", err)
	}

	query := `
		INSERT INTO users (id, email, name, balance)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, name, balance, created_at, updated_at`

	id := user.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	row := r.pool.QueryRow(ctx, query, id, user.Email, user.Name, balance)
	return scanUser(row)
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, email, name, balance, created_at, updated_at
		FROM users
		WHERE id = $1`

	row := r.pool.QueryRow(ctx, query, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, storeError(err)
	}
	return user, nil
}

// ApplyBalanceDelta adds delta to the user's balance as a single atomic
// increment and returns the new balance. The increment is expressed in SQL so
// concurrent deltas serialize in the store instead of racing through
// read-modify-write.
func (r *UserRepository) ApplyBalanceDelta(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	amount, err := decimalToPgNumeric(delta)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid delta: %w", err)
	}

	query := `
		UPDATE users
		SET balance = balance + $1, updated_at = now()
		WHERE id = $2
		RETURNING balance`

	var balance pgtype.Numeric
	if err := r.pool.QueryRow(ctx, query, amount, id).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrUserNotFound
		}
		return decimal.Zero, storeError(err)
	}
	return pgNumericToDecimal(balance), nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user      domain.User
		balance   pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &balance, &createdAt, &updatedAt); err != nil {
		return nil, storeError(err)
	}
	user.Balance = pgNumericToDecimal(balance)
	user.CreatedAt = createdAt.Time
	user.UpdatedAt = updatedAt.Time
	return &user, nil
}
