package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/centavo/centavo-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// TransferLogRepository implements domain.TransferLogRepository using PostgreSQL
type TransferLogRepository struct {
	pool *pgxpool.Pool
}

// NewTransferLogRepository creates a new TransferLogRepository
func NewTransferLogRepository(pool *pgxpool.Pool) *TransferLogRepository {
	return &TransferLogRepository{pool: pool}
}

// Create writes a pending transfer log entry
func (r *TransferLogRepository) Create(ctx context.Context, entry *domain.TransferLog) (*domain.TransferLog, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	amount, err := decimalToPgNumeric(entry.Amount)
	if err != nil {
		return nil, storeError(err)
	}

	id := entry.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	state := entry.State
	if state == "" {
		state = domain.TransferPending
	}

	query := `
		INSERT INTO transfer_log (id, user_id, pot_id, direction, amount, state, idempotency_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, user_id, pot_id, direction, amount, state, idempotency_key, result_total, result_balance, created_at, updated_at`

	created, err := scanTransferLog(r.pool.QueryRow(ctx, query,
		id, entry.UserID, entry.PotID, string(entry.Direction), amount, string(state), entry.IdempotencyKey))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Unique (user_id, idempotency_key): a retry raced the original.
			return nil, domain.ErrDuplicateRequest
		}
		return nil, storeError(err)
	}
	return created, nil
}

// SetState moves an entry to a new lifecycle state
func (r *TransferLogRepository) SetState(ctx context.Context, id uuid.UUID, state domain.TransferState) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := r.pool.Exec(ctx,
		`UPDATE transfer_log SET state = $1, updated_at = now() WHERE id = $2`,
		string(state), id)
	if err != nil {
		return storeError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Complete marks an entry completed and records both resulting figures
func (r *TransferLogRepository) Complete(ctx context.Context, id uuid.UUID, resultTotal, resultBalance decimal.Decimal) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	total, err := decimalToPgNumeric(resultTotal)
	if err != nil {
		return storeError(err)
	}
	balance, err := decimalToPgNumeric(resultBalance)
	if err != nil {
		return storeError(err)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE transfer_log
		SET state = $1, result_total = $2, result_balance = $3, updated_at = now()
		WHERE id = $4`,
		string(domain.TransferCompleted), total, balance, id)
	if err != nil {
		return storeError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReleaseKey clears the idempotency key so the key can be reused
func (r *TransferLogRepository) ReleaseKey(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := r.pool.Exec(ctx,
		`UPDATE transfer_log SET idempotency_key = NULL, updated_at = now() WHERE id = $1`,
		id)
	if err != nil {
		return storeError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByIdempotencyKey retrieves a user's entry by idempotency key
func (r *TransferLogRepository) GetByIdempotencyKey(ctx context.Context, userID uuid.UUID, key string) (*domain.TransferLog, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, user_id, pot_id, direction, amount, state, idempotency_key, result_total, result_balance, created_at, updated_at
		FROM transfer_log
		WHERE user_id = $1 AND idempotency_key = $2`

	entry, err := scanTransferLog(r.pool.QueryRow(ctx, query, userID, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storeError(err)
	}
	return entry, nil
}

// ListFailed returns entries whose compensation must be replayed, oldest first
func (r *TransferLogRepository) ListFailed(ctx context.Context, limit int32) ([]*domain.TransferLog, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, user_id, pot_id, direction, amount, state, idempotency_key, result_total, result_balance, created_at, updated_at
		FROM transfer_log
		WHERE state = $1
		ORDER BY created_at ASC
		LIMIT $2`

	return r.queryEntries(ctx, query, string(domain.TransferFailedState), limit)
}

// ListStalePending returns pending entries created before cutoff, oldest first
func (r *TransferLogRepository) ListStalePending(ctx context.Context, cutoff time.Time, limit int32) ([]*domain.TransferLog, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, user_id, pot_id, direction, amount, state, idempotency_key, result_total, result_balance, created_at, updated_at
		FROM transfer_log
		WHERE state = $1 AND created_at < $2
		ORDER BY created_at ASC
		LIMIT $3`

	return r.queryEntries(ctx, query, string(domain.TransferPending), cutoff, limit)
}

func (r *TransferLogRepository) queryEntries(ctx context.Context, query string, args ...any) ([]*domain.TransferLog, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storeError(err)
	}
	defer rows.Close()

	var entries []*domain.TransferLog
	for rows.Next() {
		entry, err := scanTransferLog(rows)
		if err != nil {
			return nil, storeError(err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanTransferLog(row pgx.Row) (*domain.TransferLog, error) {
	var (
		entry         domain.TransferLog
		direction     string
		amount        pgtype.Numeric
		state         string
		resultTotal   pgtype.Numeric
		resultBalance pgtype.Numeric
		createdAt     pgtype.Timestamptz
		updatedAt     pgtype.Timestamptz
	)
	if err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.PotID,
		&direction,
		&amount,
		&state,
		&entry.IdempotencyKey,
		&resultTotal,
		&resultBalance,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, storeError(err)
	}
	entry.Direction = domain.TransferDirection(direction)
	entry.Amount = pgNumericToDecimal(amount)
	entry.State = domain.TransferState(state)
	if resultTotal.Valid {
		total := pgNumericToDecimal(resultTotal)
		entry.ResultTotal = &total
	}
	if resultBalance.Valid {
		balance := pgNumericToDecimal(resultBalance)
		entry.ResultBalance = &balance
	}
	entry.CreatedAt = createdAt.Time
	entry.UpdatedAt = updatedAt.Time
	return &entry, nil
}
