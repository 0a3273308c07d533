package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/centavo/centavo-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// sortClauses maps each sort option to its ORDER BY clause. Every clause
// carries an id tie-break so repeated calls return identical order.
var sortClauses = map[domain.SortOption]string{
	domain.SortLatest:  "transaction_date DESC, id ASC",
	domain.SortOldest:  "transaction_date ASC, id ASC",
	domain.SortAToZ:    "LOWER(name) ASC, id ASC",
	domain.SortZToA:    "LOWER(name) DESC, id ASC",
	domain.SortHighest: "amount DESC, id ASC",
	domain.SortLowest:  "amount ASC, id ASC",
}

// Create creates a new transaction
func (r *TransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	query := `
		INSERT INTO transactions (user_id, name, category, amount, transaction_date, recurring, is_template, template_id, period_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, user_id, name, category, amount, transaction_date, recurring, is_template, template_id, period_key, created_at`

	row := r.pool.QueryRow(ctx, query,
		transaction.UserID,
		transaction.Name,
		string(transaction.Category),
		amount,
		transaction.TransactionDate,
		transaction.Recurring,
		transaction.IsTemplate,
		transaction.TemplateID,
		transaction.PeriodKey,
	)
	created, err := scanTransaction(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Unique (template_id, period_key) index: a concurrent payment of
			// the same bill template won the race.
			return nil, domain.ErrAlreadyPaid
		}
		return nil, storeError(err)
	}
	return created, nil
}

// GetByID retrieves a transaction by ID scoped to its owner
func (r *TransactionRepository) GetByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Transaction, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, user_id, name, category, amount, transaction_date, recurring, is_template, template_id, period_key, created_at
		FROM transactions
		WHERE user_id = $1 AND id = $2`

	transaction, err := scanTransaction(r.pool.QueryRow(ctx, query, userID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, storeError(err)
	}
	return transaction, nil
}

// List retrieves non-template transactions with pagination, search, category
// filter and sort
func (r *TransactionRepository) List(ctx context.Context, userID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	page := int32(1)
	pageSize := int32(domain.DefaultPageSize)
	sort := domain.SortLatest
	search := ""
	category := ""

	if filters != nil {
		if filters.Page > 0 {
			page = filters.Page
		}
		if filters.PageSize > 0 {
			pageSize = filters.PageSize
			if pageSize > domain.MaxPageSize {
				pageSize = domain.MaxPageSize
			}
		}
		if filters.Sort != "" {
			sort = filters.Sort
		}
		search = filters.Search
		if filters.Category != nil {
			category = string(*filters.Category)
		}
	}

	orderBy, ok := sortClauses[sort]
	if !ok {
		return nil, domain.ErrInvalidSort
	}

	where := `
		WHERE user_id = $1
		  AND is_template = false
		  AND ($2 = '' OR name ILIKE '%' || $2 || '%')
		  AND ($3 = '' OR category = $3)`

	var totalItems int64
	countQuery := `SELECT COUNT(*) FROM transactions` + where
	if err := r.pool.QueryRow(ctx, countQuery, userID, search, category).Scan(&totalItems); err != nil {
		return nil, storeError(err)
	}

	offset := (page - 1) * pageSize
	listQuery := `
		SELECT id, user_id, name, category, amount, transaction_date, recurring, is_template, template_id, period_key, created_at
		FROM transactions` + where + `
		ORDER BY ` + orderBy + `
		LIMIT $4 OFFSET $5`

	rows, err := r.pool.Query(ctx, listQuery, userID, search, category, pageSize, offset)
	if err != nil {
		return nil, storeError(err)
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, storeError(err)
		}
		transactions = append(transactions, transaction)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(err)
	}

	totalPages := int32(totalItems / int64(pageSize))
	if totalItems%int64(pageSize) > 0 {
		totalPages++
	}

	return &domain.PaginatedTransactions{
		Data:       transactions,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}, nil
}

// Delete removes a transaction
func (r *TransactionRepository) Delete(ctx context.Context, userID uuid.UUID, id int32) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return storeError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// SumExpensesByCategory sums the absolute amounts of non-template expense
// transactions in a category within [from, to)
func (r *TransactionRepository) SumExpensesByCategory(ctx context.Context, userID uuid.UUID, category domain.Category, from, to time.Time) (decimal.Decimal, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `
		SELECT COALESCE(SUM(-amount), 0)
		FROM transactions
		WHERE user_id = $1
		  AND category = $2
		  AND is_template = false
		  AND amount < 0
		  AND transaction_date >= $3
		  AND transaction_date < $4`

	var sum pgtype.Numeric
	if err := r.pool.QueryRow(ctx, query, userID, string(category), from, to).Scan(&sum); err != nil {
		return decimal.Zero, storeError(err)
	}
	return pgNumericToDecimal(sum), nil
}

// LatestByCategory returns the n most recent non-template transactions in a
// category, newest first, most recently created first on equal dates
func (r *TransactionRepository) LatestByCategory(ctx context.Context, userID uuid.UUID, category domain.Category, n int32) ([]*domain.Transaction, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, user_id, name, category, amount, transaction_date, recurring, is_template, template_id, period_key, created_at
		FROM transactions
		WHERE user_id = $1 AND category = $2 AND is_template = false
		ORDER BY transaction_date DESC, id DESC
		LIMIT $3`

	rows, err := r.pool.Query(ctx, query, userID, string(category), n)
	if err != nil {
		return nil, storeError(err)
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, storeError(err)
		}
		transactions = append(transactions, transaction)
	}
	return transactions, rows.Err()
}

// SumInPeriod returns total income and total absolute expenses within [from, to)
func (r *TransactionRepository) SumInPeriod(ctx context.Context, userID uuid.UUID, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE amount > 0), 0),
			COALESCE(SUM(-amount) FILTER (WHERE amount < 0), 0)
		FROM transactions
		WHERE user_id = $1
		  AND is_template = false
		  AND transaction_date >= $2
		  AND transaction_date < $3`

	var income, expenses pgtype.Numeric
	if err := r.pool.QueryRow(ctx, query, userID, from, to).Scan(&income, &expenses); err != nil {
		return decimal.Zero, decimal.Zero, storeError(err)
	}
	return pgNumericToDecimal(income), pgNumericToDecimal(expenses), nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		transaction domain.Transaction
		category    string
		amount      pgtype.Numeric
		txDate      pgtype.Timestamptz
		createdAt   pgtype.Timestamptz
	)
	if err := row.Scan(
		&transaction.ID,
		&transaction.UserID,
		&transaction.Name,
		&category,
		&amount,
		&txDate,
		&transaction.Recurring,
		&transaction.IsTemplate,
		&transaction.TemplateID,
		&transaction.PeriodKey,
		&createdAt,
	); err != nil {
		return nil, storeError(err)
	}
	transaction.Category = domain.Category(category)
	transaction.Amount = pgNumericToDecimal(amount)
	transaction.TransactionDate = txDate.Time
	transaction.CreatedAt = createdAt.Time
	return &transaction, nil
}
