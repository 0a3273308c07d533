package service

import (
	"context"
	"strings"
	"time"

	"github.com/centavo/centavo-backend/internal/domain"
	"github.com/centavo/centavo-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// TransactionService handles manual ledger entries and the read-only query
// engine over them. Entries record real money movement, so creating or
// deleting one applies the matching balance delta through the balance
// service.
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	balanceService  *BalanceService
	eventPublisher  websocket.EventPublisher
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository, balanceService *BalanceService) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		balanceService:  balanceService,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *TransactionService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *TransactionService) publishEvent(userID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// CreateTransactionInput holds the input for a manual transaction. Amount is
// signed: positive income, negative expense.
type CreateTransactionInput struct {
	Name            string
	Category        domain.Category
	Amount          decimal.Decimal
	TransactionDate *time.Time
	Recurring       bool
}

// CreateTransaction records a ledger entry and applies its amount to the
// balance, compensating by deleting the entry if the balance delta fails.
func (s *TransactionService) CreateTransaction(ctx context.Context, userID uuid.UUID, input CreateTransactionInput) (*domain.Transaction, decimal.Decimal, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, decimal.Zero, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, decimal.Zero, domain.ErrNameTooLong
	}
	if !input.Category.IsValid() {
		return nil, decimal.Zero, domain.ErrInvalidCategory
	}
	if input.Amount.IsZero() {
		return nil, decimal.Zero, domain.ErrInvalidAmount
	}
	if input.Amount.Abs().GreaterThan(MaxTransferAmount) {
		return nil, decimal.Zero, domain.ErrAmountTooLarge
	}

	transactionDate := time.Now().UTC()
	if input.TransactionDate != nil {
		transactionDate = *input.TransactionDate
	}

	transaction, err := s.transactionRepo.Create(ctx, &domain.Transaction{
		UserID:          userID,
		Name:            name,
		Category:        input.Category,
		Amount:          input.Amount,
		TransactionDate: transactionDate,
		Recurring:       input.Recurring,
	})
	if err != nil {
		return nil, decimal.Zero, err
	}

	newBalance, err := s.balanceService.ApplyDelta(ctx, userID, transaction.Amount)
	if err != nil {
		if delErr := s.transactionRepo.Delete(ctx, userID, transaction.ID); delErr != nil {
			log.Error().
				Err(delErr).
				Str("user_id", userID.String()).
				Int32("transaction_id", transaction.ID).
				AnErr("cause", err).
				Msg("FATAL: transaction create compensation failed, ledger entry exists without balance effect")
			return nil, decimal.Zero, domain.ErrTransferFailed
		}
		return nil, decimal.Zero, err
	}

	s.publishEvent(userID, websocket.NewEvent(websocket.EventTypeCreated, websocket.EntityTypeTransaction, transaction))
	s.publishEvent(userID, websocket.NewBalanceEvent(newBalance))

	return transaction, newBalance, nil
}

// GetTransactions is the read-only query engine: paginated, filtered, sorted,
// searchable retrieval. Unknown categories and sort options fail loud rather
// than returning an empty result.
func (s *TransactionService) GetTransactions(ctx context.Context, userID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	if filters != nil {
		if filters.Sort != "" && !filters.Sort.IsValid() {
			return nil, domain.ErrInvalidSort
		}
		if filters.Category != nil && !filters.Category.IsValid() {
			return nil, domain.ErrInvalidCategory
		}
	}
	return s.transactionRepo.List(ctx, userID, filters)
}

// GetTransactionByID retrieves a single transaction
func (s *TransactionService) GetTransactionByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(ctx, userID, id)
}

// DeleteTransaction removes a ledger entry and reverses its balance effect.
// The balance is reversed first; a failed reversal keeps the entry (fail
// closed), a failed delete re-applies the amount.
func (s *TransactionService) DeleteTransaction(ctx context.Context, userID uuid.UUID, id int32) (decimal.Decimal, error) {
	transaction, err := s.transactionRepo.GetByID(ctx, userID, id)
	if err != nil {
		return decimal.Zero, err
	}

	if transaction.IsTemplate {
		// Templates never affected the balance; just drop the record.
		if err := s.transactionRepo.Delete(ctx, userID, id); err != nil {
			return decimal.Zero, err
		}
		return s.balanceService.GetBalance(ctx, userID)
	}

	newBalance, err := s.balanceService.ApplyDelta(ctx, userID, transaction.Amount.Neg())
	if err != nil {
		return decimal.Zero, err
	}

	if err := s.transactionRepo.Delete(ctx, userID, id); err != nil {
		if _, compErr := s.balanceService.ApplyDelta(ctx, userID, transaction.Amount); compErr != nil {
			log.Error().
				Err(compErr).
				Str("user_id", userID.String()).
				Int32("transaction_id", id).
				AnErr("cause", err).
				Msg("FATAL: transaction delete compensation failed, balance reversed for a surviving entry")
			return decimal.Zero, domain.ErrTransferFailed
		}
		return decimal.Zero, err
	}

	s.publishEvent(userID, websocket.NewEvent(websocket.EventTypeDeleted, websocket.EntityTypeTransaction, transaction))
	s.publishEvent(userID, websocket.NewBalanceEvent(newBalance))

	return newBalance, nil
}
