package service

import (
	"context"
	"strings"
	"time"

	"github.com/centavo/centavo-backend/internal/domain"
	"github.com/centavo/centavo-backend/internal/util"
	"github.com/centavo/centavo-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// DueSoonDays is how close to its due date an unpaid bill counts as due soon.
const DueSoonDays = 5

// BillService converts recurring bill templates into concrete transactions.
// Paying is idempotent per budgeting period: the period check plus a unique
// (template, period) index make a retried payment a no-op rejection rather
// than a double charge.
type BillService struct {
	billRepo        domain.BillRepository
	transactionRepo domain.TransactionRepository
	balanceService  *BalanceService
	periodStartDay  int
	now             func() time.Time
	eventPublisher  websocket.EventPublisher
}

// NewBillService creates a new BillService
func NewBillService(billRepo domain.BillRepository, transactionRepo domain.TransactionRepository, balanceService *BalanceService, periodStartDay int) *BillService {
	return &BillService{
		billRepo:        billRepo,
		transactionRepo: transactionRepo,
		balanceService:  balanceService,
		periodStartDay:  periodStartDay,
		now:             time.Now,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *BillService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *BillService) publishEvent(userID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// CreateBillInput holds the input for creating a bill template. Amount is the
// positive charge; the template stores it as a negative expense.
type CreateBillInput struct {
	Name     string
	Category domain.Category
	Amount   decimal.Decimal
	DueDay   int32
}

// CreateBill creates a recurring bill template. Templates never affect the
// balance or budget totals until paid.
func (s *BillService) CreateBill(ctx context.Context, userID uuid.UUID, input CreateBillInput) (*domain.Bill, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	if !input.Category.IsValid() {
		return nil, domain.ErrInvalidCategory
	}
	if err := validateTransferAmount(input.Amount); err != nil {
		return nil, err
	}
	if input.DueDay < 1 || input.DueDay > 31 {
		return nil, domain.ErrInvalidDueDay
	}

	return s.billRepo.Create(ctx, &domain.Bill{
		UserID:   userID,
		Name:     name,
		Category: input.Category,
		Amount:   input.Amount.Neg(),
		DueDay:   input.DueDay,
	})
}

// ListBills returns bill templates annotated with their derived status for
// the current period
func (s *BillService) ListBills(ctx context.Context, userID uuid.UUID, filters *domain.BillFilters) ([]*domain.BillWithStatus, error) {
	if filters != nil && filters.Sort != "" && !filters.Sort.IsValid() {
		return nil, domain.ErrInvalidSort
	}

	bills, err := s.billRepo.ListByUser(ctx, userID, filters)
	if err != nil {
		return nil, err
	}

	now := s.now()
	from, _ := util.PeriodBounds(now, s.periodStartDay)
	periodKey := util.PeriodKey(from)

	annotated := make([]*domain.BillWithStatus, 0, len(bills))
	for _, bill := range bills {
		paid, err := s.billRepo.PaidInPeriod(ctx, userID, bill.ID, periodKey)
		if err != nil {
			return nil, err
		}
		annotated = append(annotated, annotateBill(bill, paid, now))
	}
	return annotated, nil
}

// Summary aggregates bill figures for the current period
func (s *BillService) Summary(ctx context.Context, userID uuid.UUID) (*domain.BillsSummary, error) {
	annotated, err := s.ListBills(ctx, userID, nil)
	if err != nil {
		return nil, err
	}

	summary := &domain.BillsSummary{
		PaidTotal:     decimal.Zero,
		UpcomingTotal: decimal.Zero,
		DueSoonTotal:  decimal.Zero,
	}
	for _, bill := range annotated {
		amount := bill.Bill.Amount.Abs()
		switch bill.Status {
		case domain.BillStatusPaid:
			summary.PaidTotal = summary.PaidTotal.Add(amount)
			summary.PaidCount++
		case domain.BillStatusDueSoon:
			summary.DueSoonTotal = summary.DueSoonTotal.Add(amount)
			summary.DueSoonCount++
			summary.UpcomingTotal = summary.UpcomingTotal.Add(amount)
			summary.UpcomingCount++
		default:
			summary.UpcomingTotal = summary.UpcomingTotal.Add(amount)
			summary.UpcomingCount++
		}
	}
	return summary, nil
}

// PayResult is the outcome of paying a bill
type PayResult struct {
	Transaction *domain.Transaction `json:"transaction"`
	NewBalance  decimal.Decimal     `json:"newBalance"`
}

// Pay converts a bill template into a concrete transaction and applies its
// amount to the balance. The created transaction and the balance delta either
// both happen or neither: a failed delta deletes the transaction again.
func (s *BillService) Pay(ctx context.Context, userID uuid.UUID, billID int32) (*PayResult, error) {
	bill, err := s.billRepo.GetByID(ctx, userID, billID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	from, _ := util.PeriodBounds(now, s.periodStartDay)
	periodKey := util.PeriodKey(from)

	paid, err := s.billRepo.PaidInPeriod(ctx, userID, billID, periodKey)
	if err != nil {
		return nil, err
	}
	if paid {
		return nil, domain.ErrAlreadyPaid
	}

	transaction, err := s.transactionRepo.Create(ctx, &domain.Transaction{
		UserID:          userID,
		Name:            bill.Name,
		Category:        bill.Category,
		Amount:          bill.Amount,
		TransactionDate: now,
		Recurring:       true,
		TemplateID:      &bill.ID,
		PeriodKey:       &periodKey,
	})
	if err != nil {
		return nil, err
	}

	newBalance, err := s.balanceService.ApplyDelta(ctx, userID, transaction.Amount)
	if err != nil {
		// Without the reversal the ledger would show money spent that never
		// left the balance.
		if delErr := s.transactionRepo.Delete(ctx, userID, transaction.ID); delErr != nil {
			log.Error().
				Err(delErr).
				Str("user_id", userID.String()).
				Int32("bill_id", billID).
				Int32("transaction_id", transaction.ID).
				AnErr("cause", err).
				Msg("FATAL: bill payment compensation failed, transaction exists without balance effect")
			return nil, domain.ErrTransferFailed
		}
		return nil, err
	}

	s.publishEvent(userID, websocket.NewEvent(websocket.EventTypePaid, websocket.EntityTypeBill, bill))
	s.publishEvent(userID, websocket.NewEvent(websocket.EventTypeCreated, websocket.EntityTypeTransaction, transaction))
	s.publishEvent(userID, websocket.NewBalanceEvent(newBalance))

	return &PayResult{Transaction: transaction, NewBalance: newBalance}, nil
}

func annotateBill(bill *domain.Bill, paid bool, now time.Time) *domain.BillWithStatus {
	dueDate := util.ClampedDate(now.Year(), now.Month(), int(bill.DueDay))

	status := domain.BillStatusUpcoming
	switch {
	case paid:
		status = domain.BillStatusPaid
	case now.After(dueDate.Add(24 * time.Hour)):
		status = domain.BillStatusOverdue
	case dueDate.Sub(now) <= DueSoonDays*24*time.Hour:
		status = domain.BillStatusDueSoon
	}

	return &domain.BillWithStatus{
		Bill:    bill,
		Status:  status,
		DueDate: dueDate,
	}
}
