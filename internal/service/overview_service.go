package service

import (
	"context"
	"time"

	"github.com/centavo/centavo-backend/internal/domain"
	"github.com/centavo/centavo-backend/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// OverviewService aggregates the dashboard view. All figures are reads over
// the same store the mutators write; nothing here caches or mutates.
type OverviewService struct {
	userRepo        domain.UserRepository
	transactionRepo domain.TransactionRepository
	potRepo         domain.PotRepository
	budgetService   *BudgetService
	billService     *BillService
	periodStartDay  int
	now             func() time.Time
}

// NewOverviewService creates a new OverviewService
func NewOverviewService(
	userRepo domain.UserRepository,
	transactionRepo domain.TransactionRepository,
	potRepo domain.PotRepository,
	budgetService *BudgetService,
	billService *BillService,
	periodStartDay int,
) *OverviewService {
	return &OverviewService{
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		potRepo:         potRepo,
		budgetService:   budgetService,
		billService:     billService,
		periodStartDay:  periodStartDay,
		now:             time.Now,
	}
}

// PotsSummary aggregates pot figures for the overview
type PotsSummary struct {
	Count      int32           `json:"count"`
	TotalSaved decimal.Decimal `json:"totalSaved"`
}

// OverviewSummary is the dashboard payload
type OverviewSummary struct {
	Balance  decimal.Decimal         `json:"balance"`
	Income   decimal.Decimal         `json:"income"`
	Expenses decimal.Decimal         `json:"expenses"`
	Pots     PotsSummary             `json:"pots"`
	Budgets  *domain.BudgetsOverview `json:"budgets"`
	Bills    *domain.BillsSummary    `json:"bills"`
}

// Summary computes the dashboard for a user. The parts are independent
// reads, so they run concurrently.
func (s *OverviewService) Summary(ctx context.Context, userID uuid.UUID) (*OverviewSummary, error) {
	from, to := util.PeriodBounds(s.now(), s.periodStartDay)

	summary := &OverviewSummary{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		user, err := s.userRepo.GetByID(gctx, userID)
		if err != nil {
			return err
		}
		summary.Balance = user.Balance
		return nil
	})

	g.Go(func() error {
		income, expenses, err := s.transactionRepo.SumInPeriod(gctx, userID, from, to)
		if err != nil {
			return err
		}
		summary.Income = income
		summary.Expenses = expenses
		return nil
	})

	g.Go(func() error {
		count, total, err := s.potRepo.SumTotals(gctx, userID)
		if err != nil {
			return err
		}
		summary.Pots = PotsSummary{Count: count, TotalSaved: total}
		return nil
	})

	g.Go(func() error {
		budgets, err := s.budgetService.Overview(gctx, userID)
		if err != nil {
			return err
		}
		summary.Budgets = budgets
		return nil
	})

	g.Go(func() error {
		bills, err := s.billService.Summary(gctx, userID)
		if err != nil {
			return err
		}
		summary.Bills = bills
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summary, nil
}
