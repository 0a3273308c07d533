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

// LatestPerBudget is how many recent transactions annotate each budget.
const LatestPerBudget = 3

// BudgetService computes budget figures from the live transaction set. Spent
// and remaining are derived at read time, never stored, so they cannot drift
// from the ledger.
type BudgetService struct {
	budgetRepo      domain.BudgetRepository
	transactionRepo domain.TransactionRepository
	periodStartDay  int
	now             func() time.Time
}

// NewBudgetService creates a new BudgetService. periodStartDay selects which
// day of the month opens a budgeting period; 1 is a plain calendar month.
func NewBudgetService(budgetRepo domain.BudgetRepository, transactionRepo domain.TransactionRepository, periodStartDay int) *BudgetService {
	return &BudgetService{
		budgetRepo:      budgetRepo,
		transactionRepo: transactionRepo,
		periodStartDay:  periodStartDay,
		now:             time.Now,
	}
}

// CreateBudgetInput holds the input for creating a budget
type CreateBudgetInput struct {
	Category domain.Category
	Maximum  decimal.Decimal
	Theme    domain.Theme
}

// CreateBudget creates a budget after validating against the closed category
// and theme sets. One budget per category per user.
func (s *BudgetService) CreateBudget(ctx context.Context, userID uuid.UUID, input CreateBudgetInput) (*domain.Budget, error) {
	if !input.Category.IsValid() {
		return nil, domain.ErrInvalidCategory
	}
	if !input.Theme.IsValid() {
		return nil, domain.ErrInvalidTheme
	}
	if input.Maximum.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	exists, err := s.budgetRepo.ExistsForCategory(ctx, userID, input.Category)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrBudgetExists
	}

	return s.budgetRepo.Create(ctx, &domain.Budget{
		UserID:   userID,
		Category: input.Category,
		Maximum:  input.Maximum,
		Theme:    input.Theme,
	})
}

// UpdateBudget updates a budget's category, maximum and theme
func (s *BudgetService) UpdateBudget(ctx context.Context, userID uuid.UUID, id int32, input CreateBudgetInput) (*domain.Budget, error) {
	if !input.Category.IsValid() {
		return nil, domain.ErrInvalidCategory
	}
	if !input.Theme.IsValid() {
		return nil, domain.ErrInvalidTheme
	}
	if input.Maximum.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	budget, err := s.budgetRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if budget.Category != input.Category {
		exists, err := s.budgetRepo.ExistsForCategory(ctx, userID, input.Category)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrBudgetExists
		}
	}

	budget.Category = input.Category
	budget.Maximum = input.Maximum
	budget.Theme = input.Theme
	return s.budgetRepo.Update(ctx, budget)
}

// DeleteBudget removes a budget. Transactions in its category are untouched.
func (s *BudgetService) DeleteBudget(ctx context.Context, userID uuid.UUID, id int32) error {
	return s.budgetRepo.Delete(ctx, userID, id)
}

// ComputeSpent sums the absolute amounts of non-template expense transactions
// in the category within the current budgeting period.
func (s *BudgetService) ComputeSpent(ctx context.Context, userID uuid.UUID, category domain.Category) (decimal.Decimal, error) {
	from, to := util.PeriodBounds(s.now(), s.periodStartDay)
	return s.transactionRepo.SumExpensesByCategory(ctx, userID, category, from, to)
}

// ComputeLatest returns the n most recent transactions in the category
func (s *BudgetService) ComputeLatest(ctx context.Context, userID uuid.UUID, category domain.Category, n int32) ([]*domain.Transaction, error) {
	return s.transactionRepo.LatestByCategory(ctx, userID, category, n)
}

// Overview annotates every budget with spent/remaining/latest and computes
// the aggregate residual. Per-budget figures are independent reads, so they
// run concurrently.
func (s *BudgetService) Overview(ctx context.Context, userID uuid.UUID) (*domain.BudgetsOverview, error) {
	budgets, err := s.budgetRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]*domain.BudgetSummary, len(budgets))
	g, gctx := errgroup.WithContext(ctx)
	for i, budget := range budgets {
		i, budget := i, budget
		g.Go(func() error {
			summary, err := s.summarize(gctx, budget)
			if err != nil {
				return err
			}
			summaries[i] = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	totalLimit := decimal.Zero
	totalSpent := decimal.Zero
	for _, summary := range summaries {
		totalLimit = totalLimit.Add(summary.Budget.Maximum)
		totalSpent = totalSpent.Add(summary.Spent)
	}
	free := totalLimit.Sub(totalSpent)
	if free.IsNegative() {
		free = decimal.Zero
	}

	return &domain.BudgetsOverview{
		Budgets:    summaries,
		TotalLimit: totalLimit,
		TotalSpent: totalSpent,
		Free:       free,
	}, nil
}

func (s *BudgetService) summarize(ctx context.Context, budget *domain.Budget) (*domain.BudgetSummary, error) {
	spent, err := s.ComputeSpent(ctx, budget.UserID, budget.Category)
	if err != nil {
		return nil, err
	}

	latest, err := s.transactionRepo.LatestByCategory(ctx, budget.UserID, budget.Category, LatestPerBudget)
	if err != nil {
		return nil, err
	}

	remaining := budget.Maximum.Sub(spent)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	return &domain.BudgetSummary{
		Budget:    budget,
		Spent:     spent,
		Remaining: remaining,
		Latest:    latest,
	}, nil
}
