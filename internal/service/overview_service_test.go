package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/centavo/centavo-backend/internal/domain"
	"github.com/centavo/centavo-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestOverviewSummary_AggregatesAllParts(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	potRepo := testutil.NewMockPotRepository()
	budgetRepo := testutil.NewMockBudgetRepository()
	billRepo := testutil.NewMockBillRepository()

	now := time.Date(2026, time.August, 20, 0, 0, 0, 0, time.UTC)

	budgetService := NewBudgetService(budgetRepo, transactionRepo, 1)
	budgetService.now = func() time.Time { return now }
	billService := NewBillService(billRepo, transactionRepo, NewBalanceService(userRepo), 1)
	billService.now = func() time.Time { return now }
	overviewService := NewOverviewService(userRepo, transactionRepo, potRepo, budgetService, billService, 1)
	overviewService.now = func() time.Time { return now }

	userID := uuid.New()
	userRepo.AddUser(&domain.User{ID: userID, Email: "ana@example.com", Name: "Ana", Balance: decimal.NewFromInt(820)})

	august := time.Date(2026, time.August, 5, 0, 0, 0, 0, time.UTC)
	transactionRepo.AddTransaction(&domain.Transaction{ID: 1, UserID: userID, Name: "Salary", Category: domain.CategoryGeneral, Amount: decimal.NewFromInt(1500), TransactionDate: august})
	transactionRepo.AddTransaction(&domain.Transaction{ID: 2, UserID: userID, Name: "Market", Category: domain.CategoryGroceries, Amount: decimal.NewFromInt(-80), TransactionDate: august})

	potRepo.AddPot(&domain.Pot{ID: 1, UserID: userID, Name: "Vacation", Total: decimal.NewFromInt(200), Theme: domain.ThemeGreen})
	potRepo.AddPot(&domain.Pot{ID: 2, UserID: userID, Name: "Laptop", Total: decimal.NewFromInt(150), Theme: domain.ThemeCyan})

	budgetRepo.AddBudget(&domain.Budget{ID: 1, UserID: userID, Category: domain.CategoryGroceries, Maximum: decimal.NewFromInt(300), Theme: domain.ThemeGreen})
	billRepo.AddBill(&domain.Bill{ID: 1, UserID: userID, Name: "Rent", Category: domain.CategoryBills, Amount: decimal.NewFromInt(-500), DueDay: 28})

	summary, err := overviewService.Summary(context.Background(), userID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !summary.Balance.Equal(decimal.NewFromInt(820)) {
		t.Errorf("Expected balance 820, got %s", summary.Balance.String())
	}
	if !summary.Income.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("Expected income 1500, got %s", summary.Income.String())
	}
	if !summary.Expenses.Equal(decimal.NewFromInt(80)) {
		t.Errorf("Expected expenses 80, got %s", summary.Expenses.String())
	}
	if summary.Pots.Count != 2 || !summary.Pots.TotalSaved.Equal(decimal.NewFromInt(350)) {
		t.Errorf("Expected 2 pots totalling 350, got %d/%s", summary.Pots.Count, summary.Pots.TotalSaved.String())
	}
	if summary.Budgets == nil || !summary.Budgets.TotalSpent.Equal(decimal.NewFromInt(80)) {
		t.Error("Expected budgets overview with total spent 80")
	}
	if summary.Bills == nil || summary.Bills.UpcomingCount != 1 {
		t.Error("Expected bills summary with one upcoming bill")
	}
}

func TestOverviewSummary_UnknownUser(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	potRepo := testutil.NewMockPotRepository()
	budgetService := NewBudgetService(testutil.NewMockBudgetRepository(), transactionRepo, 1)
	billService := NewBillService(testutil.NewMockBillRepository(), transactionRepo, NewBalanceService(userRepo), 1)
	overviewService := NewOverviewService(userRepo, transactionRepo, potRepo, budgetService, billService, 1)

	_, err := overviewService.Summary(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("Expected ErrUserNotFound, got %v", err)
	}
}
