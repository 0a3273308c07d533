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

func newTransactionTestFixture() (*TransactionService, *testutil.MockUserRepository, *testutil.MockTransactionRepository, uuid.UUID) {
	userRepo := testutil.NewMockUserRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	transactionService := NewTransactionService(transactionRepo, NewBalanceService(userRepo))

	userID := uuid.New()
	userRepo.AddUser(&domain.User{
		ID:      userID,
		Email:   "ana@example.com",
		Name:    "Ana",
		Balance: decimal.NewFromInt(200),
	})

	return transactionService, userRepo, transactionRepo, userID
}

func TestCreateTransaction_IncomeRaisesBalance(t *testing.T) {
	transactionService, _, _, userID := newTransactionTestFixture()

	tx, newBalance, err := transactionService.CreateTransaction(context.Background(), userID, CreateTransactionInput{
		Name:     "Salary",
		Category: domain.CategoryGeneral,
		Amount:   decimal.NewFromInt(1500),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !newBalance.Equal(decimal.NewFromInt(1700)) {
		t.Errorf("Expected balance 1700, got %s", newBalance.String())
	}
	if !tx.Amount.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("Expected amount 1500, got %s", tx.Amount.String())
	}
}

func TestCreateTransaction_ExpenseLowersBalance(t *testing.T) {
	transactionService, userRepo, _, userID := newTransactionTestFixture()

	_, newBalance, err := transactionService.CreateTransaction(context.Background(), userID, CreateTransactionInput{
		Name:     "Groceries",
		Category: domain.CategoryGroceries,
		Amount:   decimal.NewFromInt(-45),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !newBalance.Equal(decimal.NewFromInt(155)) {
		t.Errorf("Expected balance 155, got %s", newBalance.String())
	}
	if !userRepo.Users[userID].Balance.Equal(decimal.NewFromInt(155)) {
		t.Errorf("Stored balance diverged: %s", userRepo.Users[userID].Balance.String())
	}
}

func TestCreateTransaction_Validation(t *testing.T) {
	transactionService, _, _, userID := newTransactionTestFixture()
	ctx := context.Background()

	if _, _, err := transactionService.CreateTransaction(ctx, userID, CreateTransactionInput{Name: "", Category: domain.CategoryGeneral, Amount: decimal.NewFromInt(1)}); !errors.Is(err, domain.ErrNameRequired) {
		t.Errorf("Expected ErrNameRequired, got %v", err)
	}
	if _, _, err := transactionService.CreateTransaction(ctx, userID, CreateTransactionInput{Name: "x", Category: "fun", Amount: decimal.NewFromInt(1)}); !errors.Is(err, domain.ErrInvalidCategory) {
		t.Errorf("Expected ErrInvalidCategory, got %v", err)
	}
	if _, _, err := transactionService.CreateTransaction(ctx, userID, CreateTransactionInput{Name: "x", Category: domain.CategoryGeneral, Amount: decimal.Zero}); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("Expected ErrInvalidAmount for zero, got %v", err)
	}
	if _, _, err := transactionService.CreateTransaction(ctx, userID, CreateTransactionInput{Name: "x", Category: domain.CategoryGeneral, Amount: MaxTransferAmount.Add(decimal.NewFromInt(1)).Neg()}); !errors.Is(err, domain.ErrAmountTooLarge) {
		t.Errorf("Expected ErrAmountTooLarge, got %v", err)
	}
}

func TestCreateTransaction_CompensatesWhenDeltaFails(t *testing.T) {
	transactionService, userRepo, transactionRepo, userID := newTransactionTestFixture()

	deltaErr := errors.New("store timeout")
	userRepo.ApplyBalanceDeltaFn = func(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
		return decimal.Zero, deltaErr
	}

	_, _, err := transactionService.CreateTransaction(context.Background(), userID, CreateTransactionInput{
		Name:     "Groceries",
		Category: domain.CategoryGroceries,
		Amount:   decimal.NewFromInt(-45),
	})
	if !errors.Is(err, deltaErr) {
		t.Fatalf("Expected the delta failure to surface, got %v", err)
	}
	if len(transactionRepo.Transactions) != 0 {
		t.Errorf("Expected the entry to be compensated away, got %d left", len(transactionRepo.Transactions))
	}
}

func TestDeleteTransaction_ReversesBalance(t *testing.T) {
	transactionService, userRepo, transactionRepo, userID := newTransactionTestFixture()
	transactionRepo.AddTransaction(&domain.Transaction{
		ID: 1, UserID: userID, Name: "Groceries", Category: domain.CategoryGroceries,
		Amount: decimal.NewFromInt(-45), TransactionDate: time.Now(),
	})

	newBalance, err := transactionService.DeleteTransaction(context.Background(), userID, 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Deleting a -45 expense credits 45 back
	if !newBalance.Equal(decimal.NewFromInt(245)) {
		t.Errorf("Expected balance 245, got %s", newBalance.String())
	}
	if len(transactionRepo.Transactions) != 0 {
		t.Error("Expected the transaction to be removed")
	}
	_ = userRepo
}

func TestDeleteTransaction_FailClosedWhenReversalFails(t *testing.T) {
	transactionService, userRepo, transactionRepo, userID := newTransactionTestFixture()
	transactionRepo.AddTransaction(&domain.Transaction{
		ID: 1, UserID: userID, Name: "Groceries", Category: domain.CategoryGroceries,
		Amount: decimal.NewFromInt(-45), TransactionDate: time.Now(),
	})

	reversalErr := errors.New("store timeout")
	userRepo.ApplyBalanceDeltaFn = func(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
		return decimal.Zero, reversalErr
	}

	_, err := transactionService.DeleteTransaction(context.Background(), userID, 1)
	if !errors.Is(err, reversalErr) {
		t.Fatalf("Expected the reversal failure to surface, got %v", err)
	}

	// The entry survives
	if len(transactionRepo.Transactions) != 1 {
		t.Error("Expected the transaction kept after a failed reversal")
	}
}

func TestDeleteTransaction_ReappliesWhenDeleteFails(t *testing.T) {
	transactionService, userRepo, transactionRepo, userID := newTransactionTestFixture()
	transactionRepo.AddTransaction(&domain.Transaction{
		ID: 1, UserID: userID, Name: "Groceries", Category: domain.CategoryGroceries,
		Amount: decimal.NewFromInt(-45), TransactionDate: time.Now(),
	})

	deleteErr := errors.New("store timeout")
	transactionRepo.DeleteFn = func(ctx context.Context, uID uuid.UUID, id int32) error {
		return deleteErr
	}

	_, err := transactionService.DeleteTransaction(context.Background(), userID, 1)
	if !errors.Is(err, deleteErr) {
		t.Fatalf("Expected the delete failure to surface, got %v", err)
	}

	// The reversal was undone; balance is back where it started
	if !userRepo.Users[userID].Balance.Equal(decimal.NewFromInt(200)) {
		t.Errorf("Expected balance restored to 200, got %s", userRepo.Users[userID].Balance.String())
	}
}

func TestGetTransactions_InvalidFiltersFailLoud(t *testing.T) {
	transactionService, _, _, userID := newTransactionTestFixture()
	ctx := context.Background()

	if _, err := transactionService.GetTransactions(ctx, userID, &domain.TransactionFilters{Sort: "sideways"}); !errors.Is(err, domain.ErrInvalidSort) {
		t.Errorf("Expected ErrInvalidSort, got %v", err)
	}

	bad := domain.Category("fun")
	if _, err := transactionService.GetTransactions(ctx, userID, &domain.TransactionFilters{Category: &bad}); !errors.Is(err, domain.ErrInvalidCategory) {
		t.Errorf("Expected ErrInvalidCategory, got %v", err)
	}
}

func TestGetTransactions_PaginationAndSort(t *testing.T) {
	transactionService, _, transactionRepo, userID := newTransactionTestFixture()

	for i := 1; i <= 12; i++ {
		transactionRepo.AddTransaction(&domain.Transaction{
			ID:              int32(i),
			UserID:          userID,
			Name:            "Entry",
			Category:        domain.CategoryGeneral,
			Amount:          decimal.NewFromInt(int64(-i)),
			TransactionDate: time.Date(2026, time.August, i, 0, 0, 0, 0, time.UTC),
		})
	}

	result, err := transactionService.GetTransactions(context.Background(), userID, &domain.TransactionFilters{Sort: domain.SortLatest})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.PageSize != domain.DefaultPageSize {
		t.Errorf("Expected default page size %d, got %d", domain.DefaultPageSize, result.PageSize)
	}
	if result.TotalItems != 12 || result.TotalPages != 2 {
		t.Errorf("Expected 12 items over 2 pages, got %d/%d", result.TotalItems, result.TotalPages)
	}
	if len(result.Data) != 10 {
		t.Fatalf("Expected 10 rows on page 1, got %d", len(result.Data))
	}
	if result.Data[0].TransactionDate.Day() != 12 {
		t.Errorf("Expected newest first, got day %d", result.Data[0].TransactionDate.Day())
	}

	page2, err := transactionService.GetTransactions(context.Background(), userID, &domain.TransactionFilters{Sort: domain.SortLatest, Page: 2})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(page2.Data) != 2 {
		t.Errorf("Expected 2 rows on page 2, got %d", len(page2.Data))
	}
}

func TestGetTransactions_EqualAmountTieBrokenByID(t *testing.T) {
	transactionService, _, transactionRepo, userID := newTransactionTestFixture()

	date := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 3; i++ {
		transactionRepo.AddTransaction(&domain.Transaction{
			ID:              int32(i),
			UserID:          userID,
			Name:            "Same",
			Category:        domain.CategoryGeneral,
			Amount:          decimal.NewFromInt(-20),
			TransactionDate: date,
		})
	}

	result, err := transactionService.GetTransactions(context.Background(), userID, &domain.TransactionFilters{Sort: domain.SortHighest})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	for i, tx := range result.Data {
		if tx.ID != int32(i+1) {
			t.Fatalf("Expected deterministic id ascending tie-break, got %d at position %d", tx.ID, i)
		}
	}
}

func TestGetTransactions_SearchIsCaseInsensitive(t *testing.T) {
	transactionService, _, transactionRepo, userID := newTransactionTestFixture()

	transactionRepo.AddTransaction(&domain.Transaction{ID: 1, UserID: userID, Name: "Coffee shop", Category: domain.CategoryDiningOut, Amount: decimal.NewFromInt(-4), TransactionDate: time.Now()})
	transactionRepo.AddTransaction(&domain.Transaction{ID: 2, UserID: userID, Name: "Bookstore", Category: domain.CategoryShopping, Amount: decimal.NewFromInt(-12), TransactionDate: time.Now()})

	result, err := transactionService.GetTransactions(context.Background(), userID, &domain.TransactionFilters{Search: "COFFEE"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.TotalItems != 1 || result.Data[0].Name != "Coffee shop" {
		t.Errorf("Expected the coffee entry only, got %d items", result.TotalItems)
	}
}

func TestCreateTransaction_UnknownUser(t *testing.T) {
	transactionService, _, _, _ := newTransactionTestFixture()

	_, _, err := transactionService.CreateTransaction(context.Background(), uuid.New(), CreateTransactionInput{
		Name:     "Salary",
		Category: domain.CategoryGeneral,
		Amount:   decimal.NewFromInt(100),
	})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("Expected ErrUserNotFound, got %v", err)
	}
}
