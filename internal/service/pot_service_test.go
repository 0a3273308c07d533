package service

import (
	"context"
	"errors"
	"testing"

	"github.com/centavo/centavo-backend/internal/domain"
	"github.com/centavo/centavo-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newPotTestFixture() (*PotService, *testutil.MockUserRepository, *testutil.MockPotRepository, *testutil.MockTransferLogRepository, uuid.UUID) {
	userRepo := testutil.NewMockUserRepository()
	potRepo := testutil.NewMockPotRepository()
	logRepo := testutil.NewMockTransferLogRepository()
	potService := NewPotService(potRepo, logRepo, NewBalanceService(userRepo))

	userID := uuid.New()
	userRepo.AddUser(&domain.User{
		ID:      userID,
		Email:   "ana@example.com",
		Name:    "Ana",
		Balance: decimal.NewFromInt(500),
	})

	return potService, userRepo, potRepo, logRepo, userID
}

func TestCreatePot_Success(t *testing.T) {
	potService, _, _, _, userID := newPotTestFixture()

	pot, err := potService.CreatePot(context.Background(), userID, CreatePotInput{
		Name:   "Vacation",
		Target: decimal.NewFromInt(2000),
		Theme:  domain.ThemeGreen,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if pot.Name != "Vacation" {
		t.Errorf("Expected name 'Vacation', got %s", pot.Name)
	}
	if !pot.Total.IsZero() {
		t.Errorf("Expected new pot total 0, got %s", pot.Total.String())
	}
}

func TestCreatePot_Validation(t *testing.T) {
	potService, _, _, _, userID := newPotTestFixture()
	ctx := context.Background()

	if _, err := potService.CreatePot(ctx, userID, CreatePotInput{Name: "  ", Target: decimal.NewFromInt(10), Theme: domain.ThemeGreen}); !errors.Is(err, domain.ErrNameRequired) {
		t.Errorf("Expected ErrNameRequired, got %v", err)
	}
	if _, err := potService.CreatePot(ctx, userID, CreatePotInput{Name: "Pot", Target: decimal.NewFromInt(10), Theme: "mauve"}); !errors.Is(err, domain.ErrInvalidTheme) {
		t.Errorf("Expected ErrInvalidTheme, got %v", err)
	}
	if _, err := potService.CreatePot(ctx, userID, CreatePotInput{Name: "Pot", Target: decimal.NewFromInt(-1), Theme: domain.ThemeGreen}); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}
}

func TestDeposit_MovesMoneyAndConservesTotal(t *testing.T) {
	potService, userRepo, potRepo, _, userID := newPotTestFixture()
	potRepo.AddPot(&domain.Pot{ID: 1, UserID: userID, Name: "Vacation", Target: decimal.NewFromInt(2000), Total: decimal.Zero, Theme: domain.ThemeGreen})

	result, err := potService.Deposit(context.Background(), userID, 1, decimal.NewFromInt(120), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !result.Pot.Total.Equal(decimal.NewFromInt(120)) {
		t.Errorf("Expected pot total 120, got %s", result.Pot.Total.String())
	}
	if !result.NewBalance.Equal(decimal.NewFromInt(380)) {
		t.Errorf("Expected balance 380, got %s", result.NewBalance.String())
	}

	// balance + pot total is unchanged by the transfer
	sum := result.NewBalance.Add(result.Pot.Total)
	if !sum.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Expected conserved sum 500, got %s", sum.String())
	}
	if !userRepo.Users[userID].Balance.Equal(decimal.NewFromInt(380)) {
		t.Errorf("Stored balance diverged: %s", userRepo.Users[userID].Balance.String())
	}
}

func TestWithdraw_InsufficientFunds(t *testing.T) {
	potService, userRepo, potRepo, _, userID := newPotTestFixture()
	potRepo.AddPot(&domain.Pot{ID: 1, UserID: userID, Name: "Vacation", Total: decimal.NewFromInt(50), Theme: domain.ThemeGreen})

	_, err := potService.Withdraw(context.Background(), userID, 1, decimal.NewFromInt(80), nil)
	if !errors.Is(err, domain.ErrInsufficientPotFunds) {
		t.Fatalf("Expected ErrInsufficientPotFunds, got %v", err)
	}

	// Nothing moved
	if !potRepo.Pots[1].Total.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Expected pot total unchanged at 50, got %s", potRepo.Pots[1].Total.String())
	}
	if !userRepo.Users[userID].Balance.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Expected balance unchanged at 500, got %s", userRepo.Users[userID].Balance.String())
	}
}

func TestTransfer_AmountValidation(t *testing.T) {
	potService, _, potRepo, _, userID := newPotTestFixture()
	potRepo.AddPot(&domain.Pot{ID: 1, UserID: userID, Name: "Vacation", Theme: domain.ThemeGreen})
	ctx := context.Background()

	if _, err := potService.Deposit(ctx, userID, 1, decimal.Zero, nil); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("Expected ErrInvalidAmount for zero, got %v", err)
	}
	if _, err := potService.Deposit(ctx, userID, 1, decimal.NewFromInt(-5), nil); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("Expected ErrInvalidAmount for negative, got %v", err)
	}
	if _, err := potService.Deposit(ctx, userID, 1, MaxTransferAmount.Add(decimal.NewFromInt(1)), nil); !errors.Is(err, domain.ErrAmountTooLarge) {
		t.Errorf("Expected ErrAmountTooLarge, got %v", err)
	}
}

func TestDeposit_UnknownPot(t *testing.T) {
	potService, _, _, _, userID := newPotTestFixture()

	_, err := potService.Deposit(context.Background(), userID, 99, decimal.NewFromInt(10), nil)
	if !errors.Is(err, domain.ErrPotNotFound) {
		t.Fatalf("Expected ErrPotNotFound, got %v", err)
	}
}

func TestDeposit_CompensatesWhenBalanceDeltaFails(t *testing.T) {
	potService, userRepo, potRepo, logRepo, userID := newPotTestFixture()
	potRepo.AddPot(&domain.Pot{ID: 1, UserID: userID, Name: "Vacation", Total: decimal.NewFromInt(100), Theme: domain.ThemeGreen})

	balanceErr := errors.New("store timeout")
	userRepo.ApplyBalanceDeltaFn = func(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
		return decimal.Zero, balanceErr
	}

	_, err := potService.Deposit(context.Background(), userID, 1, decimal.NewFromInt(40), nil)
	if !errors.Is(err, balanceErr) {
		t.Fatalf("Expected the balance failure to surface, got %v", err)
	}

	// The pot-side increment was reversed
	if !potRepo.Pots[1].Total.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected pot total restored to 100, got %s", potRepo.Pots[1].Total.String())
	}

	// The log entry records the compensation
	var found bool
	for _, entry := range logRepo.Entries {
		if entry.State == domain.TransferCompensated {
			found = true
		}
	}
	if !found {
		t.Error("Expected a compensated transfer log entry")
	}
}

func TestDeposit_FailedCompensationReturnsTransferFailed(t *testing.T) {
	potService, userRepo, potRepo, logRepo, userID := newPotTestFixture()
	potRepo.AddPot(&domain.Pot{ID: 1, UserID: userID, Name: "Vacation", Total: decimal.NewFromInt(100), Theme: domain.ThemeGreen})

	userRepo.ApplyBalanceDeltaFn = func(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
		return decimal.Zero, errors.New("store timeout")
	}

	// First AddToTotal succeeds, the compensating reversal fails
	calls := 0
	potRepo.AddToTotalFn = func(ctx context.Context, id int32, amount decimal.Decimal) (decimal.Decimal, error) {
		calls++
		if calls == 1 {
			pot := potRepo.Pots[id]
			pot.Total = pot.Total.Add(amount)
			return pot.Total, nil
		}
		return decimal.Zero, errors.New("store still down")
	}

	_, err := potService.Deposit(context.Background(), userID, 1, decimal.NewFromInt(40), nil)
	if !errors.Is(err, domain.ErrTransferFailed) {
		t.Fatalf("Expected ErrTransferFailed, got %v", err)
	}

	// The entry is left failed for the reconciler
	failed, listErr := logRepo.ListFailed(context.Background(), 10)
	if listErr != nil {
		t.Fatalf("Unexpected error listing failed entries: %v", listErr)
	}
	if len(failed) != 1 {
		t.Fatalf("Expected 1 failed entry, got %d", len(failed))
	}
	if failed[0].Direction != domain.TransferDeposit || !failed[0].Amount.Equal(decimal.NewFromInt(40)) {
		t.Errorf("Failed entry does not describe the half-applied deposit: %+v", failed[0])
	}
}

func TestDeposit_IdempotentReplay(t *testing.T) {
	potService, userRepo, potRepo, _, userID := newPotTestFixture()
	potRepo.AddPot(&domain.Pot{ID: 1, UserID: userID, Name: "Vacation", Total: decimal.Zero, Theme: domain.ThemeGreen})

	key := "retry-abc"
	first, err := potService.Deposit(context.Background(), userID, 1, decimal.NewFromInt(25), &key)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	second, err := potService.Deposit(context.Background(), userID, 1, decimal.NewFromInt(25), &key)
	if err != nil {
		t.Fatalf("Expected replay to succeed, got %v", err)
	}

	if !second.Pot.Total.Equal(first.Pot.Total) || !second.NewBalance.Equal(first.NewBalance) {
		t.Errorf("Expected replay to return the recorded outcome, got total %s balance %s", second.Pot.Total.String(), second.NewBalance.String())
	}

	// Applied once, not twice
	if !potRepo.Pots[1].Total.Equal(decimal.NewFromInt(25)) {
		t.Errorf("Expected pot total 25, got %s", potRepo.Pots[1].Total.String())
	}
	if !userRepo.Users[userID].Balance.Equal(decimal.NewFromInt(475)) {
		t.Errorf("Expected balance 475, got %s", userRepo.Users[userID].Balance.String())
	}
}

func TestDeposit_KeyReusableAfterCompensatedAttempt(t *testing.T) {
	potService, userRepo, potRepo, logRepo, userID := newPotTestFixture()
	potRepo.AddPot(&domain.Pot{ID: 1, UserID: userID, Name: "Vacation", Total: decimal.Zero, Theme: domain.ThemeGreen})

	balanceErr := errors.New("store timeout")
	userRepo.ApplyBalanceDeltaFn = func(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
		return decimal.Zero, balanceErr
	}

	key := "retry-def"
	_, err := potService.Deposit(context.Background(), userID, 1, decimal.NewFromInt(40), &key)
	if !errors.Is(err, balanceErr) {
		t.Fatalf("Expected the balance failure to surface, got %v", err)
	}

	// The compensated attempt moved no money, so the key is free again
	userRepo.ApplyBalanceDeltaFn = nil
	result, err := potService.Deposit(context.Background(), userID, 1, decimal.NewFromInt(40), &key)
	if err != nil {
		t.Fatalf("Expected the retry to succeed, got %v", err)
	}

	if !result.Pot.Total.Equal(decimal.NewFromInt(40)) {
		t.Errorf("Expected pot total 40, got %s", result.Pot.Total.String())
	}
	if !userRepo.Users[userID].Balance.Equal(decimal.NewFromInt(460)) {
		t.Errorf("Expected balance 460, got %s", userRepo.Users[userID].Balance.String())
	}

	// The dead entry lost its key; the retry owns it now
	var compensated, completed *domain.TransferLog
	for _, entry := range logRepo.Entries {
		switch entry.State {
		case domain.TransferCompensated:
			compensated = entry
		case domain.TransferCompleted:
			completed = entry
		}
	}
	if compensated == nil || compensated.IdempotencyKey != nil {
		t.Error("Expected the compensated entry with its key released")
	}
	if completed == nil || completed.IdempotencyKey == nil || *completed.IdempotencyKey != key {
		t.Error("Expected a completed entry holding the key")
	}
}

func TestDeposit_IdempotencyKeyConflict(t *testing.T) {
	potService, _, potRepo, _, userID := newPotTestFixture()
	potRepo.AddPot(&domain.Pot{ID: 1, UserID: userID, Name: "Vacation", Total: decimal.Zero, Theme: domain.ThemeGreen})

	key := "retry-abc"
	if _, err := potService.Deposit(context.Background(), userID, 1, decimal.NewFromInt(25), &key); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Same key, different amount
	_, err := potService.Deposit(context.Background(), userID, 1, decimal.NewFromInt(30), &key)
	if !errors.Is(err, domain.ErrDuplicateRequest) {
		t.Fatalf("Expected ErrDuplicateRequest, got %v", err)
	}
}

func TestDeletePot_ReturnsFundsToBalance(t *testing.T) {
	potService, userRepo, potRepo, _, userID := newPotTestFixture()
	potRepo.AddPot(&domain.Pot{ID: 1, UserID: userID, Name: "Vacation", Total: decimal.NewFromInt(150), Theme: domain.ThemeGreen})

	result, err := potService.DeletePot(context.Background(), userID, 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !result.ReturnedAmount.Equal(decimal.NewFromInt(150)) {
		t.Errorf("Expected returned amount 150, got %s", result.ReturnedAmount.String())
	}
	if !result.NewBalance.Equal(decimal.NewFromInt(650)) {
		t.Errorf("Expected balance 650, got %s", result.NewBalance.String())
	}
	if _, ok := potRepo.Pots[1]; ok {
		t.Error("Expected pot to be deleted")
	}
	if !userRepo.Users[userID].Balance.Equal(decimal.NewFromInt(650)) {
		t.Errorf("Stored balance diverged: %s", userRepo.Users[userID].Balance.String())
	}
}

func TestDeletePot_EmptyPotSkipsTransfer(t *testing.T) {
	potService, userRepo, potRepo, logRepo, userID := newPotTestFixture()
	potRepo.AddPot(&domain.Pot{ID: 1, UserID: userID, Name: "Empty", Total: decimal.Zero, Theme: domain.ThemeGreen})

	result, err := potService.DeletePot(context.Background(), userID, 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !result.ReturnedAmount.IsZero() {
		t.Errorf("Expected zero returned amount, got %s", result.ReturnedAmount.String())
	}
	if !result.NewBalance.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Expected balance unchanged at 500, got %s", result.NewBalance.String())
	}
	if len(logRepo.Entries) != 0 {
		t.Errorf("Expected no transfer log entries for an empty pot, got %d", len(logRepo.Entries))
	}
	_ = userRepo
}

func TestDeletePot_FailClosedWhenCreditFails(t *testing.T) {
	potService, userRepo, potRepo, _, userID := newPotTestFixture()
	potRepo.AddPot(&domain.Pot{ID: 1, UserID: userID, Name: "Vacation", Total: decimal.NewFromInt(150), Theme: domain.ThemeGreen})

	creditErr := errors.New("store timeout")
	userRepo.ApplyBalanceDeltaFn = func(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
		return decimal.Zero, creditErr
	}

	_, err := potService.DeletePot(context.Background(), userID, 1)
	if !errors.Is(err, creditErr) {
		t.Fatalf("Expected the credit failure to surface, got %v", err)
	}

	// Pot still exists with its funds; nothing was destroyed
	if pot, ok := potRepo.Pots[1]; !ok || !pot.Total.Equal(decimal.NewFromInt(150)) {
		t.Error("Expected pot kept with its total after a failed credit")
	}
}

func TestDeletePot_ReversesCreditWhenDeleteFails(t *testing.T) {
	potService, userRepo, potRepo, logRepo, userID := newPotTestFixture()
	potRepo.AddPot(&domain.Pot{ID: 1, UserID: userID, Name: "Vacation", Total: decimal.NewFromInt(150), Theme: domain.ThemeGreen})

	deleteErr := errors.New("store timeout")
	potRepo.DeleteFn = func(ctx context.Context, uID uuid.UUID, id int32) error {
		return deleteErr
	}

	_, err := potService.DeletePot(context.Background(), userID, 1)
	if !errors.Is(err, deleteErr) {
		t.Fatalf("Expected the delete failure to surface, got %v", err)
	}

	// The credit was taken back
	if !userRepo.Users[userID].Balance.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Expected balance restored to 500, got %s", userRepo.Users[userID].Balance.String())
	}

	var compensated bool
	for _, entry := range logRepo.Entries {
		if entry.Direction == domain.TransferFlush && entry.State == domain.TransferCompensated {
			compensated = true
		}
	}
	if !compensated {
		t.Error("Expected a compensated flush entry")
	}
}

func TestUpdatePot_MetadataOnly(t *testing.T) {
	potService, _, potRepo, _, userID := newPotTestFixture()
	potRepo.AddPot(&domain.Pot{ID: 1, UserID: userID, Name: "Vacation", Total: decimal.NewFromInt(75), Theme: domain.ThemeGreen})

	name := "Holiday"
	theme := domain.ThemeCyan
	updated, err := potService.UpdatePot(context.Background(), userID, 1, UpdatePotInput{Name: &name, Theme: &theme})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if updated.Name != "Holiday" || updated.Theme != domain.ThemeCyan {
		t.Errorf("Expected updated metadata, got %s/%s", updated.Name, updated.Theme)
	}
	if !updated.Total.Equal(decimal.NewFromInt(75)) {
		t.Errorf("Expected total untouched at 75, got %s", updated.Total.String())
	}
}
