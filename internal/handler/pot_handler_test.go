package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/centavo/centavo-backend/internal/domain"
	"github.com/centavo/centavo-backend/internal/middleware"
	"github.com/centavo/centavo-backend/internal/service"
	"github.com/centavo/centavo-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// setIdentity places the user ID in the request context the way the
// identity middleware does.
func setIdentity(c echo.Context, userID uuid.UUID) {
	ctx := context.WithValue(c.Request().Context(), middleware.UserIDKey, userID)
	c.SetRequest(c.Request().WithContext(ctx))
}

func newPotHandlerFixture() (*PotHandler, *testutil.MockPotRepository, *testutil.MockUserRepository, uuid.UUID) {
	userRepo := testutil.NewMockUserRepository()
	potRepo := testutil.NewMockPotRepository()
	logRepo := testutil.NewMockTransferLogRepository()
	potService := service.NewPotService(potRepo, logRepo, service.NewBalanceService(userRepo))
	handler := NewPotHandler(potService)

	userID := uuid.New()
	userRepo.AddUser(&domain.User{
		ID:      userID,
		Email:   "ana@example.com",
		Name:    "Ana",
		Balance: decimal.NewFromInt(500),
	})

	return handler, potRepo, userRepo, userID
}

func TestCreatePotHandler_Success(t *testing.T) {
	e := echo.New()
	handler, _, _, userID := newPotHandlerFixture()

	reqBody := `{"name": "Vacation", "target": "800.00", "theme": "green"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pots", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setIdentity(c, userID)

	if err := handler.CreatePot(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", rec.Code)
	}

	var pot domain.Pot
	if err := json.Unmarshal(rec.Body.Bytes(), &pot); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if pot.Name != "Vacation" {
		t.Errorf("Expected name 'Vacation', got %s", pot.Name)
	}
	if !pot.Total.IsZero() {
		t.Errorf("Expected zero total on creation, got %s", pot.Total)
	}
}

func TestCreatePotHandler_InvalidTarget(t *testing.T) {
	e := echo.New()
	handler, _, _, userID := newPotHandlerFixture()

	reqBody := `{"name": "Vacation", "target": "not-a-number", "theme": "green"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pots", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setIdentity(c, userID)

	if err := handler.CreatePot(c); err != nil {
		t.Fatalf("Expected handled response, got error %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestDepositHandler_Success(t *testing.T) {
	e := echo.New()
	handler, potRepo, userRepo, userID := newPotHandlerFixture()
	potRepo.AddPot(&domain.Pot{
		ID:     1,
		UserID: userID,
		Name:   "Vacation",
		Target: decimal.NewFromInt(800),
		Total:  decimal.Zero,
		Theme:  domain.ThemeGreen,
	})

	reqBody := `{"amount": "120.00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pots/1/deposit", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	setIdentity(c, userID)

	if err := handler.Deposit(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result service.TransferResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if !result.Pot.Total.Equal(decimal.NewFromInt(120)) {
		t.Errorf("Expected pot total 120, got %s", result.Pot.Total)
	}
	if !result.NewBalance.Equal(decimal.NewFromInt(380)) {
		t.Errorf("Expected new balance 380, got %s", result.NewBalance)
	}

	// The stored balance matches the response
	user, err := userRepo.GetByID(context.Background(), userID)
	if err != nil {
		t.Fatalf("Failed to load user: %v", err)
	}
	if !user.Balance.Equal(decimal.NewFromInt(380)) {
		t.Errorf("Expected stored balance 380, got %s", user.Balance)
	}
}

func TestWithdrawHandler_InsufficientFunds(t *testing.T) {
	e := echo.New()
	handler, potRepo, _, userID := newPotHandlerFixture()
	potRepo.AddPot(&domain.Pot{
		ID:     1,
		UserID: userID,
		Name:   "Vacation",
		Target: decimal.NewFromInt(800),
		Total:  decimal.NewFromInt(50),
		Theme:  domain.ThemeGreen,
	})

	reqBody := `{"amount": "75.00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pots/1/withdraw", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	setIdentity(c, userID)

	if err := handler.Withdraw(c); err != nil {
		t.Fatalf("Expected handled response, got error %v", err)
	}

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected status 422, got %d", rec.Code)
	}
}

func TestDepositHandler_IdempotencyKeyReplay(t *testing.T) {
	e := echo.New()
	handler, potRepo, _, userID := newPotHandlerFixture()
	potRepo.AddPot(&domain.Pot{
		ID:     1,
		UserID: userID,
		Name:   "Vacation",
		Target: decimal.NewFromInt(800),
		Total:  decimal.Zero,
		Theme:  domain.ThemeGreen,
	})

	deposit := func() (*httptest.ResponseRecorder, *service.TransferResult) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/pots/1/deposit", strings.NewReader(`{"amount": "60.00"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(IdempotencyKeyHeader, "retry-abc")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("1")
		setIdentity(c, userID)

		if err := handler.Deposit(c); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		var result service.TransferResult
		if rec.Code == http.StatusOK {
			if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
				t.Fatalf("Failed to unmarshal response: %v", err)
			}
		}
		return rec, &result
	}

	rec1, first := deposit()
	if rec1.Code != http.StatusOK {
		t.Fatalf("First deposit: expected 200, got %d", rec1.Code)
	}

	rec2, second := deposit()
	if rec2.Code != http.StatusOK {
		t.Fatalf("Replayed deposit: expected 200, got %d", rec2.Code)
	}

	// The replay returns the original outcome without moving money again
	if !second.NewBalance.Equal(first.NewBalance) {
		t.Errorf("Expected replayed balance %s, got %s", first.NewBalance, second.NewBalance)
	}

	pot, err := potRepo.GetByID(context.Background(), userID, 1)
	if err != nil {
		t.Fatalf("Failed to load pot: %v", err)
	}
	if !pot.Total.Equal(decimal.NewFromInt(60)) {
		t.Errorf("Expected pot total 60 after replay, got %s", pot.Total)
	}

	// The same key with a different amount is a conflicting reuse
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pots/1/deposit", strings.NewReader(`{"amount": "99.00"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(IdempotencyKeyHeader, "retry-abc")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	setIdentity(c, userID)

	if err := handler.Deposit(c); err != nil {
		t.Fatalf("Expected handled response, got error %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected status 409 for a conflicting key reuse, got %d", rec.Code)
	}
}

func TestDeletePotHandler_ReturnsFunds(t *testing.T) {
	e := echo.New()
	handler, potRepo, userRepo, userID := newPotHandlerFixture()
	potRepo.AddPot(&domain.Pot{
		ID:     1,
		UserID: userID,
		Name:   "Vacation",
		Target: decimal.NewFromInt(800),
		Total:  decimal.NewFromInt(150),
		Theme:  domain.ThemeGreen,
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/pots/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	setIdentity(c, userID)

	if err := handler.DeletePot(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response service.DeletePotResult
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if !response.ReturnedAmount.Equal(decimal.NewFromInt(150)) {
		t.Errorf("Expected returned amount 150, got %s", response.ReturnedAmount)
	}
	if !response.NewBalance.Equal(decimal.NewFromInt(650)) {
		t.Errorf("Expected new balance 650, got %s", response.NewBalance)
	}

	user, err := userRepo.GetByID(context.Background(), userID)
	if err != nil {
		t.Fatalf("Failed to load user: %v", err)
	}
	if !user.Balance.Equal(decimal.NewFromInt(650)) {
		t.Errorf("Expected balance 650 after delete, got %s", user.Balance)
	}
}

func TestDepositHandler_StoreUnavailable(t *testing.T) {
	e := echo.New()
	handler, potRepo, _, userID := newPotHandlerFixture()
	potRepo.AddPot(&domain.Pot{
		ID:     1,
		UserID: userID,
		Name:   "Vacation",
		Target: decimal.NewFromInt(800),
		Total:  decimal.Zero,
		Theme:  domain.ThemeGreen,
	})
	potRepo.AddToTotalFn = func(ctx context.Context, id int32, amount decimal.Decimal) (decimal.Decimal, error) {
		return decimal.Zero, domain.ErrStoreUnavailable
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pots/1/deposit", strings.NewReader(`{"amount": "20.00"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	setIdentity(c, userID)

	if err := handler.Deposit(c); err != nil {
		t.Fatalf("Expected handled response, got error %v", err)
	}

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Expected Retry-After header on a transient store failure")
	}
}

func TestPotHandlers_UnknownPot(t *testing.T) {
	e := echo.New()
	handler, _, _, userID := newPotHandlerFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pots/99/deposit", strings.NewReader(`{"amount": "10.00"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("99")
	setIdentity(c, userID)

	if err := handler.Deposit(c); err != nil {
		t.Fatalf("Expected handled response, got error %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
