package service

import (
	"context"

	"github.com/centavo/centavo-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BalanceService is the only component permitted to change a user's balance.
// Every mutation is a signed delta applied as a store-native atomic
// increment, so concurrent deltas on the same user accumulate without lost
// updates.
type BalanceService struct {
	userRepo domain.UserRepository
}

// NewBalanceService creates a new BalanceService
func NewBalanceService(userRepo domain.UserRepository) *BalanceService {
	return &BalanceService{userRepo: userRepo}
}

// ApplyDelta applies a signed delta to the user's balance and returns the new
// balance. No floor is imposed; callers that require one must check before
// calling. Store failures are surfaced unmodified so callers can make
// retry/rollback decisions.
func (s *BalanceService) ApplyDelta(ctx context.Context, userID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	return s.userRepo.ApplyBalanceDelta(ctx, userID, delta)
}

// GetBalance returns the user's current balance
func (s *BalanceService) GetBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return user.Balance, nil
}
