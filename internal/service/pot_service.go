package service

import (
	"context"
	"errors"
	"strings"

	"github.com/centavo/centavo-backend/internal/domain"
	"github.com/centavo/centavo-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// MaxTransferAmount caps a single pot movement. Amounts above it are rejected
// before any document is touched.
var MaxTransferAmount = decimal.NewFromInt(1_000_000_000)

// PotService implements pot transfers: every change to a pot total is paired
// with an opposite-signed balance delta. The pair is not wrapped in a store
// transaction; instead each movement is recorded in a durable transfer log,
// applied in two steps, and compensated on partial failure. A compensation
// that itself fails leaves a "failed" log entry for the reconciler.
type PotService struct {
	potRepo        domain.PotRepository
	logRepo        domain.TransferLogRepository
	balanceService *BalanceService
	eventPublisher websocket.EventPublisher
}

// NewPotService creates a new PotService
func NewPotService(potRepo domain.PotRepository, logRepo domain.TransferLogRepository, balanceService *BalanceService) *PotService {
	return &PotService{
		potRepo:        potRepo,
		logRepo:        logRepo,
		balanceService: balanceService,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *PotService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *PotService) publishEvent(userID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(userID, event)
	}
}

// CreatePotInput holds the input for creating a pot
type CreatePotInput struct {
	Name   string
	Target decimal.Decimal
	Theme  domain.Theme
}

// TransferResult is the outcome of a pot money movement
type TransferResult struct {
	Pot        *domain.Pot     `json:"pot"`
	NewBalance decimal.Decimal `json:"newBalance"`
}

// CreatePot creates a pot with total 0. No balance effect.
func (s *PotService) CreatePot(ctx context.Context, userID uuid.UUID, input CreatePotInput) (*domain.Pot, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	if !input.Theme.IsValid() {
		return nil, domain.ErrInvalidTheme
	}
	if input.Target.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	pot := &domain.Pot{
		UserID: userID,
		Name:   name,
		Target: input.Target,
		Total:  decimal.Zero,
		Theme:  input.Theme,
	}

	created, err := s.potRepo.Create(ctx, pot)
	if err != nil {
		return nil, err
	}
	s.publishEvent(userID, websocket.NewEvent(websocket.EventTypeCreated, websocket.EntityTypePot, created))
	return created, nil
}

// GetPots retrieves all pots for a user
func (s *PotService) GetPots(ctx context.Context, userID uuid.UUID) ([]*domain.Pot, error) {
	return s.potRepo.ListByUser(ctx, userID)
}

// UpdatePotInput holds a metadata-only pot update
type UpdatePotInput struct {
	Name   *string
	Target *decimal.Decimal
	Theme  *domain.Theme
}

// UpdatePot updates pot metadata. It never touches total or balance.
func (s *PotService) UpdatePot(ctx context.Context, userID uuid.UUID, id int32, input UpdatePotInput) (*domain.Pot, error) {
	data := &domain.UpdatePotData{Target: input.Target}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, domain.ErrNameRequired
		}
		if len(name) > domain.MaxNameLength {
			return nil, domain.ErrNameTooLong
		}
		data.Name = &name
	}
	if input.Target != nil && input.Target.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	if input.Theme != nil {
		if !input.Theme.IsValid() {
			return nil, domain.ErrInvalidTheme
		}
		data.Theme = input.Theme
	}

	updated, err := s.potRepo.UpdateMeta(ctx, userID, id, data)
	if err != nil {
		return nil, err
	}
	s.publishEvent(userID, websocket.NewEvent(websocket.EventTypeUpdated, websocket.EntityTypePot, updated))
	return updated, nil
}

// Deposit moves amount from the user's balance into the pot
func (s *PotService) Deposit(ctx context.Context, userID uuid.UUID, potID int32, amount decimal.Decimal, idempotencyKey *string) (*TransferResult, error) {
	return s.transfer(ctx, userID, potID, amount, domain.TransferDeposit, idempotencyKey)
}

// Withdraw moves amount from the pot back to the user's balance
func (s *PotService) Withdraw(ctx context.Context, userID uuid.UUID, potID int32, amount decimal.Decimal, idempotencyKey *string) (*TransferResult, error) {
	return s.transfer(ctx, userID, potID, amount, domain.TransferWithdraw, idempotencyKey)
}

func (s *PotService) transfer(ctx context.Context, userID uuid.UUID, potID int32, amount decimal.Decimal, direction domain.TransferDirection, idempotencyKey *string) (*TransferResult, error) {
	if err := validateTransferAmount(amount); err != nil {
		return nil, err
	}

	pot, err := s.potRepo.GetByID(ctx, userID, potID)
	if err != nil {
		return nil, err
	}

	if idempotencyKey != nil {
		if result, err := s.replayIdempotent(ctx, userID, potID, amount, direction, *idempotencyKey, pot); result != nil || err != nil {
			return result, err
		}
	}

	entry, err := s.logRepo.Create(ctx, &domain.TransferLog{
		UserID:         userID,
		PotID:          potID,
		Direction:      direction,
		Amount:         amount,
		State:          domain.TransferPending,
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		return nil, err
	}

	// Step one: move the pot total.
	var newTotal decimal.Decimal
	if direction == domain.TransferDeposit {
		newTotal, err = s.potRepo.AddToTotal(ctx, potID, amount)
	} else {
		newTotal, err = s.potRepo.TakeFromTotal(ctx, potID, amount)
	}
	if err != nil {
		// Nothing applied; the entry is a safe no-op.
		s.abortEntry(ctx, entry.ID)
		return nil, err
	}

	// Step two: the opposite-signed balance delta.
	balanceDelta := amount.Neg()
	if direction == domain.TransferWithdraw {
		balanceDelta = amount
	}
	newBalance, err := s.balanceService.ApplyDelta(ctx, userID, balanceDelta)
	if err != nil {
		return nil, s.compensatePot(ctx, entry, direction, amount, err)
	}

	if err := s.logRepo.Complete(ctx, entry.ID, newTotal, newBalance); err != nil {
		// Money is consistent; only the log record is behind.
		log.Error().Err(err).Str("transfer_id", entry.ID.String()).Msg("Failed to mark transfer completed")
	}

	pot.Total = newTotal
	s.publishEvent(userID, websocket.NewEvent(websocket.EventTypeUpdated, websocket.EntityTypePot, pot))
	s.publishEvent(userID, websocket.NewBalanceEvent(newBalance))

	return &TransferResult{Pot: pot, NewBalance: newBalance}, nil
}

// compensatePot reverses the pot-side change after the balance delta failed.
// Exactly one compensating attempt is made; if it fails the entry is marked
// failed for the reconciler and the caller sees ErrTransferFailed.
func (s *PotService) compensatePot(ctx context.Context, entry *domain.TransferLog, direction domain.TransferDirection, amount decimal.Decimal, cause error) error {
	reversal := amount.Neg()
	if direction == domain.TransferWithdraw {
		reversal = amount
	}
	if _, compErr := s.potRepo.AddToTotal(ctx, entry.PotID, reversal); compErr != nil {
		if stateErr := s.logRepo.SetState(ctx, entry.ID, domain.TransferFailedState); stateErr != nil {
			log.Error().Err(stateErr).Str("transfer_id", entry.ID.String()).Msg("Failed to mark transfer failed")
		}
		log.Error().
			Err(compErr).
			Str("transfer_id", entry.ID.String()).
			Str("user_id", entry.UserID.String()).
			Int32("pot_id", entry.PotID).
			Str("direction", string(direction)).
			Str("amount", amount.String()).
			AnErr("cause", cause).
			Msg("FATAL: pot transfer compensation failed, pot and balance are inconsistent until reconciled")
		return domain.ErrTransferFailed
	}

	if stateErr := s.logRepo.SetState(ctx, entry.ID, domain.TransferCompensated); stateErr != nil {
		log.Error().Err(stateErr).Str("transfer_id", entry.ID.String()).Msg("Failed to mark transfer compensated")
	}
	return cause
}

// replayIdempotent short-circuits a retried transfer. A completed entry with
// the same key, pot, direction and amount returns the recorded outcome; any
// other match is a conflicting reuse of the key.
func (s *PotService) replayIdempotent(ctx context.Context, userID uuid.UUID, potID int32, amount decimal.Decimal, direction domain.TransferDirection, key string, pot *domain.Pot) (*TransferResult, error) {
	existing, err := s.logRepo.GetByIdempotencyKey(ctx, userID, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	switch existing.State {
	case domain.TransferCompleted:
		if existing.PotID == potID &&
			existing.Direction == direction &&
			existing.Amount.Equal(amount) &&
			existing.ResultTotal != nil && existing.ResultBalance != nil {
			replayed := *pot
			replayed.Total = *existing.ResultTotal
			return &TransferResult{Pot: &replayed, NewBalance: *existing.ResultBalance}, nil
		}
	case domain.TransferAborted, domain.TransferCompensated:
		// The earlier attempt moved no money; free the key so this retry can
		// run as a fresh transfer.
		if err := s.logRepo.ReleaseKey(ctx, existing.ID); err != nil {
			return nil, err
		}
		return nil, nil
	}
	// Pending entries are still in flight; failed ones hold inconsistent
	// money until the reconciler compensates them. Both keep the key burned.
	return nil, domain.ErrDuplicateRequest
}

// DeletePotResult reports the funds a pot deletion moved back to the balance
type DeletePotResult struct {
	ReturnedAmount decimal.Decimal `json:"returnedAmount"`
	NewBalance     decimal.Decimal `json:"newBalance"`
}

// DeletePot credits the pot's full total back to the user's balance, then
// removes the record. If the credit fails the pot is kept (fail closed):
// deleting first would destroy money.
func (s *PotService) DeletePot(ctx context.Context, userID uuid.UUID, potID int32) (*DeletePotResult, error) {
	pot, err := s.potRepo.GetByID(ctx, userID, potID)
	if err != nil {
		return nil, err
	}

	if pot.Total.IsZero() {
		if err := s.potRepo.Delete(ctx, userID, potID); err != nil {
			return nil, err
		}
		balance, err := s.balanceService.GetBalance(ctx, userID)
		if err != nil {
			return nil, err
		}
		s.publishEvent(userID, websocket.NewEvent(websocket.EventTypeDeleted, websocket.EntityTypePot, pot))
		return &DeletePotResult{ReturnedAmount: decimal.Zero, NewBalance: balance}, nil
	}

	entry, err := s.logRepo.Create(ctx, &domain.TransferLog{
		UserID:    userID,
		PotID:     potID,
		Direction: domain.TransferFlush,
		Amount:    pot.Total,
		State:     domain.TransferPending,
	})
	if err != nil {
		return nil, err
	}

	newBalance, err := s.balanceService.ApplyDelta(ctx, userID, pot.Total)
	if err != nil {
		s.abortEntry(ctx, entry.ID)
		return nil, err
	}

	if err := s.potRepo.Delete(ctx, userID, potID); err != nil {
		// The credit went through but the pot remains; take the money back so
		// it is not counted twice.
		if _, compErr := s.balanceService.ApplyDelta(ctx, userID, pot.Total.Neg()); compErr != nil {
			if stateErr := s.logRepo.SetState(ctx, entry.ID, domain.TransferFailedState); stateErr != nil {
				log.Error().Err(stateErr).Str("transfer_id", entry.ID.String()).Msg("Failed to mark transfer failed")
			}
			log.Error().
				Err(compErr).
				Str("transfer_id", entry.ID.String()).
				Str("user_id", userID.String()).
				Int32("pot_id", potID).
				Str("amount", pot.Total.String()).
				AnErr("cause", err).
				Msg("FATAL: pot delete compensation failed, balance was credited twice until reconciled")
			return nil, domain.ErrTransferFailed
		}
		if stateErr := s.logRepo.SetState(ctx, entry.ID, domain.TransferCompensated); stateErr != nil {
			log.Error().Err(stateErr).Str("transfer_id", entry.ID.String()).Msg("Failed to mark transfer compensated")
		}
		return nil, err
	}

	if err := s.logRepo.Complete(ctx, entry.ID, decimal.Zero, newBalance); err != nil {
		log.Error().Err(err).Str("transfer_id", entry.ID.String()).Msg("Failed to mark transfer completed")
	}

	s.publishEvent(userID, websocket.NewEvent(websocket.EventTypeDeleted, websocket.EntityTypePot, pot))
	s.publishEvent(userID, websocket.NewBalanceEvent(newBalance))
	return &DeletePotResult{ReturnedAmount: pot.Total, NewBalance: newBalance}, nil
}

func (s *PotService) abortEntry(ctx context.Context, id uuid.UUID) {
	if err := s.logRepo.SetState(ctx, id, domain.TransferAborted); err != nil {
		log.Error().Err(err).Str("transfer_id", id.String()).Msg("Failed to mark transfer aborted")
	}
}

func validateTransferAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidAmount
	}
	if amount.GreaterThan(MaxTransferAmount) {
		return domain.ErrAmountTooLarge
	}
	return nil
}
