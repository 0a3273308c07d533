package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferDirection identifies which pot movement a log entry records.
type TransferDirection string

const (
	TransferDeposit  TransferDirection = "deposit"
	TransferWithdraw TransferDirection = "withdraw"
	// TransferFlush is the credit of a pot's full total back to the balance
	// before the pot record is deleted.
	TransferFlush TransferDirection = "flush"
)

// TransferState tracks a two-document money movement through its lifecycle.
type TransferState string

const (
	// TransferPending: entry written, documents not yet both updated.
	TransferPending TransferState = "pending"
	// TransferCompleted: both sides applied.
	TransferCompleted TransferState = "completed"
	// TransferCompensated: the first side was reversed after the second
	// failed; no net money movement.
	TransferCompensated TransferState = "compensated"
	// TransferFailedState: the compensating reversal itself failed. Money is
	// inconsistent until the reconciler replays the reversal.
	TransferFailedState TransferState = "failed"
	// TransferAborted: nothing was applied; safe terminal state.
	TransferAborted TransferState = "aborted"
)

// TransferLog is the durable record of a pot/balance movement. It exists so a
// crashed or failed compensation can be replayed out of band instead of
// silently losing money, and doubles as the idempotency ledger for client
// retries.
type TransferLog struct {
	ID             uuid.UUID         `json:"id"`
	UserID         uuid.UUID         `json:"userId"`
	PotID          int32             `json:"potId"`
	Direction      TransferDirection `json:"direction"`
	Amount         decimal.Decimal   `json:"amount"`
	State          TransferState     `json:"state"`
	IdempotencyKey *string           `json:"idempotencyKey,omitempty"`
	ResultTotal    *decimal.Decimal  `json:"resultTotal,omitempty"`
	ResultBalance  *decimal.Decimal  `json:"resultBalance,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

type TransferLogRepository interface {
	Create(ctx context.Context, entry *TransferLog) (*TransferLog, error)
	SetState(ctx context.Context, id uuid.UUID, state TransferState) error
	// Complete marks the entry completed and records the resulting pot total
	// and balance for idempotent replays.
	Complete(ctx context.Context, id uuid.UUID, resultTotal, resultBalance decimal.Decimal) error
	GetByIdempotencyKey(ctx context.Context, userID uuid.UUID, key string) (*TransferLog, error)
	// ReleaseKey clears the idempotency key on a terminal entry that moved no
	// money, letting the caller retry with the same key.
	ReleaseKey(ctx context.Context, id uuid.UUID) error
	// ListFailed returns entries whose compensation must be replayed.
	ListFailed(ctx context.Context, limit int32) ([]*TransferLog, error)
	// ListStalePending returns pending entries older than cutoff; these
	// indicate a crash between the two document writes.
	ListStalePending(ctx context.Context, cutoff time.Time, limit int32) ([]*TransferLog, error)
}
