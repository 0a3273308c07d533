package service

import (
	"context"
	"sync"
	"time"

	"github.com/centavo/centavo-backend/internal/domain"
	"github.com/rs/zerolog"
)

// Reconciler is a background worker that replays transfer-log entries whose
// compensation never completed. A "failed" entry means the first half of a
// two-document movement was applied and neither the second half nor the
// reversal went through; until replayed, pot totals and the balance disagree.
type Reconciler struct {
	logRepo        domain.TransferLogRepository
	potRepo        domain.PotRepository
	balanceService *BalanceService
	logger         zerolog.Logger
	interval       time.Duration
	staleAfter     time.Duration
	batchSize      int32
	stopCh         chan struct{}
	doneCh         chan struct{}
	mu             sync.Mutex
	running        bool
}

// ReconcilerConfig holds configuration for the reconciler
type ReconcilerConfig struct {
	Interval   time.Duration // how often to scan the transfer log
	StaleAfter time.Duration // age after which a pending entry is suspicious
	BatchSize  int32         // max entries replayed per scan
}

// DefaultReconcilerConfig returns sensible defaults
func DefaultReconcilerConfig() ReconcilerConfig {
	return ReconcilerConfig{
		Interval:   time.Minute,
		StaleAfter: 5 * time.Minute,
		BatchSize:  100,
	}
}

// NewReconciler creates a new Reconciler
func NewReconciler(
	logRepo domain.TransferLogRepository,
	potRepo domain.PotRepository,
	balanceService *BalanceService,
	logger zerolog.Logger,
	config ReconcilerConfig,
) *Reconciler {
	if config.Interval <= 0 {
		config.Interval = time.Minute
	}
	if config.StaleAfter <= 0 {
		config.StaleAfter = 5 * time.Minute
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 100
	}

	return &Reconciler{
		logRepo:        logRepo,
		potRepo:        potRepo,
		balanceService: balanceService,
		logger:         logger.With().Str("component", "reconciler").Logger(),
		interval:       config.Interval,
		staleAfter:     config.StaleAfter,
		batchSize:      config.BatchSize,
		stopCh:         make(chan struct{}),
		doneCh:         make(chan struct{}),
	}
}

// Start begins the background reconciliation loop
func (r *Reconciler) Start(ctx context.Context) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	r.logger.Info().Dur("interval", r.interval).Msg("Starting reconciler")
	go r.run(ctx)
}

// Stop gracefully stops the reconciler
func (r *Reconciler) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	close(r.stopCh)
	<-r.doneCh
}

func (r *Reconciler) run(ctx context.Context) {
	defer close(r.doneCh)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.RunOnce(ctx)
		case <-r.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// RunOnce performs a single reconciliation scan
func (r *Reconciler) RunOnce(ctx context.Context) {
	failed, err := r.logRepo.ListFailed(ctx, r.batchSize)
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to list failed transfers")
	} else {
		for _, entry := range failed {
			r.replay(ctx, entry)
		}
	}

	cutoff := time.Now().Add(-r.staleAfter)
	stale, err := r.logRepo.ListStalePending(ctx, cutoff, r.batchSize)
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to list stale pending transfers")
		return
	}
	for _, entry := range stale {
		// A pending entry this old means a crash between the two document
		// writes. Which side applied cannot be decided from the log alone,
		// so it is flagged for operator follow-up rather than auto-replayed.
		r.logger.Warn().
			Str("transfer_id", entry.ID.String()).
			Str("user_id", entry.UserID.String()).
			Int32("pot_id", entry.PotID).
			Str("direction", string(entry.Direction)).
			Str("amount", entry.Amount.String()).
			Time("created_at", entry.CreatedAt).
			Msg("Stale pending transfer requires manual reconciliation")
	}
}

// replay re-runs the compensating reversal for a failed entry. Failed means
// the pot side (or, for flush, the balance credit) was applied and stuck.
func (r *Reconciler) replay(ctx context.Context, entry *domain.TransferLog) {
	var err error
	switch entry.Direction {
	case domain.TransferDeposit:
		_, err = r.potRepo.AddToTotal(ctx, entry.PotID, entry.Amount.Neg())
	case domain.TransferWithdraw:
		_, err = r.potRepo.AddToTotal(ctx, entry.PotID, entry.Amount)
	case domain.TransferFlush:
		_, err = r.balanceService.ApplyDelta(ctx, entry.UserID, entry.Amount.Neg())
	}
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("transfer_id", entry.ID.String()).
			Str("direction", string(entry.Direction)).
			Msg("Transfer replay failed, will retry next scan")
		return
	}

	if err := r.logRepo.SetState(ctx, entry.ID, domain.TransferCompensated); err != nil {
		r.logger.Error().Err(err).Str("transfer_id", entry.ID.String()).Msg("Failed to mark replayed transfer compensated")
		return
	}

	r.logger.Info().
		Str("transfer_id", entry.ID.String()).
		Str("direction", string(entry.Direction)).
		Str("amount", entry.Amount.String()).
		Msg("Replayed failed transfer compensation")
}
