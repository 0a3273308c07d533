package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/centavo/centavo-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestStoreError_TransientFailures(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"deadline exceeded", context.DeadlineExceeded},
		{"wrapped deadline", fmt.Errorf("query: %w", context.DeadlineExceeded)},
		{"connection failure", &pgconn.PgError{Code: "08006"}},
		{"connection refused", &pgconn.PgError{Code: "08001"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !errors.Is(storeError(tc.err), domain.ErrStoreUnavailable) {
				t.Errorf("Expected %v to classify as store unavailable", tc.err)
			}
		})
	}
}

func TestStoreError_PassesThroughOtherErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"no rows", pgx.ErrNoRows},
		{"unique violation", &pgconn.PgError{Code: "23505"}},
		{"plain error", errors.New("boom")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := storeError(tc.err)
			if !errors.Is(got, tc.err) {
				t.Errorf("Expected %v unchanged, got %v", tc.err, got)
			}
			if errors.Is(got, domain.ErrStoreUnavailable) {
				t.Errorf("Expected %v not to classify as store unavailable", tc.err)
			}
		})
	}

	if storeError(nil) != nil {
		t.Error("Expected nil to stay nil")
	}
}
