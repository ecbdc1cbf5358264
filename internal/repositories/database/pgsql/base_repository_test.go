package pgsql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/SscSPs/cashbook_ledger/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"serialization failure", &pgconn.PgError{Code: pgSerializationFailure}, true},
		{"deadlock wrapped by commit", apperrors.NewAppError(500, "failed to commit transaction", &pgconn.PgError{Code: pgDeadlockDetected}), true},
		{"unique violation", &pgconn.PgError{Code: pgUniqueViolation}, false},
		{"plain error", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryable(tt.err))
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: idempotencyIndex})

	assert.True(t, isUniqueViolation(err, idempotencyIndex))
	assert.True(t, isUniqueViolation(err, ""))
	assert.False(t, isUniqueViolation(err, voucherConstraint))
	assert.False(t, isUniqueViolation(errors.New("x"), ""))
}

func TestNotFoundOr(t *testing.T) {
	assert.ErrorIs(t, notFoundOr(pgx.ErrNoRows, "entry %s", "e1"), apperrors.ErrNotFound)

	cause := errors.New("conn lost")
	err := notFoundOr(cause, "entry %s", "e1")
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRetryDelayGrows(t *testing.T) {
	assert.Less(t, retryDelay(1), retryDelay(3))
}
