package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorUnwrapsToSentinel(t *testing.T) {
	err := fmt.Errorf("reverse entry: %w", NewConflictError("entry %s already reversed", "e1"))

	assert.True(t, errors.Is(err, ErrConflict))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "already reversed")
}

func TestAppErrorKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewAppError(http.StatusInternalServerError, "failed to begin transaction", cause)

	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, ErrInternal))
	assert.Equal(t, "failed to begin transaction: connection reset", err.Error())
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found sentinel", fmt.Errorf("x: %w", ErrNotFound), http.StatusNotFound},
		{"validation app error", NewValidationError("bad"), http.StatusBadRequest},
		{"duplicate", ErrDuplicate, http.StatusConflict},
		{"forbidden", NewForbiddenError("no"), http.StatusForbidden},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
