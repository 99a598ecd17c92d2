package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorUnwrap(t *testing.T) {
	err := PassInProgress()

	assert.ErrorIs(t, err, ErrPassRunning)
	assert.Equal(t, http.StatusConflict, err.Status)
	assert.Equal(t, "PASS_IN_PROGRESS", err.Code)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "app error", err: NotFound("product", "7"), expected: http.StatusNotFound},
		{name: "wrapped sentinel", err: fmt.Errorf("load: %w", ErrNotFound), expected: http.StatusNotFound},
		{name: "pass running sentinel", err: ErrPassRunning, expected: http.StatusConflict},
		{name: "invalid input", err: InvalidInput("bad"), expected: http.StatusBadRequest},
		{name: "unknown error", err: errors.New("boom"), expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

func TestWrapPreservesChain(t *testing.T) {
	base := errors.New("base")
	wrapped := Wrap(base, "context")

	assert.ErrorIs(t, wrapped, base)
	assert.Contains(t, wrapped.Error(), "context")
}
