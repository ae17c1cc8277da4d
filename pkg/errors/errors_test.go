package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorWrapsUnknown(t *testing.T) {
	err := FromError(errors.New("boom"))
	assert.Equal(t, ErrInternal.Code, err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
}

func TestIsMatchesByCode(t *testing.T) {
	cloned := Clone(ErrTerminalState, "withdraw rejected: application is in a terminal state")
	wrapped := fmt.Errorf("service: %w", cloned)

	assert.True(t, Is(wrapped, ErrTerminalState))
	assert.False(t, Is(wrapped, ErrStageMismatch))
	assert.False(t, Is(nil, ErrTerminalState))
	assert.Contains(t, cloned.Error(), "terminal state")
}
