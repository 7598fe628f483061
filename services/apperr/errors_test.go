package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOfWrapped(t *testing.T) {
	err := fmt.Errorf("reserve: %w", NewSlotUnavailable("slot-1"))

	assert.Equal(t, SlotUnavailable, CodeOf(err))
	assert.True(t, Is(err, SlotUnavailable))
	assert.False(t, Is(err, SlotInUse))
	assert.Equal(t, Code(""), CodeOf(errors.New("plain")))
	assert.False(t, Is(nil, SlotUnavailable))
}

func TestWithDoesNotMutateOriginal(t *testing.T) {
	base := New(Validation, "bad input")
	withField := base.With("field", "date")

	assert.Nil(t, base.Details)
	assert.Equal(t, "date", withField.Details["field"])
}

func TestInvalidTransitionDetails(t *testing.T) {
	err := NewInvalidTransition("Completed", "Pending")

	assert.Equal(t, "Completed", err.Details["currentStatus"])
	assert.Equal(t, "Pending", err.Details["requestedStatus"])
	assert.Contains(t, err.Error(), "InvalidTransition")
}
