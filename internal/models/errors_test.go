package models

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorListsEveryProblem(t *testing.T) {
	err := NewValidationError("start is invalid", "end must be after start")

	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, "invalid argument: start is invalid; end must be after start", err.Error())
}

func TestTypedErrorsSurviveWrapping(t *testing.T) {
	ref := fmt.Errorf("admission failed: %w", &ReferenceError{Entity: "chalet", ID: 9})
	assert.ErrorIs(t, ref, ErrReferentialIntegrity)
	assert.Contains(t, ref.Error(), "chalet 9 does not exist")

	conflict := fmt.Errorf("admission failed: %w", &ConflictError{
		ChaletID:      1,
		ReservationID: 4,
		Start:         NewDate(2024, time.December, 1),
		End:           NewDate(2024, time.December, 5),
	})
	assert.ErrorIs(t, conflict, ErrSchedulingConflict)

	var ce *ConflictError
	assert.True(t, errors.As(conflict, &ce))
	assert.Equal(t, int64(4), ce.ReservationID)
	assert.Contains(t, ce.Error(), "2024-12-01 to 2024-12-05")
}
