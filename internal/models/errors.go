package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrReferentialIntegrity = errors.New("referenced entity does not exist")
	ErrSchedulingConflict   = errors.New("chalet is already reserved in this period")
	ErrNotFound             = errors.New("not found")
	ErrAlreadyExists        = errors.New("already exists")
	ErrInUse                = errors.New("still referenced by reservations")
)

// ValidationError lists every problem found while validating one request.
type ValidationError struct {
	Problems []string
}

func NewValidationError(problems ...string) *ValidationError {
	return &ValidationError{Problems: problems}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidArgument, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidArgument }

// ReferenceError names the tenant or chalet id that failed to resolve.
type ReferenceError struct {
	Entity string
	ID     int64
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s %d does not exist", e.Entity, e.ID)
}

func (e *ReferenceError) Unwrap() error { return ErrReferentialIntegrity }

// ConflictError identifies the existing reservation a candidate collided with.
type ConflictError struct {
	ChaletID      int64
	ReservationID int64
	Start         Date
	End           Date
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("chalet %d is already reserved from %s to %s (reservation %d)",
		e.ChaletID, e.Start, e.End, e.ReservationID)
}

func (e *ConflictError) Unwrap() error { return ErrSchedulingConflict }
