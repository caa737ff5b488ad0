// Package admission decides whether a reservation may be stored. Every create
// or update runs its read-detect-write phase while holding the target
// chalet's lock, so two overlapping requests for one chalet can never both
// be admitted.
package admission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/galihcitta/chalet-reservation-system/internal/locking"
	"github.com/galihcitta/chalet-reservation-system/internal/metrics"
	"github.com/galihcitta/chalet-reservation-system/internal/models"
	"github.com/galihcitta/chalet-reservation-system/internal/scheduling"
	"github.com/galihcitta/chalet-reservation-system/internal/validation"
)

const (
	opCreate = "create"
	opUpdate = "update"
)

// ExistenceChecker resolves a tenant or chalet id.
type ExistenceChecker interface {
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// ReservationStore is the persistence contract admission relies on.
type ReservationStore interface {
	ListByChaletID(ctx context.Context, chaletID int64) ([]models.Reservation, error)
	Insert(ctx context.Context, reservation models.Reservation) (int64, error)
	UpdateInPlace(ctx context.Context, id int64, reservation models.Reservation) (bool, error)
	DeleteByID(ctx context.Context, id int64) (bool, error)
	FindAll(ctx context.Context) ([]models.Reservation, error)
	FindByID(ctx context.Context, id int64) (*models.Reservation, error)
}

type Service struct {
	tenants  ExistenceChecker
	chalets  ExistenceChecker
	store    ReservationStore
	locker   locking.Locker
	now      func() time.Time
	location *time.Location
	logger   *zap.Logger
}

type Option func(*Service)

// WithClock replaces time.Now, which decides what "today" is.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the zone in which the current calendar day is computed.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.location = loc }
}

func NewService(
	tenants ExistenceChecker,
	chalets ExistenceChecker,
	store ReservationStore,
	locker locking.Locker,
	logger *zap.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		tenants:  tenants,
		chalets:  chalets,
		store:    store,
		locker:   locker,
		now:      time.Now,
		location: time.UTC,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) today() models.Date {
	return models.DateOf(s.now().In(s.location))
}

// CreateReservation admits a new reservation and returns its id.
func (s *Service) CreateReservation(ctx context.Context, in models.ReservationInput) (int64, error) {
	id, _, err := s.admit(ctx, opCreate, 0, in)
	return id, err
}

// UpdateReservation replaces the fields of reservation id. The reservation
// never conflicts with its own current period. It returns false when no
// reservation with that id exists.
func (s *Service) UpdateReservation(ctx context.Context, rawID any, in models.ReservationInput) (bool, error) {
	id, err := validation.PositiveID("id", rawID)
	if err != nil {
		metrics.IncrementAdmissions(opUpdate, outcomeOf(err))
		return false, err
	}
	_, updated, err := s.admit(ctx, opUpdate, id, in)
	return updated, err
}

func (s *Service) admit(ctx context.Context, op string, id int64, in models.ReservationInput) (newID int64, updated bool, err error) {
	started := time.Now()
	defer func() {
		metrics.IncrementAdmissions(op, outcomeOf(err))
		metrics.RecordAdmissionDuration(op, time.Since(started).Seconds())
	}()

	tenantID, chaletID, err := validation.ReservationRefs(in)
	if err != nil {
		return 0, false, err
	}
	if err := s.mustExist(ctx, s.tenants, "tenant", tenantID); err != nil {
		return 0, false, err
	}
	if err := s.mustExist(ctx, s.chalets, "chalet", chaletID); err != nil {
		return 0, false, err
	}
	start, end, err := validation.DateRange(in.Start, in.End, s.today())
	if err != nil {
		return 0, false, err
	}

	candidate := models.Reservation{
		ID:       id,
		TenantID: tenantID,
		ChaletID: chaletID,
		Start:    start,
		End:      end,
	}

	waitStarted := time.Now()
	unlock, err := s.locker.Lock(ctx, chaletID)
	if err != nil {
		return 0, false, fmt.Errorf("failed to lock chalet %d: %w", chaletID, err)
	}
	defer unlock()
	metrics.RecordLockWait(time.Since(waitStarted).Seconds())

	existing, err := s.store.ListByChaletID(ctx, chaletID)
	if err != nil {
		return 0, false, fmt.Errorf("failed to load reservations of chalet %d: %w", chaletID, err)
	}
	if clash, found := scheduling.FindConflict(start, end, existing, id); found {
		s.logger.Warn("Reservation rejected: period already taken",
			zap.String("operation", op),
			zap.Int64("chalet_id", chaletID),
			zap.Int64("conflicting_reservation_id", clash.ID),
			zap.Stringer("start", start),
			zap.Stringer("end", end))
		return 0, false, &models.ConflictError{
			ChaletID:      chaletID,
			ReservationID: clash.ID,
			Start:         clash.Start,
			End:           clash.End,
		}
	}

	if op == opUpdate {
		updated, err = s.store.UpdateInPlace(ctx, id, candidate)
		if err != nil {
			return 0, false, err
		}
		s.logger.Info("Reservation update admitted",
			zap.Int64("reservation_id", id),
			zap.Int64("chalet_id", chaletID),
			zap.Bool("updated", updated))
		return id, updated, nil
	}

	newID, err = s.store.Insert(ctx, candidate)
	if err != nil {
		return 0, false, err
	}
	s.logger.Info("Reservation admitted",
		zap.Int64("reservation_id", newID),
		zap.Int64("chalet_id", chaletID),
		zap.Int64("tenant_id", tenantID),
		zap.Stringer("start", start),
		zap.Stringer("end", end))
	return newID, false, nil
}

func (s *Service) mustExist(ctx context.Context, repo ExistenceChecker, entity string, id int64) error {
	exists, err := repo.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to resolve %s %d: %w", entity, id, err)
	}
	if !exists {
		return &models.ReferenceError{Entity: entity, ID: id}
	}
	return nil
}

// DeleteReservation removes reservation id. Removing a reservation can
// never create an overlap, so no chalet lock is taken.
func (s *Service) DeleteReservation(ctx context.Context, rawID any) (bool, error) {
	id, err := validation.PositiveID("id", rawID)
	if err != nil {
		return false, err
	}
	deleted, err := s.store.DeleteByID(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.logger.Info("Reservation deleted", zap.Int64("reservation_id", id))
	}
	return deleted, nil
}

func (s *Service) FindAll(ctx context.Context) ([]models.Reservation, error) {
	return s.store.FindAll(ctx)
}

func (s *Service) FindByID(ctx context.Context, rawID any) (*models.Reservation, error) {
	id, err := validation.PositiveID("id", rawID)
	if err != nil {
		return nil, err
	}
	return s.store.FindByID(ctx, id)
}

// ListByChalet returns the current reservations of one chalet ordered by start.
func (s *Service) ListByChalet(ctx context.Context, rawChaletID any) ([]models.Reservation, error) {
	chaletID, err := validation.PositiveID("chaletId", rawChaletID)
	if err != nil {
		return nil, err
	}
	if err := s.mustExist(ctx, s.chalets, "chalet", chaletID); err != nil {
		return nil, err
	}
	return s.store.ListByChaletID(ctx, chaletID)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "admitted"
	case errors.Is(err, models.ErrInvalidArgument):
		return "invalid"
	case errors.Is(err, models.ErrReferentialIntegrity):
		return "unresolved"
	case errors.Is(err, models.ErrSchedulingConflict):
		return "conflict"
	default:
		return "error"
	}
}
