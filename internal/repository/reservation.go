package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/galihcitta/chalet-reservation-system/internal/models"
)

const reservationColumns = `id, tenant_id, chalet_id, start_date, end_date`

type ReservationRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewReservationRepository(db *pgxpool.Pool, logger *zap.Logger) *ReservationRepository {
	return &ReservationRepository{
		db:     db,
		logger: logger,
	}
}

func scanReservation(row pgx.Row) (models.Reservation, error) {
	var (
		r          models.Reservation
		start, end time.Time
	)
	if err := row.Scan(&r.ID, &r.TenantID, &r.ChaletID, &start, &end); err != nil {
		return models.Reservation{}, err
	}
	r.Start = models.DateOf(start)
	r.End = models.DateOf(end)
	return r, nil
}

func (r *ReservationRepository) collect(rows pgx.Rows) ([]models.Reservation, error) {
	defer rows.Close()

	reservations := []models.Reservation{}
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		reservations = append(reservations, reservation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return reservations, nil
}

// conflictFrom translates the no-overlap exclusion constraint into the domain error.
func conflictFrom(err error, reservation models.Reservation) error {
	if pgErrorCode(err) == pgExclusionViolation {
		return &models.ConflictError{
			ChaletID: reservation.ChaletID,
			Start:    reservation.Start,
			End:      reservation.End,
		}
	}
	return nil
}

// referenceFrom reports which reference vanished when a foreign key rejects
// the write. Postgres names the constraints <table>_<column>_fkey.
func referenceFrom(err error, reservation models.Reservation) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgForeignKeyViolation {
		return nil
	}
	if strings.Contains(pgErr.ConstraintName, "tenant") {
		return &models.ReferenceError{Entity: "tenant", ID: reservation.TenantID}
	}
	return &models.ReferenceError{Entity: "chalet", ID: reservation.ChaletID}
}

func writeErrorFrom(err error, reservation models.Reservation) error {
	if conflict := conflictFrom(err, reservation); conflict != nil {
		return conflict
	}
	return referenceFrom(err, reservation)
}

func (r *ReservationRepository) Insert(ctx context.Context, reservation models.Reservation) (int64, error) {
	query := `
		INSERT INTO reservations (tenant_id, chalet_id, start_date, end_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	var id int64
	row := r.db.QueryRow(ctx, query, reservation.TenantID, reservation.ChaletID,
		reservation.Start.Time(), reservation.End.Time())
	if err := row.Scan(&id); err != nil {
		if domainErr := writeErrorFrom(err, reservation); domainErr != nil {
			return 0, domainErr
		}
		r.logger.Error("Failed to insert reservation", zap.Error(err), zap.Int64("chalet_id", reservation.ChaletID))
		return 0, fmt.Errorf("failed to insert reservation: %w", err)
	}

	r.logger.Debug("Reservation inserted", zap.Int64("reservation_id", id), zap.Int64("chalet_id", reservation.ChaletID))
	return id, nil
}

func (r *ReservationRepository) UpdateInPlace(ctx context.Context, id int64, reservation models.Reservation) (bool, error) {
	query := `
		UPDATE reservations
		SET tenant_id = $1, chalet_id = $2, start_date = $3, end_date = $4, updated_at = NOW()
		WHERE id = $5`

	result, err := r.db.Exec(ctx, query, reservation.TenantID, reservation.ChaletID,
		reservation.Start.Time(), reservation.End.Time(), id)
	if err != nil {
		if domainErr := writeErrorFrom(err, reservation); domainErr != nil {
			return false, domainErr
		}
		r.logger.Error("Failed to update reservation", zap.Error(err), zap.Int64("reservation_id", id))
		return false, fmt.Errorf("failed to update reservation: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *ReservationRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete reservation: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *ReservationRepository) ListByChaletID(ctx context.Context, chaletID int64) ([]models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE chalet_id = $1 ORDER BY start_date`

	rows, err := r.db.Query(ctx, query, chaletID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chalet reservations: %w", err)
	}
	return r.collect(rows)
}

func (r *ReservationRepository) FindAll(ctx context.Context) ([]models.Reservation, error) {
	rows, err := r.db.Query(ctx, `SELECT `+reservationColumns+` FROM reservations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations: %w", err)
	}
	return r.collect(rows)
}

func (r *ReservationRepository) FindByID(ctx context.Context, id int64) (*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`

	reservation, err := scanReservation(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("reservation %d: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}

	return &reservation, nil
}
