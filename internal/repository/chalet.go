package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/galihcitta/chalet-reservation-system/internal/models"
)

type ChaletRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewChaletRepository(db *pgxpool.Pool, logger *zap.Logger) *ChaletRepository {
	return &ChaletRepository{
		db:     db,
		logger: logger,
	}
}

func (r *ChaletRepository) Create(ctx context.Context, chalet models.Chalet) (int64, error) {
	query := `INSERT INTO chalets (name, capacity) VALUES ($1, $2) RETURNING id`

	var id int64
	if err := r.db.QueryRow(ctx, query, chalet.Name, chalet.Capacity).Scan(&id); err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return 0, fmt.Errorf("chalet %q: %w", chalet.Name, models.ErrAlreadyExists)
		}
		r.logger.Error("Failed to create chalet", zap.Error(err), zap.String("name", chalet.Name))
		return 0, fmt.Errorf("failed to create chalet: %w", err)
	}

	r.logger.Info("Chalet created successfully", zap.Int64("chalet_id", id), zap.String("name", chalet.Name))
	return id, nil
}

func (r *ChaletRepository) GetByID(ctx context.Context, id int64) (*models.Chalet, error) {
	query := `SELECT id, name, capacity FROM chalets WHERE id = $1`

	var chalet models.Chalet
	err := r.db.QueryRow(ctx, query, id).Scan(&chalet.ID, &chalet.Name, &chalet.Capacity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("chalet %d: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get chalet: %w", err)
	}

	return &chalet, nil
}

func (r *ChaletRepository) GetByName(ctx context.Context, name string) (*models.Chalet, error) {
	query := `SELECT id, name, capacity FROM chalets WHERE name = $1`

	var chalet models.Chalet
	err := r.db.QueryRow(ctx, query, name).Scan(&chalet.ID, &chalet.Name, &chalet.Capacity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("chalet %q: %w", name, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get chalet by name: %w", err)
	}

	return &chalet, nil
}

func (r *ChaletRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM chalets WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check chalet existence: %w", err)
	}
	return exists, nil
}

func (r *ChaletRepository) GetAll(ctx context.Context) ([]models.Chalet, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, capacity FROM chalets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query chalets: %w", err)
	}
	defer rows.Close()

	chalets := []models.Chalet{}
	for rows.Next() {
		var chalet models.Chalet
		if err := rows.Scan(&chalet.ID, &chalet.Name, &chalet.Capacity); err != nil {
			return nil, fmt.Errorf("failed to scan chalet: %w", err)
		}
		chalets = append(chalets, chalet)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return chalets, nil
}

func (r *ChaletRepository) Update(ctx context.Context, chalet models.Chalet) (bool, error) {
	query := `UPDATE chalets SET name = $1, capacity = $2, updated_at = NOW() WHERE id = $3`

	result, err := r.db.Exec(ctx, query, chalet.Name, chalet.Capacity, chalet.ID)
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return false, fmt.Errorf("chalet %q: %w", chalet.Name, models.ErrAlreadyExists)
		}
		return false, fmt.Errorf("failed to update chalet: %w", err)
	}

	if result.RowsAffected() == 0 {
		return false, nil
	}

	r.logger.Info("Chalet updated", zap.Int64("chalet_id", chalet.ID), zap.String("name", chalet.Name))
	return true, nil
}

func (r *ChaletRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM chalets WHERE id = $1`, id)
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return false, fmt.Errorf("chalet %d: %w", id, models.ErrInUse)
		}
		return false, fmt.Errorf("failed to delete chalet: %w", err)
	}

	if result.RowsAffected() == 0 {
		return false, nil
	}

	r.logger.Info("Chalet deleted successfully", zap.Int64("chalet_id", id))
	return true, nil
}
