// Package chalet manages the catalogue of bookable chalets.
package chalet

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/galihcitta/chalet-reservation-system/internal/models"
	"github.com/galihcitta/chalet-reservation-system/internal/validation"
)

type Repository interface {
	Create(ctx context.Context, chalet models.Chalet) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Chalet, error)
	GetByName(ctx context.Context, name string) (*models.Chalet, error)
	GetAll(ctx context.Context) ([]models.Chalet, error)
	Update(ctx context.Context, chalet models.Chalet) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type Manager struct {
	repo   Repository
	logger *zap.Logger
}

func NewManager(repo Repository, logger *zap.Logger) *Manager {
	return &Manager{
		repo:   repo,
		logger: logger,
	}
}

func (m *Manager) CreateChalet(ctx context.Context, in models.ChaletInput) (*models.Chalet, error) {
	chalet, err := validation.BuildChalet(0, in)
	if err != nil {
		return nil, err
	}

	if err := m.ensureNameFree(ctx, chalet.Name, 0); err != nil {
		return nil, err
	}

	id, err := m.repo.Create(ctx, chalet)
	if err != nil {
		return nil, fmt.Errorf("failed to create chalet in database: %w", err)
	}
	chalet.ID = id

	m.logger.Info("Chalet created successfully",
		zap.Int64("chalet_id", chalet.ID),
		zap.String("name", chalet.Name),
		zap.Int("capacity", chalet.Capacity))

	return &chalet, nil
}

func (m *Manager) ensureNameFree(ctx context.Context, name string, selfID int64) error {
	existing, err := m.repo.GetByName(ctx, name)
	switch {
	case err == nil && existing.ID != selfID:
		return fmt.Errorf("chalet %q: %w", name, models.ErrAlreadyExists)
	case err != nil && !errors.Is(err, models.ErrNotFound):
		return fmt.Errorf("failed to look up chalet by name: %w", err)
	}
	return nil
}

func (m *Manager) GetChalet(ctx context.Context, rawID any) (*models.Chalet, error) {
	id, err := validation.PositiveID("id", rawID)
	if err != nil {
		return nil, err
	}
	return m.repo.GetByID(ctx, id)
}

func (m *Manager) GetAllChalets(ctx context.Context) ([]models.Chalet, error) {
	return m.repo.GetAll(ctx)
}

// UpdateChalet re-validates name and capacity. It returns false when the
// chalet does not exist.
func (m *Manager) UpdateChalet(ctx context.Context, rawID any, in models.ChaletInput) (bool, error) {
	id, err := validation.PositiveID("id", rawID)
	if err != nil {
		return false, err
	}
	chalet, err := validation.BuildChalet(id, in)
	if err != nil {
		return false, err
	}
	if err := m.ensureNameFree(ctx, chalet.Name, id); err != nil {
		return false, err
	}

	updated, err := m.repo.Update(ctx, chalet)
	if err != nil {
		return false, fmt.Errorf("failed to update chalet in database: %w", err)
	}
	if updated {
		m.logger.Info("Chalet updated successfully", zap.Int64("chalet_id", id))
	}
	return updated, nil
}

// DeleteChalet removes a chalet that no reservation references.
func (m *Manager) DeleteChalet(ctx context.Context, rawID any) (bool, error) {
	id, err := validation.PositiveID("id", rawID)
	if err != nil {
		return false, err
	}

	deleted, err := m.repo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete chalet from database: %w", err)
	}
	if deleted {
		m.logger.Info("Chalet deleted successfully", zap.Int64("chalet_id", id))
	}
	return deleted, nil
}
