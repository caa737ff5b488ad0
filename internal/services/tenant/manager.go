package tenant

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/galihcitta/chalet-reservation-system/internal/models"
	"github.com/galihcitta/chalet-reservation-system/internal/validation"
)

type Repository interface {
	Create(ctx context.Context, tenant models.Tenant) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Tenant, error)
	GetByName(ctx context.Context, name string) (*models.Tenant, error)
	GetAll(ctx context.Context) ([]models.Tenant, error)
	Update(ctx context.Context, tenant models.Tenant) (bool, error)
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

func (m *Manager) CreateTenant(ctx context.Context, in models.TenantInput) (*models.Tenant, error) {
	tenant, err := validation.BuildTenant(0, in)
	if err != nil {
		return nil, err
	}

	if err := m.ensureNameFree(ctx, tenant.Name, 0); err != nil {
		return nil, err
	}

	id, err := m.repo.Create(ctx, tenant)
	if err != nil {
		return nil, fmt.Errorf("failed to create tenant in database: %w", err)
	}
	tenant.ID = id

	m.logger.Info("Tenant created successfully",
		zap.Int64("tenant_id", tenant.ID),
		zap.String("name", tenant.Name))

	return &tenant, nil
}

// ensureNameFree fails with ErrAlreadyExists when another tenant than
// selfID already uses name.
func (m *Manager) ensureNameFree(ctx context.Context, name string, selfID int64) error {
	existing, err := m.repo.GetByName(ctx, name)
	switch {
	case err == nil && existing.ID != selfID:
		return fmt.Errorf("tenant %q: %w", name, models.ErrAlreadyExists)
	case err != nil && !errors.Is(err, models.ErrNotFound):
		return fmt.Errorf("failed to look up tenant by name: %w", err)
	}
	return nil
}

func (m *Manager) GetTenant(ctx context.Context, rawID any) (*models.Tenant, error) {
	id, err := validation.PositiveID("id", rawID)
	if err != nil {
		return nil, err
	}
	return m.repo.GetByID(ctx, id)
}

func (m *Manager) GetAllTenants(ctx context.Context) ([]models.Tenant, error) {
	return m.repo.GetAll(ctx)
}

// UpdateTenant re-validates every field and replaces the stored tenant.
// It returns false when the tenant does not exist.
func (m *Manager) UpdateTenant(ctx context.Context, rawID any, in models.TenantInput) (bool, error) {
	id, err := validation.PositiveID("id", rawID)
	if err != nil {
		return false, err
	}
	tenant, err := validation.BuildTenant(id, in)
	if err != nil {
		return false, err
	}
	if err := m.ensureNameFree(ctx, tenant.Name, id); err != nil {
		return false, err
	}

	updated, err := m.repo.Update(ctx, tenant)
	if err != nil {
		return false, fmt.Errorf("failed to update tenant in database: %w", err)
	}
	if updated {
		m.logger.Info("Tenant updated successfully", zap.Int64("tenant_id", id))
	}
	return updated, nil
}

func (m *Manager) DeleteTenant(ctx context.Context, rawID any) (bool, error) {
	id, err := validation.PositiveID("id", rawID)
	if err != nil {
		return false, err
	}

	deleted, err := m.repo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete tenant from database: %w", err)
	}
	if deleted {
		m.logger.Info("Tenant deleted successfully", zap.Int64("tenant_id", id))
	}
	return deleted, nil
}
