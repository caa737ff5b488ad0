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

const tenantColumns = `id, name, email, phone, tax_id, request_note`

type TenantRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTenantRepository(db *pgxpool.Pool, logger *zap.Logger) *TenantRepository {
	return &TenantRepository{
		db:     db,
		logger: logger,
	}
}

func scanTenant(row pgx.Row) (models.Tenant, error) {
	var t models.Tenant
	err := row.Scan(&t.ID, &t.Name, &t.Email, &t.Phone, &t.TaxID, &t.RequestNote)
	return t, err
}

func (r *TenantRepository) Create(ctx context.Context, tenant models.Tenant) (int64, error) {
	query := `
		INSERT INTO tenants (name, email, phone, tax_id, request_note)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	var id int64
	row := r.db.QueryRow(ctx, query, tenant.Name, tenant.Email, tenant.Phone, tenant.TaxID, tenant.RequestNote)
	if err := row.Scan(&id); err != nil {
		r.logger.Error("Failed to create tenant", zap.Error(err), zap.String("name", tenant.Name))
		return 0, fmt.Errorf("failed to create tenant: %w", err)
	}

	r.logger.Info("Tenant created successfully", zap.Int64("tenant_id", id), zap.String("name", tenant.Name))
	return id, nil
}

func (r *TenantRepository) GetByID(ctx context.Context, id int64) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1`

	tenant, err := scanTenant(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("tenant %d: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	return &tenant, nil
}

func (r *TenantRepository) GetByName(ctx context.Context, name string) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE name = $1 LIMIT 1`

	tenant, err := scanTenant(r.db.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("tenant %q: %w", name, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get tenant by name: %w", err)
	}

	return &tenant, nil
}

func (r *TenantRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tenants WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check tenant existence: %w", err)
	}
	return exists, nil
}

func (r *TenantRepository) GetAll(ctx context.Context) ([]models.Tenant, error) {
	rows, err := r.db.Query(ctx, `SELECT `+tenantColumns+` FROM tenants ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tenants: %w", err)
	}
	defer rows.Close()

	tenants := []models.Tenant{}
	for rows.Next() {
		tenant, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		tenants = append(tenants, tenant)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return tenants, nil
}

func (r *TenantRepository) Update(ctx context.Context, tenant models.Tenant) (bool, error) {
	query := `
		UPDATE tenants
		SET name = $1, email = $2, phone = $3, tax_id = $4, request_note = $5, updated_at = NOW()
		WHERE id = $6`

	result, err := r.db.Exec(ctx, query, tenant.Name, tenant.Email, tenant.Phone, tenant.TaxID, tenant.RequestNote, tenant.ID)
	if err != nil {
		return false, fmt.Errorf("failed to update tenant: %w", err)
	}

	if result.RowsAffected() == 0 {
		return false, nil
	}

	r.logger.Info("Tenant updated", zap.Int64("tenant_id", tenant.ID))
	return true, nil
}

func (r *TenantRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return false, fmt.Errorf("tenant %d: %w", id, models.ErrInUse)
		}
		return false, fmt.Errorf("failed to delete tenant: %w", err)
	}

	if result.RowsAffected() == 0 {
		return false, nil
	}

	r.logger.Info("Tenant deleted successfully", zap.Int64("tenant_id", id))
	return true, nil
}
