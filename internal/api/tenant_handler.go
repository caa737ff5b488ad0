package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/galihcitta/chalet-reservation-system/internal/models"
)

// TenantService defines the methods required by the handler
type TenantService interface {
	CreateTenant(ctx context.Context, in models.TenantInput) (*models.Tenant, error)
	GetTenant(ctx context.Context, rawID any) (*models.Tenant, error)
	GetAllTenants(ctx context.Context) ([]models.Tenant, error)
	UpdateTenant(ctx context.Context, rawID any, in models.TenantInput) (bool, error)
	DeleteTenant(ctx context.Context, rawID any) (bool, error)
}

type TenantHandler struct {
	tenants TenantService
	logger  *zap.Logger
}

func NewTenantHandler(tenants TenantService, logger *zap.Logger) *TenantHandler {
	return &TenantHandler{
		tenants: tenants,
		logger:  logger,
	}
}

// CreateTenant godoc
// @Summary Register a tenant
// @Tags tenants
// @Accept json
// @Produce json
// @Param tenant body models.TenantInput true "Tenant"
// @Success 201 {object} Response
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /tenants [post]
func (h *TenantHandler) CreateTenant(c *gin.Context) {
	var in models.TenantInput
	if err := bindJSON(c, &in); err != nil {
		respondError(c, h.logger, err)
		return
	}

	tenant, err := h.tenants.CreateTenant(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respond(c, http.StatusCreated, "Tenant created", tenant)
}

// GetAllTenants godoc
// @Summary List tenants
// @Tags tenants
// @Produce json
// @Success 200 {object} Response
// @Router /tenants [get]
func (h *TenantHandler) GetAllTenants(c *gin.Context) {
	tenants, err := h.tenants.GetAllTenants(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "Tenants retrieved", tenants)
}

// GetTenant godoc
// @Summary Get a tenant by ID
// @Tags tenants
// @Produce json
// @Param id path int true "Tenant ID"
// @Success 200 {object} Response
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /tenants/{id} [get]
func (h *TenantHandler) GetTenant(c *gin.Context) {
	tenant, err := h.tenants.GetTenant(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "Tenant retrieved", tenant)
}

// UpdateTenant godoc
// @Summary Replace a tenant's details
// @Tags tenants
// @Accept json
// @Produce json
// @Param id path int true "Tenant ID"
// @Param tenant body models.TenantInput true "Tenant"
// @Success 200 {object} Response
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /tenants/{id} [put]
func (h *TenantHandler) UpdateTenant(c *gin.Context) {
	var in models.TenantInput
	if err := bindJSON(c, &in); err != nil {
		respondError(c, h.logger, err)
		return
	}

	updated, err := h.tenants.UpdateTenant(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !updated {
		respondMessage(c, http.StatusNotFound, fmt.Sprintf("no tenant with id %s", c.Param("id")))
		return
	}

	respond(c, http.StatusOK, "Tenant updated", nil)
}

// DeleteTenant godoc
// @Summary Delete a tenant without reservations
// @Tags tenants
// @Produce json
// @Param id path int true "Tenant ID"
// @Success 200 {object} Response
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /tenants/{id} [delete]
func (h *TenantHandler) DeleteTenant(c *gin.Context) {
	deleted, err := h.tenants.DeleteTenant(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !deleted {
		respondMessage(c, http.StatusNotFound, fmt.Sprintf("no tenant with id %s", c.Param("id")))
		return
	}

	respond(c, http.StatusOK, "Tenant deleted", nil)
}
