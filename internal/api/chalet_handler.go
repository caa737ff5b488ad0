package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/galihcitta/chalet-reservation-system/internal/models"
)

// ChaletService defines the methods required by the handler
type ChaletService interface {
	CreateChalet(ctx context.Context, in models.ChaletInput) (*models.Chalet, error)
	GetChalet(ctx context.Context, rawID any) (*models.Chalet, error)
	GetAllChalets(ctx context.Context) ([]models.Chalet, error)
	UpdateChalet(ctx context.Context, rawID any, in models.ChaletInput) (bool, error)
	DeleteChalet(ctx context.Context, rawID any) (bool, error)
}

type ChaletHandler struct {
	chalets ChaletService
	logger  *zap.Logger
}

func NewChaletHandler(chalets ChaletService, logger *zap.Logger) *ChaletHandler {
	return &ChaletHandler{
		chalets: chalets,
		logger:  logger,
	}
}

// CreateChalet godoc
// @Summary Register a chalet
// @Tags chalets
// @Accept json
// @Produce json
// @Param chalet body models.ChaletInput true "Chalet"
// @Success 201 {object} Response
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /chalets [post]
func (h *ChaletHandler) CreateChalet(c *gin.Context) {
	var in models.ChaletInput
	if err := bindJSON(c, &in); err != nil {
		respondError(c, h.logger, err)
		return
	}

	chalet, err := h.chalets.CreateChalet(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respond(c, http.StatusCreated, "Chalet created", chalet)
}

// GetAllChalets godoc
// @Summary List chalets
// @Tags chalets
// @Produce json
// @Success 200 {object} Response
// @Router /chalets [get]
func (h *ChaletHandler) GetAllChalets(c *gin.Context) {
	chalets, err := h.chalets.GetAllChalets(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "Chalets retrieved", chalets)
}

// GetChalet godoc
// @Summary Get a chalet by ID
// @Tags chalets
// @Produce json
// @Param id path int true "Chalet ID"
// @Success 200 {object} Response
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /chalets/{id} [get]
func (h *ChaletHandler) GetChalet(c *gin.Context) {
	chalet, err := h.chalets.GetChalet(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "Chalet retrieved", chalet)
}

// UpdateChalet godoc
// @Summary Replace a chalet's name and capacity
// @Tags chalets
// @Accept json
// @Produce json
// @Param id path int true "Chalet ID"
// @Param chalet body models.ChaletInput true "Chalet"
// @Success 200 {object} Response
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /chalets/{id} [put]
func (h *ChaletHandler) UpdateChalet(c *gin.Context) {
	var in models.ChaletInput
	if err := bindJSON(c, &in); err != nil {
		respondError(c, h.logger, err)
		return
	}

	updated, err := h.chalets.UpdateChalet(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !updated {
		respondMessage(c, http.StatusNotFound, fmt.Sprintf("no chalet with id %s", c.Param("id")))
		return
	}

	respond(c, http.StatusOK, "Chalet updated", nil)
}

// DeleteChalet godoc
// @Summary Delete a chalet without reservations
// @Tags chalets
// @Produce json
// @Param id path int true "Chalet ID"
// @Success 200 {object} Response
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /chalets/{id} [delete]
func (h *ChaletHandler) DeleteChalet(c *gin.Context) {
	deleted, err := h.chalets.DeleteChalet(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !deleted {
		respondMessage(c, http.StatusNotFound, fmt.Sprintf("no chalet with id %s", c.Param("id")))
		return
	}

	respond(c, http.StatusOK, "Chalet deleted", nil)
}
