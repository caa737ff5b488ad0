package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/galihcitta/chalet-reservation-system/internal/models"
)

// ReservationService is the admission pipeline as seen by HTTP.
type ReservationService interface {
	CreateReservation(ctx context.Context, in models.ReservationInput) (int64, error)
	UpdateReservation(ctx context.Context, rawID any, in models.ReservationInput) (bool, error)
	DeleteReservation(ctx context.Context, rawID any) (bool, error)
	FindAll(ctx context.Context) ([]models.Reservation, error)
	FindByID(ctx context.Context, rawID any) (*models.Reservation, error)
	ListByChalet(ctx context.Context, rawChaletID any) ([]models.Reservation, error)
}

type ReservationHandler struct {
	reservations ReservationService
	logger       *zap.Logger
}

type CreatedResponse struct {
	ID int64 `json:"id"`
}

func NewReservationHandler(reservations ReservationService, logger *zap.Logger) *ReservationHandler {
	return &ReservationHandler{
		reservations: reservations,
		logger:       logger,
	}
}

// CreateReservation godoc
// @Summary Reserve a chalet for a date range
// @Description Admits the range only if it does not overlap another reservation of the same chalet.
// @Tags reservations
// @Accept json
// @Produce json
// @Param reservation body models.ReservationInput true "Reservation"
// @Success 201 {object} Response
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /reservations [post]
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	var in models.ReservationInput
	if err := bindJSON(c, &in); err != nil {
		respondError(c, h.logger, err)
		return
	}

	id, err := h.reservations.CreateReservation(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respond(c, http.StatusCreated, "Reservation created", CreatedResponse{ID: id})
}

// GetAllReservations godoc
// @Summary List reservations
// @Tags reservations
// @Produce json
// @Success 200 {object} Response
// @Router /reservations [get]
func (h *ReservationHandler) GetAllReservations(c *gin.Context) {
	reservations, err := h.reservations.FindAll(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "Reservations retrieved", reservations)
}

// GetReservation godoc
// @Summary Get a reservation by ID
// @Tags reservations
// @Produce json
// @Param id path int true "Reservation ID"
// @Success 200 {object} Response
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /reservations/{id} [get]
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	reservation, err := h.reservations.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "Reservation retrieved", reservation)
}

// ListChaletReservations godoc
// @Summary List the reservations of one chalet
// @Tags chalets
// @Produce json
// @Param id path int true "Chalet ID"
// @Success 200 {object} Response
// @Failure 400 {object} ErrorResponse
// @Router /chalets/{id}/reservations [get]
func (h *ReservationHandler) ListChaletReservations(c *gin.Context) {
	reservations, err := h.reservations.ListByChalet(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "Reservations retrieved", reservations)
}

// UpdateReservation godoc
// @Summary Move or reassign a reservation
// @Tags reservations
// @Accept json
// @Produce json
// @Param id path int true "Reservation ID"
// @Param reservation body models.ReservationInput true "Reservation"
// @Success 200 {object} Response
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /reservations/{id} [put]
func (h *ReservationHandler) UpdateReservation(c *gin.Context) {
	var in models.ReservationInput
	if err := bindJSON(c, &in); err != nil {
		respondError(c, h.logger, err)
		return
	}

	updated, err := h.reservations.UpdateReservation(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !updated {
		respondMessage(c, http.StatusNotFound, fmt.Sprintf("no reservation with id %s", c.Param("id")))
		return
	}

	respond(c, http.StatusOK, "Reservation updated", nil)
}

// DeleteReservation godoc
// @Summary Cancel a reservation
// @Tags reservations
// @Produce json
// @Param id path int true "Reservation ID"
// @Success 200 {object} Response
// @Failure 404 {object} ErrorResponse
// @Router /reservations/{id} [delete]
func (h *ReservationHandler) DeleteReservation(c *gin.Context) {
	deleted, err := h.reservations.DeleteReservation(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !deleted {
		respondMessage(c, http.StatusNotFound, fmt.Sprintf("no reservation with id %s", c.Param("id")))
		return
	}

	respond(c, http.StatusOK, "Reservation deleted", nil)
}
