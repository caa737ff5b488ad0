package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/galihcitta/chalet-reservation-system/internal/models"
	"github.com/galihcitta/chalet-reservation-system/internal/services/intake"
)

type IntakeService interface {
	Submit(ctx context.Context, channel string, req models.PublicReservationRequest) (*models.PublicReservationResult, error)
	Precheck(req models.PublicReservationRequest) error
}

// Publisher queues a form for the intake worker pool.
type Publisher interface {
	PublishMessage(ctx context.Context, queueName string, body []byte) (string, error)
}

type IntakeHandler struct {
	intake    IntakeService
	publisher Publisher
	queueName string
	logger    *zap.Logger
}

// NewIntakeHandler builds the public form handler. publisher may be nil, in
// which case the asynchronous endpoint answers 503.
func NewIntakeHandler(svc IntakeService, publisher Publisher, queueName string, logger *zap.Logger) *IntakeHandler {
	return &IntakeHandler{
		intake:    svc,
		publisher: publisher,
		queueName: queueName,
		logger:    logger,
	}
}

func (h *IntakeHandler) bindForm(c *gin.Context) (*models.PublicReservationRequest, bool) {
	var env models.PublicReservationEnvelope
	if err := bindJSON(c, &env); err != nil {
		respondError(c, h.logger, err)
		return nil, false
	}
	return env.PublicReservation, true
}

// SubmitPublicReservation godoc
// @Summary Book a chalet from the public website
// @Description Admits the form immediately on behalf of the website tenant.
// @Tags public
// @Accept json
// @Produce json
// @Param form body models.PublicReservationEnvelope true "Booking form"
// @Success 201 {object} Response
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /reservations/public [post]
func (h *IntakeHandler) SubmitPublicReservation(c *gin.Context) {
	form, ok := h.bindForm(c)
	if !ok {
		return
	}

	result, err := h.intake.Submit(c.Request.Context(), intake.ChannelSync, *form)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respond(c, http.StatusCreated, "Reservation request received, we will contact you to confirm", result)
}

// EnqueuePublicReservation godoc
// @Summary Queue a booking form for admission
// @Tags public
// @Accept json
// @Produce json
// @Param form body models.PublicReservationEnvelope true "Booking form"
// @Success 202 {object} Response
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /reservations/public/async [post]
func (h *IntakeHandler) EnqueuePublicReservation(c *gin.Context) {
	if h.publisher == nil {
		respondMessage(c, http.StatusServiceUnavailable, "asynchronous intake is not enabled")
		return
	}

	form, ok := h.bindForm(c)
	if !ok {
		return
	}
	if err := h.intake.Precheck(*form); err != nil {
		respondError(c, h.logger, err)
		return
	}

	body, err := json.Marshal(form)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	ticketID, err := h.publisher.PublishMessage(c.Request.Context(), h.queueName, body)
	if err != nil {
		h.logger.Error("Failed to queue public reservation",
			zap.Error(err),
			zap.String("queue", h.queueName))
		respondMessage(c, http.StatusServiceUnavailable, "reservation queue unavailable, try again later")
		return
	}

	respond(c, http.StatusAccepted, "Reservation request queued",
		models.IntakeTicket{TicketID: ticketID, Queue: h.queueName})
}
