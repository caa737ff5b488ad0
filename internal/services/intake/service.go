// Package intake turns booking forms from the public website into
// reservations. Forms are admitted on behalf of one configured public tenant
// and go through the regular admission pipeline, so every overlap and date
// rule still applies.
package intake

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/galihcitta/chalet-reservation-system/internal/metrics"
	"github.com/galihcitta/chalet-reservation-system/internal/models"
)

const (
	ChannelSync  = "sync"
	ChannelQueue = "queue"

	// StatusPending is the state of every reservation created from the site
	// until staff confirm it with the guest.
	StatusPending = "pending"
)

type Admitter interface {
	CreateReservation(ctx context.Context, in models.ReservationInput) (int64, error)
}

type Service struct {
	admitter       Admitter
	publicTenantID int64
	chalets        map[string]int64
	logger         *zap.Logger
}

// NewService maps site chalet codes (case-insensitive) to chalet ids.
func NewService(admitter Admitter, publicTenantID int64, chalets map[string]int64, logger *zap.Logger) *Service {
	codes := make(map[string]int64, len(chalets))
	for code, id := range chalets {
		codes[strings.ToLower(strings.TrimSpace(code))] = id
	}
	return &Service{
		admitter:       admitter,
		publicTenantID: publicTenantID,
		chalets:        codes,
		logger:         logger,
	}
}

// Submit validates a booking form and admits it. channel labels the intake
// path in metrics.
func (s *Service) Submit(ctx context.Context, channel string, req models.PublicReservationRequest) (*models.PublicReservationResult, error) {
	result, err := s.submit(ctx, req)
	metrics.IncrementIntakeRequests(channel, intakeStatus(err))
	if err != nil {
		s.logger.Warn("Public reservation rejected",
			zap.String("channel", channel),
			zap.String("chalet", req.Chalet),
			zap.String("email", req.Email),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Public reservation received",
		zap.String("channel", channel),
		zap.Int64("reservation_id", result.ReservationID),
		zap.Int64("chalet_id", result.ChaletID),
		zap.String("email", req.Email))
	return result, nil
}

// Precheck runs the form checks that need no storage, so a queued form
// can be refused before it is published.
func (s *Service) Precheck(req models.PublicReservationRequest) error {
	if err := checkRequired(req); err != nil {
		return err
	}
	_, err := s.chaletFor(req.Chalet)
	return err
}

func (s *Service) submit(ctx context.Context, req models.PublicReservationRequest) (*models.PublicReservationResult, error) {
	if err := checkRequired(req); err != nil {
		return nil, err
	}
	chaletID, err := s.chaletFor(req.Chalet)
	if err != nil {
		return nil, err
	}

	id, err := s.admitter.CreateReservation(ctx, models.ReservationInput{
		TenantID: s.publicTenantID,
		ChaletID: chaletID,
		Start:    req.StartDate,
		End:      req.EndDate,
	})
	if err != nil {
		return nil, err
	}

	start, _ := models.ParseDate(strings.TrimSpace(req.StartDate))
	end, _ := models.ParseDate(strings.TrimSpace(req.EndDate))
	return &models.PublicReservationResult{
		ReservationID: id,
		Status:        StatusPending,
		ChaletID:      chaletID,
		Start:         start,
		End:           end,
		Contact: models.PublicContact{
			Name:  req.Name,
			Email: req.Email,
			Phone: req.Phone,
		},
		Summary: Summary(req),
	}, nil
}

func checkRequired(req models.PublicReservationRequest) error {
	fields := []struct {
		name    string
		present bool
	}{
		{"name", strings.TrimSpace(req.Name) != ""},
		{"email", strings.TrimSpace(req.Email) != ""},
		{"phone", strings.TrimSpace(req.Phone) != ""},
		{"chalet", strings.TrimSpace(req.Chalet) != ""},
		{"startDate", strings.TrimSpace(req.StartDate) != ""},
		{"endDate", strings.TrimSpace(req.EndDate) != ""},
		{"guests", req.Guests > 0},
	}

	var missing []string
	for _, f := range fields {
		if !f.present {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return models.NewValidationError("missing required fields: " + strings.Join(missing, ", "))
	}

	// ISO dates sort lexically, so a plain comparison orders them.
	if strings.TrimSpace(req.EndDate) <= strings.TrimSpace(req.StartDate) {
		return models.NewValidationError("check-out date must be after check-in date")
	}
	return nil
}

func (s *Service) chaletFor(code string) (int64, error) {
	id, ok := s.chalets[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return 0, models.NewValidationError(fmt.Sprintf("chalet %q not found, options: %s",
			code, strings.Join(s.ChaletCodes(), ", ")))
	}
	return id, nil
}

// ChaletCodes lists the site codes accepted in the chalet field.
func (s *Service) ChaletCodes() []string {
	codes := make([]string, 0, len(s.chalets))
	for code := range s.chalets {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Summary renders the form as a note staff can read when confirming the stay.
func Summary(req models.PublicReservationRequest) string {
	notes := strings.TrimSpace(req.Notes)
	if notes == "" {
		notes = "none"
	}

	var b strings.Builder
	b.WriteString("Public reservation from the website\n")
	fmt.Fprintf(&b, "Guest: %s\n", req.Name)
	fmt.Fprintf(&b, "Email: %s\n", req.Email)
	fmt.Fprintf(&b, "Phone: %s\n", req.Phone)
	fmt.Fprintf(&b, "Guests: %d\n", req.Guests)
	fmt.Fprintf(&b, "Check-in: %s\n", req.StartDate)
	fmt.Fprintf(&b, "Check-out: %s\n", req.EndDate)
	fmt.Fprintf(&b, "Chalet: %s\n", req.Chalet)
	fmt.Fprintf(&b, "Notes: %s\n", notes)
	return b.String()
}

func intakeStatus(err error) string {
	switch {
	case err == nil:
		return "accepted"
	case errors.Is(err, models.ErrSchedulingConflict):
		return "conflict"
	case errors.Is(err, models.ErrInvalidArgument), errors.Is(err, models.ErrReferentialIntegrity):
		return "rejected"
	default:
		return "error"
	}
}
