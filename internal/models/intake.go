package models

// PublicReservationRequest is the booking form submitted from the public website.
type PublicReservationRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Chalet    string `json:"chalet"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Guests    int    `json:"guests"`
	Notes     string `json:"notes,omitempty"`
}

// PublicReservationEnvelope is the body accepted by the public intake endpoints.
type PublicReservationEnvelope struct {
	PublicReservation *PublicReservationRequest `json:"publicReservation" binding:"required"`
}

type PublicContact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// PublicReservationResult is returned to the website once the form is admitted.
type PublicReservationResult struct {
	ReservationID int64         `json:"reservationId"`
	Status        string        `json:"status"`
	ChaletID      int64         `json:"chaletId"`
	Start         Date          `json:"start"`
	End           Date          `json:"end"`
	Contact       PublicContact `json:"contact"`
	Summary       string        `json:"summary"`
}

// IntakeTicket acknowledges a form accepted for asynchronous processing.
type IntakeTicket struct {
	TicketID string `json:"ticketId"`
	Queue    string `json:"queue"`
}
