package models

// Reservation claims a chalet for the half-open day interval [Start, End).
type Reservation struct {
	ID       int64 `json:"id"`
	TenantID int64 `json:"tenantId"`
	ChaletID int64 `json:"chaletId"`
	Start    Date  `json:"start"`
	End      Date  `json:"end"`
}

// ReservationInput is the plain-field shape of a create or update request.
// Fields stay untyped until the validation package parses them.
type ReservationInput struct {
	TenantID any `json:"tenantId"`
	ChaletID any `json:"chaletId"`
	Start    any `json:"start"`
	End      any `json:"end"`
}
