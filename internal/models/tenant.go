package models

// Tenant is the party on whose behalf a reservation is made.
type Tenant struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	TaxID       string `json:"taxId"`
	RequestNote string `json:"requestNote,omitempty"`
}

type TenantInput struct {
	Name        any    `json:"name" binding:"required"`
	Email       any    `json:"email" binding:"required"`
	Phone       any    `json:"phone" binding:"required"`
	TaxID       any    `json:"taxId" binding:"required"`
	RequestNote string `json:"requestNote"`
}
