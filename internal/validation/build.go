package validation

import (
	"strings"

	"github.com/galihcitta/chalet-reservation-system/internal/models"
)

// BuildChalet validates every chalet field and returns the record with the
// given id. Use id 0 for a chalet that has not been stored yet.
func BuildChalet(id int64, in models.ChaletInput) (models.Chalet, error) {
	var problems []string
	name, err := Name("name", in.Name)
	problems = collect(problems, err)
	capacity, err := Capacity(in.Capacity)
	problems = collect(problems, err)
	if len(problems) > 0 {
		return models.Chalet{}, models.NewValidationError(problems...)
	}
	return models.Chalet{ID: id, Name: name, Capacity: capacity}, nil
}

// BuildTenant validates every tenant contact field.
func BuildTenant(id int64, in models.TenantInput) (models.Tenant, error) {
	var problems []string
	name, err := Name("name", in.Name)
	problems = collect(problems, err)
	email, err := Email(in.Email)
	problems = collect(problems, err)
	phone, err := Phone(in.Phone)
	problems = collect(problems, err)
	taxID, err := TaxID(in.TaxID)
	problems = collect(problems, err)
	if len(problems) > 0 {
		return models.Tenant{}, models.NewValidationError(problems...)
	}
	return models.Tenant{
		ID:          id,
		Name:        name,
		Email:       email,
		Phone:       phone,
		TaxID:       taxID,
		RequestNote: strings.TrimSpace(in.RequestNote),
	}, nil
}

// ReservationRefs parses the tenant and chalet references of a reservation request.
func ReservationRefs(in models.ReservationInput) (tenantID, chaletID int64, err error) {
	var problems []string
	tenantID, e := PositiveID("tenantId", in.TenantID)
	problems = collect(problems, e)
	chaletID, e = PositiveID("chaletId", in.ChaletID)
	problems = collect(problems, e)
	if len(problems) > 0 {
		return 0, 0, models.NewValidationError(problems...)
	}
	return tenantID, chaletID, nil
}

func collect(problems []string, err error) []string {
	if err == nil {
		return problems
	}
	return append(problems, problemsOf(err)...)
}
