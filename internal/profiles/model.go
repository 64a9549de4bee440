package profiles

import (
	"carga-platform/internal/domain"
	"carga-platform/pkg/identity"
)

// ProfileInput is the body of POST /api/auth/profile. Absent fields leave
// the stored value untouched.
type ProfileInput struct {
	FullName    *string `json:"full_name" validate:"omitempty,max=200"`
	Company     *string `json:"company" validate:"omitempty,max=200"`
	AccountType *string `json:"user_type" validate:"omitempty,oneof=carrier shipper both"`
	Phone       *string `json:"phone" validate:"omitempty,max=50"`
	TaxID       *string `json:"nif" validate:"omitempty,max=50"`
}

// MeResponse is the body of GET /api/auth/me. Profile is null until the
// caller saves one.
type MeResponse struct {
	User    *identity.Identity `json:"user"`
	Profile *domain.Profile    `json:"profile"`
}

// UpsertResponse is the body of POST /api/auth/profile.
type UpsertResponse struct {
	Message string          `json:"message"`
	Profile *domain.Profile `json:"profile"`
}

func (in ProfileInput) applyTo(p *domain.Profile) {
	if in.FullName != nil {
		p.FullName = *in.FullName
	}
	if in.Company != nil {
		p.Company = *in.Company
	}
	if in.AccountType != nil && *in.AccountType != "" {
		p.AccountType = domain.AccountType(*in.AccountType)
	}
	if in.Phone != nil {
		p.Phone = *in.Phone
	}
	if in.TaxID != nil {
		p.TaxID = *in.TaxID
	}
}
