package partners

import "strings"

type CounterpartyInput struct {
	Type    PartnerType `json:"type" validate:"required,oneof=CUSTOMER SUPPLIER"`
	Name    string      `json:"name" validate:"required,min=2,max=120"`
	Phone   string      `json:"phone" validate:"required"`
	Email   *string     `json:"email" validate:"omitempty,email"`
	TaxID   *string     `json:"taxId" validate:"omitempty,max=20"`
	Address *string     `json:"address" validate:"omitempty,max=300"`
	Note    *string     `json:"note" validate:"omitempty,max=1000"`
}

type StatusInput struct {
	IsActive bool `json:"isActive"`
}

func (in *CounterpartyInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	if in.Email != nil {
		trimmed := strings.TrimSpace(*in.Email)
		in.Email = &trimmed
	}
}
