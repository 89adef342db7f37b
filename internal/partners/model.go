// Package partners manages the counterparty registry: the customers and
// suppliers orders are written against. Counterparties are never hard
// deleted, deletion flips the active flag.
package partners

type PartnerType string

const (
	TypeCustomer PartnerType = "CUSTOMER"
	TypeSupplier PartnerType = "SUPPLIER"
)

func (t PartnerType) Valid() bool {
	return t == TypeCustomer || t == TypeSupplier
}

type Counterparty struct {
	ID       int64       `json:"id"`
	Type     PartnerType `json:"type"`
	Name     string      `json:"name"`
	Phone    string      `json:"phone"`
	Email    *string     `json:"email,omitempty"`
	TaxID    *string     `json:"taxId,omitempty"`
	Address  *string     `json:"address,omitempty"`
	Note     *string     `json:"note,omitempty"`
	IsActive bool        `json:"isActive"`

	// PayableCents is only populated on supplier listings requested with
	// payables enrichment: the sum of totals across the supplier's
	// non-cancelled purchase orders.
	PayableCents *int64 `json:"payableCents,omitempty"`
}

// ListFilters narrows counterparty listings. Inactive rows are excluded
// unless IncludeInactive is set.
type ListFilters struct {
	Search          string
	Type            PartnerType
	IncludeInactive bool
	WithPayables    bool
	Limit           int
	Offset          int
}
