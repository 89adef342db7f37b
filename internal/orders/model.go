// Package orders is the order engine: purchase and sale documents, the
// per-type document number sequence, and the stock-shortage check that
// guards every mutation. Each create, edit, or cancel runs as one
// serializable transaction.
package orders

import (
	"fmt"
	"time"

	"github.com/tyrebase/tyrebase/internal/partners"
	"github.com/tyrebase/tyrebase/internal/stock"
)

type OrderType string

const (
	TypePurchase OrderType = "PURCHASE"
	TypeSale     OrderType = "SALE"
)

func (t OrderType) Valid() bool {
	return t == TypePurchase || t == TypeSale
}

// DocPrefix is the document number prefix, P-000001 for purchases and
// S-000001 for sales.
func (t OrderType) DocPrefix() string {
	if t == TypePurchase {
		return "P"
	}
	return "S"
}

// PartnerType is the counterparty type the order type requires.
func (t OrderType) PartnerType() partners.PartnerType {
	if t == TypePurchase {
		return partners.TypeSupplier
	}
	return partners.TypeCustomer
}

// Direction is the stock movement direction the order type produces.
func (t OrderType) Direction() stock.Direction {
	if t == TypePurchase {
		return stock.DirectionIn
	}
	return stock.DirectionOut
}

type OrderStatus string

const (
	StatusActive OrderStatus = "ACTIVE"
	// StatusCancelled is terminal. Cancelled orders stay in the table but
	// are excluded from every stock total.
	StatusCancelled OrderStatus = "CANCELLED"
)

type Order struct {
	ID               int64       `json:"id"`
	Type             OrderType   `json:"type"`
	DocNumber        string      `json:"docNumber"`
	OrderDate        time.Time   `json:"orderDate"`
	CounterpartyID   int64       `json:"counterpartyId"`
	CounterpartyName string      `json:"counterpartyName,omitempty"`
	TotalCents       int64       `json:"totalCents"`
	Status           OrderStatus `json:"status"`
	Items            []OrderItem `json:"items,omitempty"`
}

type OrderItem struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName,omitempty"`
	Quantity    int64  `json:"quantity"`
	PriceCents  int64  `json:"priceCents"`
}

// Shortage records one product whose availability a rejected mutation
// would have driven negative.
type Shortage struct {
	ProductID int64 `json:"productId"`
	Available int64 `json:"available"`
	Requested int64 `json:"requested"`
}

// ShortageError carries the complete shortage list, not just the first
// deficit, so the caller sees every product that blocked the mutation.
type ShortageError struct {
	Shortages []Shortage
}

func (e *ShortageError) Error() string {
	return fmt.Sprintf("insufficient stock for %d product(s)", len(e.Shortages))
}

type ListFilters struct {
	Type           OrderType
	Status         OrderStatus
	CounterpartyID int64
	Limit          int
	Offset         int
}
