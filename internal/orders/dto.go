package orders

import (
	"fmt"
	"strings"
	"time"

	"github.com/tyrebase/tyrebase/internal/platform/httpx"
)

type ItemInput struct {
	ProductID  int64 `json:"productId" validate:"required,gt=0"`
	Quantity   int64 `json:"quantity" validate:"required,gt=0"`
	PriceCents int64 `json:"priceCents" validate:"gte=0"`
}

// OrderInput carries a create or full-update request. Items replace the
// order's line set wholesale; there is no partial item patching.
type OrderInput struct {
	Type           OrderType   `json:"type" validate:"required,oneof=PURCHASE SALE"`
	CounterpartyID int64       `json:"counterpartyId" validate:"required,gt=0"`
	DocNumber      string      `json:"docNumber" validate:"omitempty,max=20"`
	OrderDate      string      `json:"orderDate" validate:"omitempty"`
	Items          []ItemInput `json:"items" validate:"required,min=1,dive"`
}

// parseDate accepts RFC3339 or a bare date, defaulting to now.
func (in OrderInput) parseDate(now time.Time) (time.Time, error) {
	raw := strings.TrimSpace(in.OrderDate)
	if raw == "" {
		return now, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: orderDate %q is not a valid date", httpx.ErrValidation, raw)
}

// quantityDeltas accumulates requested quantities by product. An order
// may list the same product on several lines.
func (in OrderInput) quantityDeltas() map[int64]int64 {
	deltas := make(map[int64]int64, len(in.Items))
	for _, item := range in.Items {
		deltas[item.ProductID] += item.Quantity
	}
	return deltas
}

func (in OrderInput) totalCents() int64 {
	var total int64
	for _, item := range in.Items {
		total += item.Quantity * item.PriceCents
	}
	return total
}
