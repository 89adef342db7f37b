// Package stock derives available inventory from the full order history
// and keeps the movement journal the order engine writes into. There is
// no cached stock level anywhere, availability is recomputed from
// non-cancelled order items on every call.
package stock

// Totals carries per-product quantity sums over non-cancelled orders.
type Totals struct {
	Purchased int64
	Sold      int64
}

// Available is purchased minus sold. Negative values never persist, the
// order engine rejects any mutation that would drive it below zero.
func (t Totals) Available() int64 {
	return t.Purchased - t.Sold
}

// ReportRow is one line of the stock report.
type ReportRow struct {
	ProductID         int64  `json:"productId"`
	ProductName       string `json:"productName"`
	AvailableQuantity int64  `json:"availableQuantity"`
}

type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// MovementItem is one journal line to record for an order.
type MovementItem struct {
	ProductID int64
	Quantity  int64
}
