package stock

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx. The order engine
// runs these queries inside its own serializable transaction so the
// availability read and the order write are one indivisible unit.
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// TotalsFor sums purchased and sold quantities per product over all
// non-cancelled orders. A non-zero excludeOrderID leaves that order out
// of both sums, which is how an edit is validated against the world
// without its own prior items.
func TotalsFor(ctx context.Context, q DBTX, productIDs []int64, excludeOrderID int64) (map[int64]Totals, error) {
	totals := make(map[int64]Totals, len(productIDs))
	if len(productIDs) == 0 {
		return totals, nil
	}
	rows, err := q.Query(ctx, `
		SELECT oi.product_id,
			COALESCE(SUM(oi.quantity) FILTER (WHERE o.type = 'PURCHASE'), 0),
			COALESCE(SUM(oi.quantity) FILTER (WHERE o.type = 'SALE'), 0)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.status <> 'CANCELLED'
		  AND oi.product_id = ANY($1)
		  AND ($2::bigint = 0 OR oi.order_id <> $2)
		GROUP BY oi.product_id`,
		productIDs, excludeOrderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			productID int64
			t         Totals
		)
		if err := rows.Scan(&productID, &t.Purchased, &t.Sold); err != nil {
			return nil, err
		}
		totals[productID] = t
	}
	return totals, rows.Err()
}

// ReplaceOrderMovements rewrites the movement journal for one order:
// existing lines are dropped and the current item set is recorded under
// a fresh batch reference. Runs in the caller's transaction.
func ReplaceOrderMovements(ctx context.Context, q DBTX, orderID int64, direction Direction, items []MovementItem) error {
	if _, err := q.Exec(ctx, `DELETE FROM stock_movements WHERE order_id = $1`, orderID); err != nil {
		return err
	}
	batchRef := uuid.New()
	for _, item := range items {
		_, err := q.Exec(ctx, `
			INSERT INTO stock_movements (batch_ref, product_id, order_id, direction, quantity)
			VALUES ($1, $2, $3, $4, $5)`,
			batchRef, item.ProductID, orderID, string(direction), item.Quantity)
		if err != nil {
			return err
		}
	}
	return nil
}

// DeleteOrderMovements clears the journal for a cancelled order so its
// lines no longer count as live references.
func DeleteOrderMovements(ctx context.Context, q DBTX, orderID int64) error {
	_, err := q.Exec(ctx, `DELETE FROM stock_movements WHERE order_id = $1`, orderID)
	return err
}
