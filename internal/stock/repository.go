package stock

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Report(ctx context.Context) ([]ReportRow, error)
	TotalsFor(ctx context.Context, productIDs []int64, excludeOrderID int64) (map[int64]Totals, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Report(ctx context.Context) ([]ReportRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.name,
			COALESCE(SUM(oi.quantity) FILTER (WHERE o.type = 'PURCHASE' AND o.status <> 'CANCELLED'), 0)
			- COALESCE(SUM(oi.quantity) FILTER (WHERE o.type = 'SALE' AND o.status <> 'CANCELLED'), 0)
		FROM products p
		LEFT JOIN order_items oi ON oi.product_id = p.id
		LEFT JOIN orders o ON o.id = oi.order_id
		GROUP BY p.id, p.name
		ORDER BY p.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var report []ReportRow
	for rows.Next() {
		var row ReportRow
		if err := rows.Scan(&row.ProductID, &row.ProductName, &row.AvailableQuantity); err != nil {
			return nil, err
		}
		report = append(report, row)
	}
	return report, rows.Err()
}

func (r *repository) TotalsFor(ctx context.Context, productIDs []int64, excludeOrderID int64) (map[int64]Totals, error) {
	return TotalsFor(ctx, r.pool, productIDs, excludeOrderID)
}
