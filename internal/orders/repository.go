package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tyrebase/tyrebase/internal/partners"
	"github.com/tyrebase/tyrebase/internal/platform/db"
	"github.com/tyrebase/tyrebase/internal/platform/httpx"
	"github.com/tyrebase/tyrebase/internal/stock"
)

type Repository interface {
	List(ctx context.Context, f ListFilters) ([]Order, error)
	Get(ctx context.Context, id int64) (Order, error)
	GetCounterparty(ctx context.Context, id int64) (partners.Counterparty, error)
	MissingProducts(ctx context.Context, ids []int64) ([]int64, error)
	// Mutate runs fn inside one serializable transaction. The shortage
	// check and the order write share it, so two concurrent sales of the
	// last unit cannot both commit.
	Mutate(ctx context.Context, fn func(ctx context.Context, tx TxRepository) error) error
}

type TxRepository interface {
	TotalsFor(ctx context.Context, productIDs []int64, excludeOrderID int64) (map[int64]stock.Totals, error)
	NextDocNumber(ctx context.Context, t OrderType) (string, error)
	InsertOrder(ctx context.Context, o *Order) error
	UpdateOrder(ctx context.Context, o *Order) error
	ReplaceItems(ctx context.Context, orderID int64, items []OrderItem) error
	SetStatus(ctx context.Context, orderID int64, status OrderStatus) error
	ReplaceMovements(ctx context.Context, orderID int64, direction stock.Direction, items []stock.MovementItem) error
	DeleteMovements(ctx context.Context, orderID int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, f ListFilters) ([]Order, error) {
	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT o.id, o.type, o.doc_number, o.order_date, o.counterparty_id, c.name, o.total_cents, o.status
		FROM orders o
		JOIN counterparties c ON c.id = o.counterparty_id
		WHERE ($1 = '' OR o.type = $1)
		  AND ($2 = '' OR o.status = $2)
		  AND ($3::bigint = 0 OR o.counterparty_id = $3)
		ORDER BY o.order_date DESC, o.id DESC
		LIMIT $4 OFFSET $5`,
		string(f.Type), string(f.Status), f.CounterpartyID, limit, f.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.Type, &o.DocNumber, &o.OrderDate,
			&o.CounterpartyID, &o.CounterpartyName, &o.TotalCents, &o.Status); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Order, error) {
	var o Order
	err := r.pool.QueryRow(ctx, `
		SELECT o.id, o.type, o.doc_number, o.order_date, o.counterparty_id, c.name, o.total_cents, o.status
		FROM orders o
		JOIN counterparties c ON c.id = o.counterparty_id
		WHERE o.id = $1`, id).
		Scan(&o.ID, &o.Type, &o.DocNumber, &o.OrderDate,
			&o.CounterpartyID, &o.CounterpartyName, &o.TotalCents, &o.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, fmt.Errorf("%w: order %d", httpx.ErrNotFound, id)
		}
		return Order{}, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT i.id, i.product_id, p.name, i.quantity, i.price_cents
		FROM order_items i
		JOIN products p ON p.id = i.product_id
		WHERE i.order_id = $1
		ORDER BY i.id`, id)
	if err != nil {
		return Order{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.ID, &item.ProductID, &item.ProductName, &item.Quantity, &item.PriceCents); err != nil {
			return Order{}, err
		}
		o.Items = append(o.Items, item)
	}
	return o, rows.Err()
}

func (r *repository) GetCounterparty(ctx context.Context, id int64) (partners.Counterparty, error) {
	var c partners.Counterparty
	err := r.pool.QueryRow(ctx,
		`SELECT id, type, name, is_active FROM counterparties WHERE id = $1`, id).
		Scan(&c.ID, &c.Type, &c.Name, &c.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return partners.Counterparty{}, fmt.Errorf("%w: counterparty %d", httpx.ErrNotFound, id)
		}
		return partners.Counterparty{}, err
	}
	return c, nil
}

func (r *repository) MissingProducts(ctx context.Context, ids []int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT wanted.id
		FROM UNNEST($1::bigint[]) AS wanted(id)
		LEFT JOIN products p ON p.id = wanted.id
		WHERE p.id IS NULL`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var missing []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		missing = append(missing, id)
	}
	return missing, rows.Err()
}

func (r *repository) Mutate(ctx context.Context, fn func(ctx context.Context, tx TxRepository) error) error {
	return db.WithSerializableTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) TotalsFor(ctx context.Context, productIDs []int64, excludeOrderID int64) (map[int64]stock.Totals, error) {
	return stock.TotalsFor(ctx, r.tx, productIDs, excludeOrderID)
}

// NextDocNumber reserves the next sequence value for the order type in
// the current transaction. Values are never reused; a rollback leaves a
// gap, which is acceptable, a duplicate is not.
func (r *txRepository) NextDocNumber(ctx context.Context, t OrderType) (string, error) {
	var next int64
	err := r.tx.QueryRow(ctx, `
		INSERT INTO document_sequences (order_type, last_value)
		VALUES ($1, 1)
		ON CONFLICT (order_type) DO UPDATE SET last_value = document_sequences.last_value + 1
		RETURNING last_value`,
		string(t)).Scan(&next)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%06d", t.DocPrefix(), next), nil
}

func (r *txRepository) InsertOrder(ctx context.Context, o *Order) error {
	return r.tx.QueryRow(ctx, `
		INSERT INTO orders (type, doc_number, order_date, counterparty_id, total_cents, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		o.Type, o.DocNumber, o.OrderDate, o.CounterpartyID, o.TotalCents, o.Status).Scan(&o.ID)
}

func (r *txRepository) UpdateOrder(ctx context.Context, o *Order) error {
	tag, err := r.tx.Exec(ctx, `
		UPDATE orders
		SET doc_number = $2, order_date = $3, counterparty_id = $4, total_cents = $5, updated_at = NOW()
		WHERE id = $1`,
		o.ID, o.DocNumber, o.OrderDate, o.CounterpartyID, o.TotalCents)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: order %d", httpx.ErrNotFound, o.ID)
	}
	return nil
}

// ReplaceItems rewrites the line set wholesale: delete all, insert new.
func (r *txRepository) ReplaceItems(ctx context.Context, orderID int64, items []OrderItem) error {
	if _, err := r.tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID); err != nil {
		return err
	}
	for _, item := range items {
		_, err := r.tx.Exec(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, price_cents)
			VALUES ($1, $2, $3, $4)`,
			orderID, item.ProductID, item.Quantity, item.PriceCents)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *txRepository) SetStatus(ctx context.Context, orderID int64, status OrderStatus) error {
	tag, err := r.tx.Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`, orderID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: order %d", httpx.ErrNotFound, orderID)
	}
	return nil
}

func (r *txRepository) ReplaceMovements(ctx context.Context, orderID int64, direction stock.Direction, items []stock.MovementItem) error {
	return stock.ReplaceOrderMovements(ctx, r.tx, orderID, direction, items)
}

func (r *txRepository) DeleteMovements(ctx context.Context, orderID int64) error {
	return stock.DeleteOrderMovements(ctx, r.tx, orderID)
}
