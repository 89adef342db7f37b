package partners

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tyrebase/tyrebase/internal/platform/httpx"
)

type Repository interface {
	List(ctx context.Context, f ListFilters) ([]Counterparty, error)
	Get(ctx context.Context, id int64) (Counterparty, error)
	Create(ctx context.Context, c Counterparty) (Counterparty, error)
	Update(ctx context.Context, c Counterparty) error
	SetActive(ctx context.Context, id int64, active bool) error
	OrderCount(ctx context.Context, id int64) (int64, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, f ListFilters) ([]Counterparty, error) {
	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 100
	}

	query := `
		SELECT c.id, c.type, c.name, c.phone, c.email, c.tax_id, c.address, c.note, c.is_active`
	if f.WithPayables {
		query += `,
			COALESCE((SELECT SUM(o.total_cents) FROM orders o
				WHERE o.counterparty_id = c.id
				  AND o.type = 'PURCHASE'
				  AND o.status <> 'CANCELLED'), 0) AS payable_cents`
	}
	query += `
		FROM counterparties c
		WHERE ($1 = '' OR c.name ILIKE '%' || $1 || '%' OR c.phone LIKE '%' || $1 || '%' OR c.tax_id LIKE '%' || $1 || '%')
		  AND ($2 = '' OR c.type = $2)
		  AND ($3 OR c.is_active)
		ORDER BY c.name
		LIMIT $4 OFFSET $5`

	rows, err := r.pool.Query(ctx, query, f.Search, string(f.Type), f.IncludeInactive, limit, f.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var partners []Counterparty
	for rows.Next() {
		var c Counterparty
		dest := []any{&c.ID, &c.Type, &c.Name, &c.Phone, &c.Email, &c.TaxID, &c.Address, &c.Note, &c.IsActive}
		if f.WithPayables {
			dest = append(dest, &c.PayableCents)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		partners = append(partners, c)
	}
	return partners, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Counterparty, error) {
	var c Counterparty
	err := r.pool.QueryRow(ctx, `
		SELECT id, type, name, phone, email, tax_id, address, note, is_active
		FROM counterparties WHERE id = $1`, id).
		Scan(&c.ID, &c.Type, &c.Name, &c.Phone, &c.Email, &c.TaxID, &c.Address, &c.Note, &c.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Counterparty{}, fmt.Errorf("%w: counterparty %d", httpx.ErrNotFound, id)
		}
		return Counterparty{}, err
	}
	return c, nil
}

func (r *repository) Create(ctx context.Context, c Counterparty) (Counterparty, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO counterparties (type, name, phone, email, tax_id, address, note, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
		RETURNING id, is_active`,
		c.Type, c.Name, c.Phone, c.Email, c.TaxID, c.Address, c.Note).
		Scan(&c.ID, &c.IsActive)
	if err != nil {
		return Counterparty{}, err
	}
	return c, nil
}

func (r *repository) Update(ctx context.Context, c Counterparty) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE counterparties
		SET type = $2, name = $3, phone = $4, email = $5, tax_id = $6, address = $7, note = $8, updated_at = NOW()
		WHERE id = $1`,
		c.ID, c.Type, c.Name, c.Phone, c.Email, c.TaxID, c.Address, c.Note)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: counterparty %d", httpx.ErrNotFound, c.ID)
	}
	return nil
}

func (r *repository) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE counterparties SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: counterparty %d", httpx.ErrNotFound, id)
	}
	return nil
}

func (r *repository) OrderCount(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE counterparty_id = $1`, id).
		Scan(&count)
	return count, err
}
