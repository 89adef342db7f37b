package subcategories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tyrebase/tyrebase/internal/masterdata/shared"
)

type Repository interface {
	List(ctx context.Context, f shared.ListFilters) ([]Subcategory, error)
	Get(ctx context.Context, id int64) (Subcategory, error)
	Create(ctx context.Context, sub Subcategory) (Subcategory, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, f shared.ListFilters) ([]Subcategory, error) {
	limit, offset := f.Window()
	rows, err := r.pool.Query(ctx, `
		SELECT id, name FROM auto_subcategories
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		ORDER BY name
		LIMIT $2 OFFSET $3`, f.Search, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []Subcategory
	for rows.Next() {
		var s Subcategory
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Subcategory, error) {
	var s Subcategory
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM auto_subcategories WHERE id = $1`, id).
		Scan(&s.ID, &s.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Subcategory{}, shared.ErrNotFound
		}
		return Subcategory{}, err
	}
	return s, nil
}

func (r *repository) Create(ctx context.Context, sub Subcategory) (Subcategory, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO auto_subcategories (name) VALUES ($1) RETURNING id`, sub.Name).
		Scan(&sub.ID)
	if err != nil {
		return Subcategory{}, err
	}
	return sub, nil
}
