package units

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tyrebase/tyrebase/internal/masterdata/shared"
)

type Repository interface {
	List(ctx context.Context, f shared.ListFilters) ([]Unit, error)
	Get(ctx context.Context, id int64) (Unit, error)
	Create(ctx context.Context, unit Unit) (Unit, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, f shared.ListFilters) ([]Unit, error) {
	limit, offset := f.Window()
	rows, err := r.pool.Query(ctx, `
		SELECT id, name FROM units
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		ORDER BY name
		LIMIT $2 OFFSET $3`, f.Search, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []Unit
	for rows.Next() {
		var u Unit
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Unit, error) {
	var u Unit
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM units WHERE id = $1`, id).Scan(&u.ID, &u.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Unit{}, shared.ErrNotFound
		}
		return Unit{}, err
	}
	return u, nil
}

func (r *repository) Create(ctx context.Context, unit Unit) (Unit, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO units (name) VALUES ($1) RETURNING id`, unit.Name).
		Scan(&unit.ID)
	if err != nil {
		return Unit{}, err
	}
	return unit, nil
}
