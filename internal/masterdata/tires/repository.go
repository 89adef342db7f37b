package tires

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tyrebase/tyrebase/internal/masterdata/shared"
)

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx so brand and
// model lookups can run inside a caller-owned transaction.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Repository interface {
	ListBrands(ctx context.Context) ([]Brand, error)
	CreateBrand(ctx context.Context, name string) (Brand, error)
	CreateModel(ctx context.Context, brandID int64, name string) (Model, error)
	ListSpeedIndices(ctx context.Context) ([]SpeedIndex, error)
	ListLoadIndices(ctx context.Context) ([]LoadIndex, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) ListBrands(ctx context.Context) ([]Brand, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT b.id, b.name, m.id, m.name
		FROM tire_brands b
		LEFT JOIN tire_models m ON m.brand_id = b.id
		ORDER BY b.name, m.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var brands []Brand
	for rows.Next() {
		var (
			brandID   int64
			brandName string
			modelID   *int64
			modelName *string
		)
		if err := rows.Scan(&brandID, &brandName, &modelID, &modelName); err != nil {
			return nil, err
		}
		if len(brands) == 0 || brands[len(brands)-1].ID != brandID {
			brands = append(brands, Brand{ID: brandID, Name: brandName})
		}
		if modelID != nil {
			last := &brands[len(brands)-1]
			last.Models = append(last.Models, Model{ID: *modelID, Name: *modelName, BrandID: brandID})
		}
	}
	return brands, rows.Err()
}

func (r *repository) CreateBrand(ctx context.Context, name string) (Brand, error) {
	b := Brand{Name: name}
	err := r.pool.QueryRow(ctx, `INSERT INTO tire_brands (name) VALUES ($1) RETURNING id`, name).
		Scan(&b.ID)
	if err != nil {
		return Brand{}, err
	}
	return b, nil
}

func (r *repository) CreateModel(ctx context.Context, brandID int64, name string) (Model, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tire_brands WHERE id = $1)`, brandID).
		Scan(&exists); err != nil {
		return Model{}, err
	}
	if !exists {
		return Model{}, shared.ErrNotFound
	}

	m := Model{Name: name, BrandID: brandID}
	err := r.pool.QueryRow(ctx, `INSERT INTO tire_models (name, brand_id) VALUES ($1, $2) RETURNING id`,
		name, brandID).Scan(&m.ID)
	if err != nil {
		return Model{}, err
	}
	return m, nil
}

func (r *repository) ListSpeedIndices(ctx context.Context) ([]SpeedIndex, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, code, max_kph FROM tire_speed_indices ORDER BY max_kph`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var indices []SpeedIndex
	for rows.Next() {
		var idx SpeedIndex
		if err := rows.Scan(&idx.ID, &idx.Code, &idx.MaxKPH); err != nil {
			return nil, err
		}
		indices = append(indices, idx)
	}
	return indices, rows.Err()
}

func (r *repository) ListLoadIndices(ctx context.Context) ([]LoadIndex, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, code, max_kg FROM tire_load_indices ORDER BY max_kg`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var indices []LoadIndex
	for rows.Next() {
		var idx LoadIndex
		if err := rows.Scan(&idx.ID, &idx.Code, &idx.MaxKG); err != nil {
			return nil, err
		}
		indices = append(indices, idx)
	}
	return indices, rows.Err()
}

// FindOrCreateBrand returns the brand with the given name, creating it when
// missing. Safe to call on a transaction shared with the caller.
func FindOrCreateBrand(ctx context.Context, q Querier, name string) (Brand, error) {
	var b Brand
	err := q.QueryRow(ctx, `SELECT id, name FROM tire_brands WHERE name = $1`, name).
		Scan(&b.ID, &b.Name)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Brand{}, err
	}
	b = Brand{Name: name}
	err = q.QueryRow(ctx, `
		INSERT INTO tire_brands (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`, name).Scan(&b.ID)
	if err != nil {
		return Brand{}, err
	}
	return b, nil
}

// FindOrCreateModel returns the model with the given name under a brand,
// creating it when missing.
func FindOrCreateModel(ctx context.Context, q Querier, brandID int64, name string) (Model, error) {
	var m Model
	err := q.QueryRow(ctx,
		`SELECT id, name, brand_id FROM tire_models WHERE name = $1 AND brand_id = $2`,
		name, brandID).Scan(&m.ID, &m.Name, &m.BrandID)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Model{}, err
	}
	m = Model{Name: name, BrandID: brandID}
	err = q.QueryRow(ctx, `
		INSERT INTO tire_models (name, brand_id) VALUES ($1, $2)
		ON CONFLICT (name, brand_id) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`, name, brandID).Scan(&m.ID)
	if err != nil {
		return Model{}, err
	}
	return m, nil
}

// GetModel loads a model by id, for validating that an explicit model
// reference belongs to the expected brand.
func GetModel(ctx context.Context, q Querier, id int64) (Model, error) {
	var m Model
	err := q.QueryRow(ctx, `SELECT id, name, brand_id FROM tire_models WHERE id = $1`, id).
		Scan(&m.ID, &m.Name, &m.BrandID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Model{}, shared.ErrNotFound
		}
		return Model{}, err
	}
	return m, nil
}
