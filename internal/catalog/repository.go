package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tyrebase/tyrebase/internal/masterdata/categories"
	"github.com/tyrebase/tyrebase/internal/masterdata/tires"
	"github.com/tyrebase/tyrebase/internal/platform/db"
	"github.com/tyrebase/tyrebase/internal/platform/httpx"
)

type Repository interface {
	List(ctx context.Context, f ListFilters) ([]Product, error)
	Get(ctx context.Context, id int64) (Product, error)
	GetCategory(ctx context.Context, id int64) (categories.Category, error)
	UnitExists(ctx context.Context, id int64) (bool, error)
	SubcategoryExists(ctx context.Context, id int64) (bool, error)
	SpeedIndexExists(ctx context.Context, id int64) (bool, error)
	LoadIndexExists(ctx context.Context, id int64) (bool, error)
	ReferenceCounts(ctx context.Context, productID int64) (orderItems, movements int64, err error)
	Save(ctx context.Context, fn func(ctx context.Context, tx TxRepository) error) error
	Delete(ctx context.Context, productID int64) error
}

// TxRepository scopes catalog writes to one transaction so product,
// detail row, and brand/model auto-creation commit or roll back together.
type TxRepository interface {
	ResolveBrand(ctx context.Context, id *int64, name string) (tires.Brand, error)
	ResolveModel(ctx context.Context, brandID int64, id *int64, name string) (tires.Model, error)
	InsertProduct(ctx context.Context, p *Product) error
	UpdateProduct(ctx context.Context, p *Product) error
	ReplaceDetail(ctx context.Context, p *Product) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const productSelect = `
	SELECT p.id, p.name, p.category_id, c.kind, p.unit_id,
		tp.brand_id, b.name, tp.model_id, m.name,
		tp.size, tp.speed_index_id, tp.load_index_id, tp.is_xl, tp.is_run_flat,
		ap.brand, ap.model, ap.subcategory_id
	FROM products p
	JOIN categories c ON c.id = p.category_id
	LEFT JOIN tire_products tp ON tp.product_id = p.id
	LEFT JOIN tire_brands b ON b.id = tp.brand_id
	LEFT JOIN tire_models m ON m.id = tp.model_id
	LEFT JOIN auto_products ap ON ap.product_id = p.id`

func scanProduct(row pgx.Row) (Product, error) {
	var (
		p            Product
		tireBrandID  *int64
		tireBrand    *string
		tireModelID  *int64
		tireModel    *string
		tireSize     *string
		speedIndexID *int64
		loadIndexID  *int64
		isXL         *bool
		isRunFlat    *bool
		autoBrand    *string
		autoModel    *string
		subcatID     *int64
	)
	err := row.Scan(&p.ID, &p.Name, &p.CategoryID, &p.CategoryKind, &p.UnitID,
		&tireBrandID, &tireBrand, &tireModelID, &tireModel,
		&tireSize, &speedIndexID, &loadIndexID, &isXL, &isRunFlat,
		&autoBrand, &autoModel, &subcatID)
	if err != nil {
		return Product{}, err
	}
	if tireBrandID != nil {
		p.Tire = &TireDetail{
			BrandID:      *tireBrandID,
			ModelID:      *tireModelID,
			Size:         *tireSize,
			SpeedIndexID: *speedIndexID,
			LoadIndexID:  *loadIndexID,
			IsXL:         *isXL,
			IsRunFlat:    *isRunFlat,
		}
		if tireBrand != nil {
			p.Tire.BrandName = *tireBrand
		}
		if tireModel != nil {
			p.Tire.ModelName = *tireModel
		}
	}
	if subcatID != nil {
		p.Auto = &AutoDetail{Brand: *autoBrand, Model: *autoModel, SubcategoryID: *subcatID}
	}
	return p, nil
}

func (r *repository) List(ctx context.Context, f ListFilters) ([]Product, error) {
	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, productSelect+`
		WHERE ($1 = '' OR p.name ILIKE '%' || $1 || '%')
		  AND ($2::bigint = 0 OR p.category_id = $2)
		ORDER BY p.name
		LIMIT $3 OFFSET $4`,
		f.Search, f.CategoryID, limit, f.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, productSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, fmt.Errorf("%w: product %d", httpx.ErrNotFound, id)
		}
		return Product{}, err
	}
	return p, nil
}

func (r *repository) GetCategory(ctx context.Context, id int64) (categories.Category, error) {
	var c categories.Category
	err := r.pool.QueryRow(ctx, `SELECT id, name, kind FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Kind)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return categories.Category{}, fmt.Errorf("%w: category %d", httpx.ErrNotFound, id)
		}
		return categories.Category{}, err
	}
	return c, nil
}

func (r *repository) UnitExists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM units WHERE id = $1)`, id)
}

func (r *repository) SubcategoryExists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM auto_subcategories WHERE id = $1)`, id)
}

func (r *repository) SpeedIndexExists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM tire_speed_indices WHERE id = $1)`, id)
}

func (r *repository) LoadIndexExists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM tire_load_indices WHERE id = $1)`, id)
}

func (r *repository) exists(ctx context.Context, query string, id int64) (bool, error) {
	var ok bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (r *repository) ReferenceCounts(ctx context.Context, productID int64) (int64, int64, error) {
	var orderItems, movements int64
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM order_items WHERE product_id = $1),
			(SELECT COUNT(*) FROM stock_movements WHERE product_id = $1)`,
		productID).Scan(&orderItems, &movements)
	if err != nil {
		return 0, 0, err
	}
	return orderItems, movements, nil
}

func (r *repository) Save(ctx context.Context, fn func(ctx context.Context, tx TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

func (r *repository) Delete(ctx context.Context, productID int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM tire_products WHERE product_id = $1`, productID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM auto_products WHERE product_id = $1`, productID); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM products WHERE id = $1`, productID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: product %d", httpx.ErrNotFound, productID)
		}
		return nil
	})
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) ResolveBrand(ctx context.Context, id *int64, name string) (tires.Brand, error) {
	if id != nil {
		var b tires.Brand
		err := r.tx.QueryRow(ctx, `SELECT id, name FROM tire_brands WHERE id = $1`, *id).
			Scan(&b.ID, &b.Name)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return tires.Brand{}, fmt.Errorf("%w: tire brand %d", httpx.ErrNotFound, *id)
			}
			return tires.Brand{}, err
		}
		return b, nil
	}
	return tires.FindOrCreateBrand(ctx, r.tx, name)
}

func (r *txRepository) ResolveModel(ctx context.Context, brandID int64, id *int64, name string) (tires.Model, error) {
	if id != nil {
		m, err := tires.GetModel(ctx, r.tx, *id)
		if err != nil {
			return tires.Model{}, fmt.Errorf("%w: tire model %d", httpx.ErrNotFound, *id)
		}
		if m.BrandID != brandID {
			return tires.Model{}, fmt.Errorf("%w: model %d does not belong to brand %d", httpx.ErrValidation, m.ID, brandID)
		}
		return m, nil
	}
	return tires.FindOrCreateModel(ctx, r.tx, brandID, name)
}

func (r *txRepository) InsertProduct(ctx context.Context, p *Product) error {
	return r.tx.QueryRow(ctx, `
		INSERT INTO products (name, category_id, unit_id)
		VALUES ($1, $2, $3)
		RETURNING id`,
		p.Name, p.CategoryID, p.UnitID).Scan(&p.ID)
}

func (r *txRepository) UpdateProduct(ctx context.Context, p *Product) error {
	tag, err := r.tx.Exec(ctx, `
		UPDATE products SET name = $2, category_id = $3, unit_id = $4
		WHERE id = $1`,
		p.ID, p.Name, p.CategoryID, p.UnitID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: product %d", httpx.ErrNotFound, p.ID)
	}
	return nil
}

// ReplaceDetail drops both detail rows before inserting the current
// variant, so a category switch never leaves a stale counterpart behind.
func (r *txRepository) ReplaceDetail(ctx context.Context, p *Product) error {
	if _, err := r.tx.Exec(ctx, `DELETE FROM tire_products WHERE product_id = $1`, p.ID); err != nil {
		return err
	}
	if _, err := r.tx.Exec(ctx, `DELETE FROM auto_products WHERE product_id = $1`, p.ID); err != nil {
		return err
	}
	switch {
	case p.Tire != nil:
		_, err := r.tx.Exec(ctx, `
			INSERT INTO tire_products (product_id, brand_id, model_id, size, speed_index_id, load_index_id, is_xl, is_run_flat)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			p.ID, p.Tire.BrandID, p.Tire.ModelID, p.Tire.Size,
			p.Tire.SpeedIndexID, p.Tire.LoadIndexID, p.Tire.IsXL, p.Tire.IsRunFlat)
		return err
	case p.Auto != nil:
		_, err := r.tx.Exec(ctx, `
			INSERT INTO auto_products (product_id, brand, model, subcategory_id)
			VALUES ($1, $2, $3, $4)`,
			p.ID, p.Auto.Brand, p.Auto.Model, p.Auto.SubcategoryID)
		return err
	}
	return errors.New("catalog: product has no detail variant")
}
