package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tyrebase/tyrebase/internal/masterdata/categories"
	"github.com/tyrebase/tyrebase/internal/platform/httpx"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List(ctx context.Context, f ListFilters) ([]Product, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, fmt.Errorf("%w: invalid product id", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in ProductInput) (Product, error) {
	product, err := s.prepare(ctx, 0, in)
	if err != nil {
		return Product{}, err
	}
	err = s.repo.Save(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := s.resolveTireRefs(ctx, tx, &product, in); err != nil {
			return err
		}
		if err := tx.InsertProduct(ctx, &product); err != nil {
			return err
		}
		return tx.ReplaceDetail(ctx, &product)
	})
	if err != nil {
		return Product{}, err
	}
	return s.repo.Get(ctx, product.ID)
}

func (s *Service) Update(ctx context.Context, id int64, in ProductInput) (Product, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return Product{}, err
	}
	product, err := s.prepare(ctx, id, in)
	if err != nil {
		return Product{}, err
	}
	err = s.repo.Save(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := s.resolveTireRefs(ctx, tx, &product, in); err != nil {
			return err
		}
		if err := tx.UpdateProduct(ctx, &product); err != nil {
			return err
		}
		return tx.ReplaceDetail(ctx, &product)
	})
	if err != nil {
		return Product{}, err
	}
	return s.repo.Get(ctx, id)
}

// Delete removes a product and its detail row, but only when nothing
// references it. A product on any order or stock movement stays.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	orderItems, movements, err := s.repo.ReferenceCounts(ctx, id)
	if err != nil {
		return err
	}
	if orderItems > 0 || movements > 0 {
		return fmt.Errorf("%w: product %d is referenced by %d order items and %d stock movements",
			httpx.ErrConflict, id, orderItems, movements)
	}
	return s.repo.Delete(ctx, id)
}

// prepare runs every check that does not need the write transaction:
// category classification, variant shape, and reference existence.
func (s *Service) prepare(ctx context.Context, id int64, in ProductInput) (Product, error) {
	category, err := s.repo.GetCategory(ctx, in.CategoryID)
	if err != nil {
		return Product{}, err
	}

	product := Product{ID: id, CategoryID: category.ID, CategoryKind: category.Kind, UnitID: in.UnitID}

	if in.UnitID != nil {
		ok, err := s.repo.UnitExists(ctx, *in.UnitID)
		if err != nil {
			return Product{}, err
		}
		if !ok {
			return Product{}, fmt.Errorf("%w: unit %d", httpx.ErrNotFound, *in.UnitID)
		}
	}

	switch category.Kind {
	case categories.KindTire:
		if in.Tire == nil {
			return Product{}, fmt.Errorf("%w: tire fields are required for a tire category", httpx.ErrValidation)
		}
		if in.Auto != nil {
			return Product{}, fmt.Errorf("%w: auto fields are not allowed for a tire category", httpx.ErrValidation)
		}
		if in.Tire.BrandID == nil && in.Tire.BrandName == "" {
			return Product{}, fmt.Errorf("%w: brandId or brandName is required", httpx.ErrValidation)
		}
		if in.Tire.ModelID == nil && in.Tire.ModelName == "" {
			return Product{}, fmt.Errorf("%w: modelId or modelName is required", httpx.ErrValidation)
		}
		if ok, err := s.repo.SpeedIndexExists(ctx, in.Tire.SpeedIndexID); err != nil {
			return Product{}, err
		} else if !ok {
			return Product{}, fmt.Errorf("%w: speed index %d", httpx.ErrNotFound, in.Tire.SpeedIndexID)
		}
		if ok, err := s.repo.LoadIndexExists(ctx, in.Tire.LoadIndexID); err != nil {
			return Product{}, err
		} else if !ok {
			return Product{}, fmt.Errorf("%w: load index %d", httpx.ErrNotFound, in.Tire.LoadIndexID)
		}
		product.Tire = &TireDetail{
			Size:         in.Tire.Size,
			SpeedIndexID: in.Tire.SpeedIndexID,
			LoadIndexID:  in.Tire.LoadIndexID,
			IsXL:         in.Tire.IsXL,
			IsRunFlat:    in.Tire.IsRunFlat,
		}
	case categories.KindAuto:
		if in.Auto == nil {
			return Product{}, fmt.Errorf("%w: auto fields are required for a non-tire category", httpx.ErrValidation)
		}
		if in.Tire != nil {
			return Product{}, fmt.Errorf("%w: tire fields are not allowed for a non-tire category", httpx.ErrValidation)
		}
		ok, err := s.repo.SubcategoryExists(ctx, in.Auto.SubcategoryID)
		if err != nil {
			return Product{}, err
		}
		if !ok {
			return Product{}, fmt.Errorf("%w: subcategory %d", httpx.ErrNotFound, in.Auto.SubcategoryID)
		}
		product.Auto = &AutoDetail{Brand: in.Auto.Brand, Model: in.Auto.Model, SubcategoryID: in.Auto.SubcategoryID}
		product.Name = deriveName(in.Auto.Brand, in.Auto.Model, false, false)
	default:
		return Product{}, fmt.Errorf("%w: category %d has unknown kind %q", httpx.ErrValidation, category.ID, category.Kind)
	}

	return product, nil
}

// resolveTireRefs resolves brand and model inside the write transaction
// so find-or-create commits together with the product row.
func (s *Service) resolveTireRefs(ctx context.Context, tx TxRepository, product *Product, in ProductInput) error {
	if product.Tire == nil {
		return nil
	}
	brand, err := tx.ResolveBrand(ctx, in.Tire.BrandID, in.Tire.BrandName)
	if err != nil {
		return err
	}
	model, err := tx.ResolveModel(ctx, brand.ID, in.Tire.ModelID, in.Tire.ModelName)
	if err != nil {
		return err
	}
	product.Tire.BrandID = brand.ID
	product.Tire.BrandName = brand.Name
	product.Tire.ModelID = model.ID
	product.Tire.ModelName = model.Name
	product.Name = deriveName(brand.Name, model.Name, in.Tire.IsXL, in.Tire.IsRunFlat)
	return nil
}

// deriveName builds the display name from brand and model, with XL and
// RunFlat suffix tokens for tires carrying those flags.
func deriveName(brand, model string, isXL, isRunFlat bool) string {
	parts := []string{brand, model}
	if isXL {
		parts = append(parts, "XL")
	}
	if isRunFlat {
		parts = append(parts, "RunFlat")
	}
	return strings.Join(parts, " ")
}
