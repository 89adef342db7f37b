package tires

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tyrebase/tyrebase/internal/masterdata/shared"
)

type Service struct {
	repo   Repository
	cache  *Cache
	logger *slog.Logger
}

func NewService(repo Repository, cache *Cache, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger}
}

func (s *Service) ListBrands(ctx context.Context) ([]Brand, error) {
	var brands []Brand
	err := s.cache.FetchJSON(ctx, keyBrands, &brands, func(ctx context.Context) (interface{}, error) {
		return s.repo.ListBrands(ctx)
	})
	if err != nil {
		return nil, err
	}
	return brands, nil
}

func (s *Service) CreateBrand(ctx context.Context, name string) (Brand, error) {
	name = strings.TrimSpace(name)
	if len(name) < 2 || len(name) > 60 {
		return Brand{}, fmt.Errorf("%w: brand name must be 2-60 characters", shared.ErrValidation)
	}
	brand, err := s.repo.CreateBrand(ctx, name)
	if err != nil {
		return Brand{}, err
	}
	s.invalidate(ctx, keyBrands)
	return brand, nil
}

func (s *Service) CreateModel(ctx context.Context, brandID int64, name string) (Model, error) {
	if brandID <= 0 {
		return Model{}, shared.ErrInvalidID
	}
	name = strings.TrimSpace(name)
	if len(name) < 1 || len(name) > 80 {
		return Model{}, fmt.Errorf("%w: model name must be 1-80 characters", shared.ErrValidation)
	}
	model, err := s.repo.CreateModel(ctx, brandID, name)
	if err != nil {
		return Model{}, err
	}
	s.invalidate(ctx, keyBrands)
	return model, nil
}

func (s *Service) ListSpeedIndices(ctx context.Context) ([]SpeedIndex, error) {
	var indices []SpeedIndex
	err := s.cache.FetchJSON(ctx, keySpeedIndices, &indices, func(ctx context.Context) (interface{}, error) {
		return s.repo.ListSpeedIndices(ctx)
	})
	if err != nil {
		return nil, err
	}
	return indices, nil
}

func (s *Service) ListLoadIndices(ctx context.Context) ([]LoadIndex, error) {
	var indices []LoadIndex
	err := s.cache.FetchJSON(ctx, keyLoadIndices, &indices, func(ctx context.Context) (interface{}, error) {
		return s.repo.ListLoadIndices(ctx)
	})
	if err != nil {
		return nil, err
	}
	return indices, nil
}

func (s *Service) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.logger.Warn("reference cache invalidation failed", slog.Any("error", err))
	}
}
