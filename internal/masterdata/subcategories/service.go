package subcategories

import (
	"context"
	"fmt"
	"strings"

	"github.com/tyrebase/tyrebase/internal/masterdata/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, f shared.ListFilters) ([]Subcategory, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, id int64) (Subcategory, error) {
	if id <= 0 {
		return Subcategory{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, name string) (Subcategory, error) {
	name = strings.TrimSpace(name)
	if len(name) < 2 || len(name) > 80 {
		return Subcategory{}, fmt.Errorf("%w: subcategory name must be 2-80 characters", shared.ErrValidation)
	}
	return s.repo.Create(ctx, Subcategory{Name: name})
}
