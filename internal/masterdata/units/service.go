package units

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

func (s *Service) List(ctx context.Context, f shared.ListFilters) ([]Unit, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, id int64) (Unit, error) {
	if id <= 0 {
		return Unit{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, name string) (Unit, error) {
	name = strings.TrimSpace(name)
	if len(name) < 1 || len(name) > 20 {
		return Unit{}, fmt.Errorf("%w: unit name must be 1-20 characters", shared.ErrValidation)
	}
	return s.repo.Create(ctx, Unit{Name: name})
}
