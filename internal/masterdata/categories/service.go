package categories

import (
	"context"
	"fmt"
	"strings"

	"github.com/tyrebase/tyrebase/internal/masterdata/shared"
)

// Classifier resolves the catalog kind for a category name. The allow-list
// and tire category name come from configuration.
type Classifier struct {
	tireName string
	allowed  []string
}

// NewClassifier builds a Classifier from configuration values.
func NewClassifier(tireName string, allowed []string) Classifier {
	return Classifier{tireName: tireName, allowed: allowed}
}

// Allowed reports whether the category name is in the configured allow-list.
func (c Classifier) Allowed(name string) bool {
	for _, a := range c.allowed {
		if a == name {
			return true
		}
	}
	return false
}

// Kind returns the catalog kind for a category name.
func (c Classifier) Kind(name string) CatalogKind {
	if name == c.tireName {
		return KindTire
	}
	return KindAuto
}

type Service struct {
	repo       Repository
	classifier Classifier
}

func NewService(repo Repository, classifier Classifier) *Service {
	return &Service{repo: repo, classifier: classifier}
}

func (s *Service) List(ctx context.Context) ([]Category, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Category, error) {
	if id <= 0 {
		return Category{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, name string) (Category, error) {
	name = strings.TrimSpace(name)
	if len(name) < 2 || len(name) > 80 {
		return Category{}, fmt.Errorf("%w: category name must be 2-80 characters", shared.ErrValidation)
	}
	if !s.classifier.Allowed(name) {
		return Category{}, fmt.Errorf("%w: unsupported category %q", shared.ErrValidation, name)
	}
	return s.repo.Create(ctx, Category{Name: name, Kind: s.classifier.Kind(name)})
}
