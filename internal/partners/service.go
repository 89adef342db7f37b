package partners

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tyrebase/tyrebase/internal/platform/httpx"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List(ctx context.Context, f ListFilters) ([]Counterparty, error) {
	if f.Type != "" && !f.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown counterparty type %q", httpx.ErrValidation, f.Type)
	}
	return s.repo.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, id int64) (Counterparty, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in CounterpartyInput) (Counterparty, error) {
	in.normalize()
	phone, err := NormalizePhone(in.Phone)
	if err != nil {
		return Counterparty{}, err
	}
	return s.repo.Create(ctx, Counterparty{
		Type:    in.Type,
		Name:    in.Name,
		Phone:   phone,
		Email:   in.Email,
		TaxID:   in.TaxID,
		Address: in.Address,
		Note:    in.Note,
	})
}

// Update rewrites a counterparty. Changing the type is rejected once any
// order references the row, because order/counterparty compatibility
// would silently break for history.
func (s *Service) Update(ctx context.Context, id int64, in CounterpartyInput) (Counterparty, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return Counterparty{}, err
	}
	in.normalize()
	phone, err := NormalizePhone(in.Phone)
	if err != nil {
		return Counterparty{}, err
	}
	if in.Type != existing.Type {
		orders, err := s.repo.OrderCount(ctx, id)
		if err != nil {
			return Counterparty{}, err
		}
		if orders > 0 {
			return Counterparty{}, fmt.Errorf("%w: cannot change type of counterparty %d, %d orders reference it",
				httpx.ErrConflict, id, orders)
		}
	}
	updated := Counterparty{
		ID:       id,
		Type:     in.Type,
		Name:     in.Name,
		Phone:    phone,
		Email:    in.Email,
		TaxID:    in.TaxID,
		Address:  in.Address,
		Note:     in.Note,
		IsActive: existing.IsActive,
	}
	if err := s.repo.Update(ctx, updated); err != nil {
		return Counterparty{}, err
	}
	return updated, nil
}

// Deactivate is the delete operation: the row stays, listings hide it.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.SetActive(ctx, id, false)
}

func (s *Service) SetStatus(ctx context.Context, id int64, active bool) (Counterparty, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return Counterparty{}, err
	}
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return Counterparty{}, err
	}
	return s.repo.Get(ctx, id)
}
