package orders

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/tyrebase/tyrebase/internal/platform/httpx"
	"github.com/tyrebase/tyrebase/internal/stock"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

func (s *Service) List(ctx context.Context, f ListFilters) ([]Order, error) {
	if f.Type != "" && !f.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown order type %q", httpx.ErrValidation, f.Type)
	}
	return s.repo.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, id int64) (Order, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in OrderInput) (Order, error) {
	orderDate, err := s.validate(ctx, in)
	if err != nil {
		return Order{}, err
	}

	order := Order{
		Type:           in.Type,
		OrderDate:      orderDate,
		CounterpartyID: in.CounterpartyID,
		TotalCents:     in.totalCents(),
		Status:         StatusActive,
		DocNumber:      in.DocNumber,
	}

	err = s.repo.Mutate(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := s.checkShortages(ctx, tx, in, 0); err != nil {
			return err
		}
		if order.DocNumber == "" {
			docNumber, err := tx.NextDocNumber(ctx, in.Type)
			if err != nil {
				return err
			}
			order.DocNumber = docNumber
		}
		if err := tx.InsertOrder(ctx, &order); err != nil {
			return err
		}
		if err := tx.ReplaceItems(ctx, order.ID, itemsOf(in)); err != nil {
			return err
		}
		return tx.ReplaceMovements(ctx, order.ID, in.Type.Direction(), movementsOf(in))
	})
	if err != nil {
		return Order{}, err
	}

	s.logger.Info("order created",
		slog.String("docNumber", order.DocNumber),
		slog.String("type", string(order.Type)),
		slog.Int64("totalCents", order.TotalCents))
	return s.repo.Get(ctx, order.ID)
}

// Update replaces an order's content wholesale. The shortage check runs
// against the world without this order's prior items, so an edit is
// never falsely rejected against itself.
func (s *Service) Update(ctx context.Context, id int64, in OrderInput) (Order, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if existing.Status == StatusCancelled {
		return Order{}, fmt.Errorf("%w: order %s is cancelled", httpx.ErrConflict, existing.DocNumber)
	}
	if in.Type != existing.Type {
		return Order{}, fmt.Errorf("%w: order type cannot change from %s to %s",
			httpx.ErrConflict, existing.Type, in.Type)
	}

	orderDate, err := s.validate(ctx, in)
	if err != nil {
		return Order{}, err
	}

	order := Order{
		ID:             id,
		Type:           existing.Type,
		DocNumber:      existing.DocNumber,
		OrderDate:      orderDate,
		CounterpartyID: in.CounterpartyID,
		TotalCents:     in.totalCents(),
		Status:         existing.Status,
	}
	if in.DocNumber != "" {
		order.DocNumber = in.DocNumber
	}

	err = s.repo.Mutate(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := s.checkShortages(ctx, tx, in, id); err != nil {
			return err
		}
		if err := tx.UpdateOrder(ctx, &order); err != nil {
			return err
		}
		if err := tx.ReplaceItems(ctx, id, itemsOf(in)); err != nil {
			return err
		}
		return tx.ReplaceMovements(ctx, id, in.Type.Direction(), movementsOf(in))
	})
	if err != nil {
		return Order{}, err
	}
	return s.repo.Get(ctx, id)
}

// Cancel moves an order to its terminal state. Cancelled orders drop
// out of all stock totals; there is no way back.
func (s *Service) Cancel(ctx context.Context, id int64) (Order, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if existing.Status == StatusCancelled {
		return Order{}, fmt.Errorf("%w: order %s is already cancelled", httpx.ErrConflict, existing.DocNumber)
	}

	err = s.repo.Mutate(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.SetStatus(ctx, id, StatusCancelled); err != nil {
			return err
		}
		return tx.DeleteMovements(ctx, id)
	})
	if err != nil {
		return Order{}, err
	}

	s.logger.Info("order cancelled", slog.String("docNumber", existing.DocNumber))
	return s.repo.Get(ctx, id)
}

// validate covers everything that can be rejected before the write
// transaction opens: counterparty compatibility, date shape, and
// product existence.
func (s *Service) validate(ctx context.Context, in OrderInput) (time.Time, error) {
	if !in.Type.Valid() {
		return time.Time{}, fmt.Errorf("%w: unknown order type %q", httpx.ErrValidation, in.Type)
	}
	if len(in.Items) == 0 {
		return time.Time{}, fmt.Errorf("%w: order needs at least one item", httpx.ErrValidation)
	}
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return time.Time{}, fmt.Errorf("%w: quantity must be positive for product %d", httpx.ErrValidation, item.ProductID)
		}
		if item.PriceCents < 0 {
			return time.Time{}, fmt.Errorf("%w: price cannot be negative for product %d", httpx.ErrValidation, item.ProductID)
		}
	}

	orderDate, err := in.parseDate(s.now())
	if err != nil {
		return time.Time{}, err
	}

	counterparty, err := s.repo.GetCounterparty(ctx, in.CounterpartyID)
	if err != nil {
		return time.Time{}, err
	}
	if counterparty.Type != in.Type.PartnerType() {
		return time.Time{}, fmt.Errorf("%w: %s order requires a %s counterparty, %q is a %s",
			httpx.ErrValidation, in.Type, in.Type.PartnerType(), counterparty.Name, counterparty.Type)
	}

	ids := make([]int64, 0, len(in.Items))
	seen := make(map[int64]bool, len(in.Items))
	for _, item := range in.Items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}
	missing, err := s.repo.MissingProducts(ctx, ids)
	if err != nil {
		return time.Time{}, err
	}
	if len(missing) > 0 {
		return time.Time{}, fmt.Errorf("%w: products %v do not exist", httpx.ErrNotFound, missing)
	}
	return orderDate, nil
}

// checkShortages folds the requested quantities into current totals and
// collects every product the mutation would oversell. All shortages are
// reported together.
func (s *Service) checkShortages(ctx context.Context, tx TxRepository, in OrderInput, excludeOrderID int64) error {
	deltas := in.quantityDeltas()
	productIDs := make([]int64, 0, len(deltas))
	for id := range deltas {
		productIDs = append(productIDs, id)
	}
	sort.Slice(productIDs, func(i, j int) bool { return productIDs[i] < productIDs[j] })

	totals, err := tx.TotalsFor(ctx, productIDs, excludeOrderID)
	if err != nil {
		return err
	}

	var shortages []Shortage
	for _, productID := range productIDs {
		t := totals[productID]
		if in.Type == TypePurchase {
			t.Purchased += deltas[productID]
		} else {
			t.Sold += deltas[productID]
		}
		if t.Available() < 0 {
			shortages = append(shortages, Shortage{
				ProductID: productID,
				Available: totals[productID].Available(),
				Requested: deltas[productID],
			})
		}
	}
	if len(shortages) > 0 {
		return &ShortageError{Shortages: shortages}
	}
	return nil
}

func itemsOf(in OrderInput) []OrderItem {
	items := make([]OrderItem, 0, len(in.Items))
	for _, item := range in.Items {
		items = append(items, OrderItem{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			PriceCents: item.PriceCents,
		})
	}
	return items
}

func movementsOf(in OrderInput) []stock.MovementItem {
	deltas := in.quantityDeltas()
	ids := make([]int64, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	movements := make([]stock.MovementItem, 0, len(ids))
	for _, id := range ids {
		movements = append(movements, stock.MovementItem{ProductID: id, Quantity: deltas[id]})
	}
	return movements
}
