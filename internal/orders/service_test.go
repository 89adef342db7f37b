package orders

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tyrebase/tyrebase/internal/partners"
	"github.com/tyrebase/tyrebase/internal/platform/httpx"
	"github.com/tyrebase/tyrebase/internal/stock"
)

// fakeStore emulates the storage layer. Mutate serializes through a
// mutex the way the real implementation serializes through transaction
// isolation, which lets the concurrent oversell property run in-memory.
type fakeStore struct {
	mu             sync.Mutex
	counterparties map[int64]partners.Counterparty
	products       map[int64]bool
	orders         map[int64]*Order
	movements      map[int64][]stock.MovementItem
	seq            map[OrderType]int64
	nextID         int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		counterparties: map[int64]partners.Counterparty{
			1: {ID: 1, Type: partners.TypeSupplier, Name: "ACME", IsActive: true},
			2: {ID: 2, Type: partners.TypeCustomer, Name: "Roadster LLC", IsActive: true},
		},
		products:  map[int64]bool{100: true, 200: true},
		orders:    map[int64]*Order{},
		movements: map[int64][]stock.MovementItem{},
		seq:       map[OrderType]int64{},
	}
}

func (f *fakeStore) List(ctx context.Context, filters ListFilters) ([]Order, error) {
	var out []Order
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeStore) Get(ctx context.Context, id int64) (Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return Order{}, fmt.Errorf("%w: order %d", httpx.ErrNotFound, id)
	}
	return *o, nil
}

func (f *fakeStore) GetCounterparty(ctx context.Context, id int64) (partners.Counterparty, error) {
	c, ok := f.counterparties[id]
	if !ok {
		return partners.Counterparty{}, fmt.Errorf("%w: counterparty %d", httpx.ErrNotFound, id)
	}
	return c, nil
}

func (f *fakeStore) MissingProducts(ctx context.Context, ids []int64) ([]int64, error) {
	var missing []int64
	for _, id := range ids {
		if !f.products[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (f *fakeStore) Mutate(ctx context.Context, fn func(ctx context.Context, tx TxRepository) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	snapshot := f.clone()
	if err := fn(ctx, &fakeTx{store: f}); err != nil {
		f.restore(snapshot)
		return err
	}
	return nil
}

func (f *fakeStore) clone() *fakeStore {
	orders := make(map[int64]*Order, len(f.orders))
	for id, o := range f.orders {
		copied := *o
		copied.Items = append([]OrderItem(nil), o.Items...)
		orders[id] = &copied
	}
	movements := make(map[int64][]stock.MovementItem, len(f.movements))
	for id, m := range f.movements {
		movements[id] = append([]stock.MovementItem(nil), m...)
	}
	seq := make(map[OrderType]int64, len(f.seq))
	for t, v := range f.seq {
		seq[t] = v
	}
	return &fakeStore{orders: orders, movements: movements, seq: seq, nextID: f.nextID}
}

// restore rolls state back after a failed mutation, except the sequence
// counter, which keeps its gap like the real store.
func (f *fakeStore) restore(snapshot *fakeStore) {
	f.orders = snapshot.orders
	f.movements = snapshot.movements
	f.nextID = snapshot.nextID
}

type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) TotalsFor(ctx context.Context, productIDs []int64, excludeOrderID int64) (map[int64]stock.Totals, error) {
	wanted := make(map[int64]bool, len(productIDs))
	for _, id := range productIDs {
		wanted[id] = true
	}
	totals := map[int64]stock.Totals{}
	for _, o := range t.store.orders {
		if o.Status == StatusCancelled || o.ID == excludeOrderID {
			continue
		}
		for _, item := range o.Items {
			if !wanted[item.ProductID] {
				continue
			}
			agg := totals[item.ProductID]
			if o.Type == TypePurchase {
				agg.Purchased += item.Quantity
			} else {
				agg.Sold += item.Quantity
			}
			totals[item.ProductID] = agg
		}
	}
	return totals, nil
}

func (t *fakeTx) NextDocNumber(ctx context.Context, orderType OrderType) (string, error) {
	t.store.seq[orderType]++
	return fmt.Sprintf("%s-%06d", orderType.DocPrefix(), t.store.seq[orderType]), nil
}

func (t *fakeTx) InsertOrder(ctx context.Context, o *Order) error {
	t.store.nextID++
	o.ID = t.store.nextID
	copied := *o
	t.store.orders[o.ID] = &copied
	return nil
}

func (t *fakeTx) UpdateOrder(ctx context.Context, o *Order) error {
	existing, ok := t.store.orders[o.ID]
	if !ok {
		return fmt.Errorf("%w: order %d", httpx.ErrNotFound, o.ID)
	}
	copied := *o
	copied.Items = existing.Items
	t.store.orders[o.ID] = &copied
	return nil
}

func (t *fakeTx) ReplaceItems(ctx context.Context, orderID int64, items []OrderItem) error {
	o, ok := t.store.orders[orderID]
	if !ok {
		return fmt.Errorf("%w: order %d", httpx.ErrNotFound, orderID)
	}
	o.Items = append([]OrderItem(nil), items...)
	return nil
}

func (t *fakeTx) SetStatus(ctx context.Context, orderID int64, status OrderStatus) error {
	o, ok := t.store.orders[orderID]
	if !ok {
		return fmt.Errorf("%w: order %d", httpx.ErrNotFound, orderID)
	}
	o.Status = status
	return nil
}

func (t *fakeTx) ReplaceMovements(ctx context.Context, orderID int64, direction stock.Direction, items []stock.MovementItem) error {
	t.store.movements[orderID] = append([]stock.MovementItem(nil), items...)
	return nil
}

func (t *fakeTx) DeleteMovements(ctx context.Context, orderID int64) error {
	delete(t.store.movements, orderID)
	return nil
}

func (f *fakeStore) available(t *testing.T, productID int64) int64 {
	t.Helper()
	totals, err := (&fakeTx{store: f}).TotalsFor(context.Background(), []int64{productID}, 0)
	require.NoError(t, err)
	return totals[productID].Available()
}

func newTestService(store *fakeStore) *Service {
	return NewService(store, slog.Default())
}

func purchase(productID, quantity, priceCents int64) OrderInput {
	return OrderInput{
		Type:           TypePurchase,
		CounterpartyID: 1,
		Items:          []ItemInput{{ProductID: productID, Quantity: quantity, PriceCents: priceCents}},
	}
}

func sale(productID, quantity, priceCents int64) OrderInput {
	return OrderInput{
		Type:           TypeSale,
		CounterpartyID: 2,
		Items:          []ItemInput{{ProductID: productID, Quantity: quantity, PriceCents: priceCents}},
	}
}

func TestCreateSaleRejectsShortageWithFullList(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.Create(ctx, purchase(100, 10, 500))
	require.NoError(t, err)

	in := OrderInput{
		Type:           TypeSale,
		CounterpartyID: 2,
		Items: []ItemInput{
			{ProductID: 100, Quantity: 12, PriceCents: 800},
			{ProductID: 200, Quantity: 5, PriceCents: 300},
		},
	}
	_, err = svc.Create(ctx, in)

	var shortage *ShortageError
	require.ErrorAs(t, err, &shortage)
	require.Len(t, shortage.Shortages, 2)
	require.Equal(t, Shortage{ProductID: 100, Available: 10, Requested: 12}, shortage.Shortages[0])
	require.Equal(t, Shortage{ProductID: 200, Available: 0, Requested: 5}, shortage.Shortages[1])

	require.Len(t, store.orders, 1)
	require.Equal(t, int64(10), store.available(t, 100))
}

func TestUpdateValidatesAgainstWorldWithoutItself(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.Create(ctx, purchase(100, 1, 500))
	require.NoError(t, err)
	created, err := svc.Create(ctx, sale(100, 1, 800))
	require.NoError(t, err)
	require.Equal(t, int64(0), store.available(t, 100))

	// Re-saving the only unit in stock must not be flagged against itself.
	updated, err := svc.Update(ctx, created.ID, sale(100, 1, 900))
	require.NoError(t, err)
	require.Equal(t, int64(900), updated.TotalCents)

	// Going beyond the stock still fails, reported against availability
	// without this order.
	_, err = svc.Update(ctx, created.ID, sale(100, 2, 900))
	var shortage *ShortageError
	require.ErrorAs(t, err, &shortage)
	require.Equal(t, Shortage{ProductID: 100, Available: 1, Requested: 2}, shortage.Shortages[0])
}

func TestCounterpartyTypeMustMatchOrderType(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	in := sale(100, 1, 800)
	in.CounterpartyID = 1 // supplier
	_, err := svc.Create(ctx, in)
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.Empty(t, store.orders)

	in = purchase(100, 1, 500)
	in.CounterpartyID = 2 // customer
	_, err = svc.Create(ctx, in)
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.Empty(t, store.orders)
}

func TestDocNumbersArePerTypeAndMonotonic(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	first, err := svc.Create(ctx, purchase(100, 5, 500))
	require.NoError(t, err)
	require.Equal(t, "P-000001", first.DocNumber)

	second, err := svc.Create(ctx, purchase(100, 5, 500))
	require.NoError(t, err)
	require.Equal(t, "P-000002", second.DocNumber)

	saleOrder, err := svc.Create(ctx, sale(100, 1, 800))
	require.NoError(t, err)
	require.Equal(t, "S-000001", saleOrder.DocNumber)
}

func TestExplicitDocNumberIsKept(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	in := purchase(100, 1, 500)
	in.DocNumber = "P-900001"
	created, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, "P-900001", created.DocNumber)
	require.Zero(t, store.seq[TypePurchase])
}

func TestDuplicateProductLinesAccumulate(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.Create(ctx, purchase(100, 5, 500))
	require.NoError(t, err)

	in := OrderInput{
		Type:           TypeSale,
		CounterpartyID: 2,
		Items: []ItemInput{
			{ProductID: 100, Quantity: 3, PriceCents: 800},
			{ProductID: 100, Quantity: 3, PriceCents: 750},
		},
	}
	_, err = svc.Create(ctx, in)
	var shortage *ShortageError
	require.ErrorAs(t, err, &shortage)
	require.Equal(t, Shortage{ProductID: 100, Available: 5, Requested: 6}, shortage.Shortages[0])

	in.Items[1].Quantity = 2
	created, err := svc.Create(ctx, in)
	require.NoError(t, err)
	require.Equal(t, int64(3*800+2*750), created.TotalCents)
	require.Equal(t, int64(0), store.available(t, 100))
}

func TestCancelIsTerminalAndFreesStock(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.Create(ctx, purchase(100, 5, 500))
	require.NoError(t, err)
	saleOrder, err := svc.Create(ctx, sale(100, 5, 800))
	require.NoError(t, err)
	require.Equal(t, int64(0), store.available(t, 100))

	cancelled, err := svc.Cancel(ctx, saleOrder.ID)
	require.NoError(t, err)
	require.Equal(t, StatusCancelled, cancelled.Status)
	require.Equal(t, int64(5), store.available(t, 100))
	require.Empty(t, store.movements[saleOrder.ID])

	_, err = svc.Cancel(ctx, saleOrder.ID)
	require.ErrorIs(t, err, httpx.ErrConflict)

	_, err = svc.Update(ctx, saleOrder.ID, sale(100, 1, 800))
	require.ErrorIs(t, err, httpx.ErrConflict)
}

func TestOrderTypeCannotChangeOnEdit(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, purchase(100, 5, 500))
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, sale(100, 1, 800))
	require.ErrorIs(t, err, httpx.ErrConflict)
}

func TestUnknownProductRejected(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	_, err := svc.Create(context.Background(), purchase(999, 1, 500))
	require.ErrorIs(t, err, httpx.ErrNotFound)
	require.Empty(t, store.orders)
}

func TestOrderDateParsing(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	created, err := svc.Create(ctx, purchase(100, 1, 500))
	require.NoError(t, err)
	require.Equal(t, now, created.OrderDate)

	in := purchase(100, 1, 500)
	in.OrderDate = "2026-08-01"
	created, err = svc.Create(ctx, in)
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), created.OrderDate)

	in.OrderDate = "yesterday"
	_, err = svc.Create(ctx, in)
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestConcurrentSalesOfLastUnitOneSucceeds(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.Create(ctx, purchase(100, 1, 500))
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(ctx, sale(100, 1, 800))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, shortages int
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		var shortage *ShortageError
		require.ErrorAs(t, err, &shortage)
		shortages++
	}
	require.Equal(t, 1, successes)
	require.Equal(t, 1, shortages)
	require.Equal(t, int64(0), store.available(t, 100))
}

func TestEndToEndPurchaseThenSellOut(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, purchase(100, 10, 500))
	require.NoError(t, err)
	require.Equal(t, int64(5000), created.TotalCents)
	require.Equal(t, int64(10), store.available(t, 100))

	saleOrder, err := svc.Create(ctx, sale(100, 10, 800))
	require.NoError(t, err)
	require.Equal(t, int64(8000), saleOrder.TotalCents)
	require.Equal(t, int64(0), store.available(t, 100))

	_, err = svc.Create(ctx, sale(100, 1, 800))
	var shortage *ShortageError
	require.ErrorAs(t, err, &shortage)
	require.Equal(t, Shortage{ProductID: 100, Available: 0, Requested: 1}, shortage.Shortages[0])
}
