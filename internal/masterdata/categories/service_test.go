package categories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tyrebase/tyrebase/internal/masterdata/shared"
)

type fakeRepo struct {
	rows   []Category
	nextID int64
}

func (f *fakeRepo) List(ctx context.Context) ([]Category, error) {
	return f.rows, nil
}

func (f *fakeRepo) Get(ctx context.Context, id int64) (Category, error) {
	for _, c := range f.rows {
		if c.ID == id {
			return c, nil
		}
	}
	return Category{}, shared.ErrNotFound
}

func (f *fakeRepo) Create(ctx context.Context, c Category) (Category, error) {
	f.nextID++
	c.ID = f.nextID
	f.rows = append(f.rows, c)
	return c, nil
}

func newTestService() (*Service, *fakeRepo) {
	repo := &fakeRepo{}
	classifier := NewClassifier("Шини", []string{"Шини", "Автотовари"})
	return NewService(repo, classifier), repo
}

func TestCreateStoresResolvedKind(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	tire, err := svc.Create(ctx, "Шини")
	require.NoError(t, err)
	require.Equal(t, KindTire, tire.Kind)

	auto, err := svc.Create(ctx, "Автотовари")
	require.NoError(t, err)
	require.Equal(t, KindAuto, auto.Kind)
}

func TestCreateRejectsNameOutsideAllowList(t *testing.T) {
	svc, repo := newTestService()

	_, err := svc.Create(context.Background(), "Мастила")
	require.ErrorIs(t, err, shared.ErrValidation)
	require.Empty(t, repo.rows)
}

func TestCreateTrimsAndValidatesLength(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.Create(context.Background(), "  Шини  ")
	require.NoError(t, err)
	require.Equal(t, "Шини", created.Name)

	_, err = svc.Create(context.Background(), "a")
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestClassifierKindFallsBackToAuto(t *testing.T) {
	classifier := NewClassifier("Шини", []string{"Шини", "Автотовари"})
	require.Equal(t, KindTire, classifier.Kind("Шини"))
	require.Equal(t, KindAuto, classifier.Kind("Автотовари"))
	require.False(t, classifier.Allowed("Інше"))
}
