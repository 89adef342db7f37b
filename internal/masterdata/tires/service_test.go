package tires

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	brands     []Brand
	speed      []SpeedIndex
	load       []LoadIndex
	listCalls  int
	nextID     int64
	lastCreate string
}

func (f *fakeRepo) ListBrands(ctx context.Context) ([]Brand, error) {
	f.listCalls++
	return f.brands, nil
}

func (f *fakeRepo) CreateBrand(ctx context.Context, name string) (Brand, error) {
	f.nextID++
	f.lastCreate = name
	b := Brand{ID: f.nextID, Name: name}
	f.brands = append(f.brands, b)
	return b, nil
}

func (f *fakeRepo) CreateModel(ctx context.Context, brandID int64, name string) (Model, error) {
	f.nextID++
	return Model{ID: f.nextID, Name: name, BrandID: brandID}, nil
}

func (f *fakeRepo) ListSpeedIndices(ctx context.Context) ([]SpeedIndex, error) {
	f.listCalls++
	return f.speed, nil
}

func (f *fakeRepo) ListLoadIndices(ctx context.Context) ([]LoadIndex, error) {
	f.listCalls++
	return f.load, nil
}

func newTestService(t *testing.T, repo *fakeRepo) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := NewCache(client, time.Minute)
	return NewService(repo, cache, slog.Default()), mr
}

func TestListSpeedIndicesCaches(t *testing.T) {
	repo := &fakeRepo{speed: []SpeedIndex{{ID: 1, Code: "T", MaxKPH: 190}, {ID: 2, Code: "H", MaxKPH: 210}}}
	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	first, err := svc.ListSpeedIndices(ctx)
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.Equal(t, "T", first[0].Code)

	second, err := svc.ListSpeedIndices(ctx)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, repo.listCalls)
}

func TestCreateBrandInvalidatesCache(t *testing.T) {
	repo := &fakeRepo{brands: []Brand{{ID: 1, Name: "Michelin"}}}
	svc, mr := newTestService(t, repo)
	ctx := context.Background()

	brands, err := svc.ListBrands(ctx)
	require.NoError(t, err)
	require.Len(t, brands, 1)
	require.True(t, mr.Exists(keyBrands))

	created, err := svc.CreateBrand(ctx, "Grenlander")
	require.NoError(t, err)
	require.Equal(t, "Grenlander", created.Name)
	require.False(t, mr.Exists(keyBrands))

	brands, err = svc.ListBrands(ctx)
	require.NoError(t, err)
	require.Len(t, brands, 2)
}

func TestCreateBrandRejectsShortName(t *testing.T) {
	repo := &fakeRepo{}
	svc, _ := newTestService(t, repo)

	_, err := svc.CreateBrand(context.Background(), " M ")
	require.Error(t, err)
	require.Empty(t, repo.lastCreate)
}

func TestCreateModelRequiresBrand(t *testing.T) {
	repo := &fakeRepo{}
	svc, _ := newTestService(t, repo)

	_, err := svc.CreateModel(context.Background(), 0, "Winter GL868")
	require.Error(t, err)
}

func TestFetchJSONWithoutRedisFallsThrough(t *testing.T) {
	cache := NewCache(nil, time.Minute)
	var out []LoadIndex
	err := cache.FetchJSON(context.Background(), keyLoadIndices, &out, func(ctx context.Context) (interface{}, error) {
		return []LoadIndex{{ID: 1, Code: "91", MaxKG: 615}}, nil
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.InDelta(t, 615, out[0].MaxKG, 0.01)
}
