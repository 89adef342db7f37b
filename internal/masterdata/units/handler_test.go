package units

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/tyrebase/tyrebase/internal/masterdata/shared"
)

type fakeRepo struct {
	rows        []Unit
	lastFilters shared.ListFilters
}

func (f *fakeRepo) List(ctx context.Context, filters shared.ListFilters) ([]Unit, error) {
	f.lastFilters = filters
	var out []Unit
	for _, u := range f.rows {
		if filters.Search == "" || strings.Contains(strings.ToLower(u.Name), strings.ToLower(filters.Search)) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeRepo) Get(ctx context.Context, id int64) (Unit, error) {
	for _, u := range f.rows {
		if u.ID == id {
			return u, nil
		}
	}
	return Unit{}, shared.ErrNotFound
}

func (f *fakeRepo) Create(ctx context.Context, unit Unit) (Unit, error) {
	unit.ID = int64(len(f.rows) + 1)
	f.rows = append(f.rows, unit)
	return unit, nil
}

func newTestRouter(repo *fakeRepo) http.Handler {
	handler := NewHandler(slog.Default(), NewService(repo))
	r := chi.NewRouter()
	r.Route("/api/units", handler.MountRoutes)
	return r
}

func TestListAppliesQueryFilters(t *testing.T) {
	repo := &fakeRepo{rows: []Unit{{ID: 1, Name: "шт"}, {ID: 2, Name: "компл"}}}
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/units?q=шт&limit=5&offset=10", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, shared.ListFilters{Search: "шт", Limit: 5, Offset: 10}, repo.lastFilters)

	var units []Unit
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &units))
	require.Len(t, units, 1)
	require.Equal(t, "шт", units[0].Name)
}

func TestListWithoutFiltersReturnsAll(t *testing.T) {
	repo := &fakeRepo{rows: []Unit{{ID: 1, Name: "шт"}, {ID: 2, Name: "компл"}}}
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/units", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, shared.ListFilters{}, repo.lastFilters)

	var units []Unit
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &units))
	require.Len(t, units, 2)
}
