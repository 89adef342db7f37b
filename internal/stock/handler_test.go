package stock

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newTestRouter(repo *fakeRepo, enqueue ScanEnqueueFunc) http.Handler {
	handler := NewHandler(slog.Default(), NewService(repo, slog.Default()), enqueue)
	r := chi.NewRouter()
	r.Route("/api/stock", handler.MountRoutes)
	return r
}

func TestScanEnqueuesLowStockJob(t *testing.T) {
	var got int64 = -1
	router := newTestRouter(&fakeRepo{}, func(ctx context.Context, threshold int64) error {
		got = threshold
		return nil
	})

	req := httptest.NewRequest(http.MethodPost, "/api/stock/scan", strings.NewReader(`{"threshold":2}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Equal(t, int64(2), got)
}

func TestScanWithoutBodyUsesWorkerDefault(t *testing.T) {
	var got int64 = -1
	router := newTestRouter(&fakeRepo{}, func(ctx context.Context, threshold int64) error {
		got = threshold
		return nil
	})

	req := httptest.NewRequest(http.MethodPost, "/api/stock/scan", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Equal(t, int64(0), got)
}

func TestScanRouteAbsentWithoutEnqueuer(t *testing.T) {
	router := newTestRouter(&fakeRepo{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/stock/scan", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
