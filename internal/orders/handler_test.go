package orders

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newTestRouter(store *fakeStore) http.Handler {
	handler := NewHandler(slog.Default(), newTestService(store))
	r := chi.NewRouter()
	r.Route("/api/orders", handler.MountRoutes)
	return r
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateOrderShortageReturnsItemizedConflict(t *testing.T) {
	store := newFakeStore()
	router := newTestRouter(store)

	rec := postJSON(t, router, "/api/orders", purchase(100, 2, 500))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, router, "/api/orders", sale(100, 5, 800))
	require.Equal(t, http.StatusConflict, rec.Code)

	var problem struct {
		Title  string     `json:"title"`
		Status int        `json:"status"`
		Errors []Shortage `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	require.Equal(t, "Insufficient Stock", problem.Title)
	require.Equal(t, http.StatusConflict, problem.Status)
	require.Len(t, problem.Errors, 1)
	require.Equal(t, Shortage{ProductID: 100, Available: 2, Requested: 5}, problem.Errors[0])
}

func TestCreateOrderRejectsMalformedBody(t *testing.T) {
	router := newTestRouter(newFakeStore())

	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOrderValidatorReportsFields(t *testing.T) {
	router := newTestRouter(newFakeStore())

	rec := postJSON(t, router, "/api/orders", map[string]any{"type": "SALE"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var problem struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	require.Contains(t, problem.Errors, "CounterpartyID")
	require.Contains(t, problem.Errors, "Items")
}

func TestExportOrdersServesCSV(t *testing.T) {
	store := newFakeStore()
	router := newTestRouter(store)

	rec := postJSON(t, router, "/api/orders", purchase(100, 2, 12550))
	require.Equal(t, http.StatusCreated, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/export", nil)
	out := httptest.NewRecorder()
	router.ServeHTTP(out, req)
	require.Equal(t, http.StatusOK, out.Code)
	require.Contains(t, out.Header().Get("Content-Type"), "text/csv")

	body := out.Body.String()
	require.Contains(t, body, "Document,Type,Date,Counterparty,Status,Total")
	require.Contains(t, body, "P-000001")
}
