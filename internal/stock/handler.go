package stock

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tyrebase/tyrebase/internal/platform/httpx"
)

// ScanEnqueueFunc submits a one-off low-stock scan to the job queue.
type ScanEnqueueFunc func(ctx context.Context, threshold int64) error

type Handler struct {
	logger      *slog.Logger
	service     *Service
	enqueueScan ScanEnqueueFunc
}

func NewHandler(logger *slog.Logger, service *Service, enqueueScan ScanEnqueueFunc) *Handler {
	return &Handler{logger: logger, service: service, enqueueScan: enqueueScan}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.Report)
	if h.enqueueScan != nil {
		r.Post("/scan", h.Scan)
	}
}

func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Report(r.Context())
	if err != nil {
		h.logger.Error("stock report failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if report == nil {
		report = []ReportRow{}
	}
	httpx.JSON(w, http.StatusOK, report)
}

type scanRequest struct {
	Threshold int64 `json:"threshold"`
}

// Scan enqueues a low-stock scan outside the cron schedule. A zero
// threshold defers to the worker's configured default.
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if r.ContentLength != 0 {
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON body")
			return
		}
	}

	if err := h.enqueueScan(r.Context(), req.Threshold); err != nil {
		h.logger.Error("enqueue low-stock scan failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}
