package subcategories

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tyrebase/tyrebase/internal/masterdata/shared"
	"github.com/tyrebase/tyrebase/internal/platform/httpx"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	subs, err := h.service.List(r.Context(), shared.ParseListFilters(r.URL.Query()))
	if err != nil {
		h.logger.Error("list subcategories failed", slog.Any("error", err))
		shared.RespondError(w, err)
		return
	}
	if subs == nil {
		subs = []Subcategory{}
	}
	httpx.JSON(w, http.StatusOK, subs)
}

type createRequest struct {
	Name string `json:"name"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON body")
		return
	}

	sub, err := h.service.Create(r.Context(), req.Name)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, sub)
}
