package tires

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

// MountRoutes registers the tire reference endpoints on the API router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/tire-brands", func(r chi.Router) {
		r.Get("/", h.ListBrands)
		r.Post("/", h.CreateBrand)
	})
	r.Post("/tire-models", h.CreateModel)
	r.Route("/tire-indices", func(r chi.Router) {
		r.Get("/speed", h.ListSpeedIndices)
		r.Get("/load", h.ListLoadIndices)
	})
}

func (h *Handler) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.service.ListBrands(r.Context())
	if err != nil {
		h.logger.Error("list tire brands failed", slog.Any("error", err))
		shared.RespondError(w, err)
		return
	}
	if brands == nil {
		brands = []Brand{}
	}
	httpx.JSON(w, http.StatusOK, brands)
}

type createBrandRequest struct {
	Name string `json:"name"`
}

func (h *Handler) CreateBrand(w http.ResponseWriter, r *http.Request) {
	var req createBrandRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON body")
		return
	}

	brand, err := h.service.CreateBrand(r.Context(), req.Name)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, brand)
}

type createModelRequest struct {
	Name    string `json:"name"`
	BrandID int64  `json:"brandId"`
}

func (h *Handler) CreateModel(w http.ResponseWriter, r *http.Request) {
	var req createModelRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON body")
		return
	}

	model, err := h.service.CreateModel(r.Context(), req.BrandID, req.Name)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, model)
}

func (h *Handler) ListSpeedIndices(w http.ResponseWriter, r *http.Request) {
	indices, err := h.service.ListSpeedIndices(r.Context())
	if err != nil {
		h.logger.Error("list speed indices failed", slog.Any("error", err))
		shared.RespondError(w, err)
		return
	}
	if indices == nil {
		indices = []SpeedIndex{}
	}
	httpx.JSON(w, http.StatusOK, indices)
}

func (h *Handler) ListLoadIndices(w http.ResponseWriter, r *http.Request) {
	indices, err := h.service.ListLoadIndices(r.Context())
	if err != nil {
		h.logger.Error("list load indices failed", slog.Any("error", err))
		shared.RespondError(w, err)
		return
	}
	if indices == nil {
		indices = []LoadIndex{}
	}
	httpx.JSON(w, http.StatusOK, indices)
}
