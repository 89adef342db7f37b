package orders

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/tyrebase/tyrebase/internal/platform/httpx"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
	}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/export", h.Export)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Post("/cancel", h.Cancel)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	f, ok := h.listFilters(w, r)
	if !ok {
		return
	}
	orders, err := h.service.List(r.Context(), f)
	if err != nil {
		h.logger.Error("list orders failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if orders == nil {
		orders = []Order{}
	}
	httpx.JSON(w, http.StatusOK, orders)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid order id")
		return
	}
	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}
	order, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, order)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid order id")
		return
	}
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}
	order, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid order id")
		return
	}
	order, err := h.service.Cancel(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	f, ok := h.listFilters(w, r)
	if !ok {
		return
	}
	orders, err := h.service.List(r.Context(), f)
	if err != nil {
		h.logger.Error("export orders failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="orders.csv"`)
	if err := WriteCSV(w, orders); err != nil {
		h.logger.Error("write orders csv failed", slog.Any("error", err))
	}
}

// respondError surfaces shortage rejections with the itemized list so
// the caller sees every product that blocked the mutation.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var shortage *ShortageError
	if errors.As(err, &shortage) {
		httpx.ProblemWith(w, http.StatusConflict, "Insufficient Stock", shortage.Error(), shortage.Shortages)
		return
	}
	httpx.RespondError(w, err)
}

func (h *Handler) listFilters(w http.ResponseWriter, r *http.Request) (ListFilters, bool) {
	q := r.URL.Query()
	f := ListFilters{
		Type:   OrderType(q.Get("type")),
		Status: OrderStatus(q.Get("status")),
	}
	if raw := q.Get("counterpartyId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "counterpartyId must be an integer")
			return ListFilters{}, false
		}
		f.CounterpartyID = id
	}
	if raw := q.Get("limit"); raw != "" {
		f.Limit, _ = strconv.Atoi(raw)
	}
	if raw := q.Get("offset"); raw != "" {
		f.Offset, _ = strconv.Atoi(raw)
	}
	return f, true
}

func (h *Handler) decodeInput(w http.ResponseWriter, r *http.Request) (OrderInput, bool) {
	var in OrderInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON body")
		return OrderInput{}, false
	}
	if err := h.validator.Struct(in); err != nil {
		fields := make(map[string]string)
		for _, fieldErr := range err.(validator.ValidationErrors) {
			fields[fieldErr.Field()] = fieldErr.Tag()
		}
		httpx.ProblemWith(w, http.StatusBadRequest, "Validation Failed", "invalid order fields", fields)
		return OrderInput{}, false
	}
	return in, true
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
