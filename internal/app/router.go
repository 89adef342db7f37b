package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/tyrebase/tyrebase/internal/catalog"
	"github.com/tyrebase/tyrebase/internal/masterdata/categories"
	"github.com/tyrebase/tyrebase/internal/masterdata/subcategories"
	"github.com/tyrebase/tyrebase/internal/masterdata/tires"
	"github.com/tyrebase/tyrebase/internal/masterdata/units"
	"github.com/tyrebase/tyrebase/internal/orders"
	"github.com/tyrebase/tyrebase/internal/partners"
	"github.com/tyrebase/tyrebase/internal/stock"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config

	CategoriesHandler    *categories.Handler
	UnitsHandler         *units.Handler
	SubcategoriesHandler *subcategories.Handler
	TiresHandler         *tires.Handler
	ProductsHandler      *catalog.Handler
	PartnersHandler      *partners.Handler
	OrdersHandler        *orders.Handler
	StockHandler         *stock.Handler
}

// NewRouter constructs the chi.Router with tyrebase defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(api chi.Router) {
		api.Route("/categories", params.CategoriesHandler.MountRoutes)
		api.Route("/units", params.UnitsHandler.MountRoutes)
		api.Route("/auto-subcategories", params.SubcategoriesHandler.MountRoutes)
		params.TiresHandler.MountRoutes(api)
		api.Route("/products", params.ProductsHandler.MountRoutes)
		api.Route("/counterparties", params.PartnersHandler.MountRoutes)
		api.Route("/orders", params.OrdersHandler.MountRoutes)
		api.Route("/stock", params.StockHandler.MountRoutes)
	})

	return r
}
