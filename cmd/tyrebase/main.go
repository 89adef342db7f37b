package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/tyrebase/tyrebase/internal/app"
	"github.com/tyrebase/tyrebase/internal/catalog"
	"github.com/tyrebase/tyrebase/internal/masterdata/categories"
	"github.com/tyrebase/tyrebase/internal/masterdata/subcategories"
	"github.com/tyrebase/tyrebase/internal/masterdata/tires"
	"github.com/tyrebase/tyrebase/internal/masterdata/units"
	"github.com/tyrebase/tyrebase/internal/orders"
	"github.com/tyrebase/tyrebase/internal/partners"
	"github.com/tyrebase/tyrebase/internal/platform/cache"
	"github.com/tyrebase/tyrebase/internal/platform/db"
	"github.com/tyrebase/tyrebase/internal/stock"
	"github.com/tyrebase/tyrebase/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		// Reference caching degrades to direct reads without Redis.
		logger.Warn("redis unavailable, reference cache disabled", slog.Any("error", err))
		redisClient = nil
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	classifier := categories.NewClassifier(cfg.TireCategoryName, cfg.AllowedCategoryNames())

	categoriesService := categories.NewService(categories.NewRepository(pool), classifier)
	categoriesHandler := categories.NewHandler(logger, categoriesService)

	unitsHandler := units.NewHandler(logger, units.NewService(units.NewRepository(pool)))
	subcategoriesHandler := subcategories.NewHandler(logger, subcategories.NewService(subcategories.NewRepository(pool)))

	tiresCache := tires.NewCache(redisClient, cfg.RefDataCacheTTL)
	tiresService := tires.NewService(tires.NewRepository(pool), tiresCache, logger)
	tiresHandler := tires.NewHandler(logger, tiresService)

	productsService := catalog.NewService(catalog.NewRepository(pool), logger)
	productsHandler := catalog.NewHandler(logger, productsService)

	partnersService := partners.NewService(partners.NewRepository(pool), logger)
	partnersHandler := partners.NewHandler(logger, partnersService)

	ordersService := orders.NewService(orders.NewRepository(pool), logger)
	ordersHandler := orders.NewHandler(logger, ordersService)

	jobsClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() { _ = jobsClient.Close() }()

	stockService := stock.NewService(stock.NewRepository(pool), logger)
	stockHandler := stock.NewHandler(logger, stockService, func(ctx context.Context, threshold int64) error {
		_, err := jobsClient.EnqueueLowStockScan(ctx, jobs.LowStockScanPayload{Threshold: threshold})
		return err
	})

	router := app.NewRouter(app.RouterParams{
		Logger:               logger,
		Config:               cfg,
		CategoriesHandler:    categoriesHandler,
		UnitsHandler:         unitsHandler,
		SubcategoriesHandler: subcategoriesHandler,
		TiresHandler:         tiresHandler,
		ProductsHandler:      productsHandler,
		PartnersHandler:      partnersHandler,
		OrdersHandler:        ordersHandler,
		StockHandler:         stockHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
