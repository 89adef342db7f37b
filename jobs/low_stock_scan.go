package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tyrebase/tyrebase/internal/stock"
)

// LowStockScanJob walks the stock report and logs every product whose
// availability dropped to the threshold or below, so replenishment can
// be ordered before a sale bounces off the shortage check.
type LowStockScanJob struct {
	Pool   *pgxpool.Pool
	Logger *slog.Logger

	defaultThreshold int64
}

// NewLowStockScanJob initialises the scan handler.
func NewLowStockScanJob(pool *pgxpool.Pool, logger *slog.Logger, defaultThreshold int64) *LowStockScanJob {
	return &LowStockScanJob{Pool: pool, Logger: logger, defaultThreshold: defaultThreshold}
}

// Handle executes one scan.
func (j *LowStockScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Pool == nil {
		return errors.New("low stock scan: handler not configured")
	}
	var payload LowStockScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	threshold := payload.Threshold
	if threshold <= 0 {
		threshold = j.defaultThreshold
	}

	repo := stock.NewRepository(j.Pool)
	report, err := repo.Report(ctx)
	if err != nil {
		return err
	}

	low := 0
	for _, row := range report {
		if row.AvailableQuantity <= threshold {
			low++
			j.Logger.Warn("low stock",
				slog.Int64("productId", row.ProductID),
				slog.String("product", row.ProductName),
				slog.Int64("available", row.AvailableQuantity),
				slog.Int64("threshold", threshold))
		}
	}
	j.Logger.Info("low stock scan finished",
		slog.Int("products", len(report)),
		slog.Int("low", low))
	return nil
}
