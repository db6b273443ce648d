package lowstock

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sellerdesk/crm-svc/internal/dal/logfile"
	"github.com/sellerdesk/crm-svc/internal/service/services/crmsvc"
	"github.com/spf13/viper"
)

const timestampFormat = "02/01/2006-15:04:05"

// Worker periodically triggers low stock replenishment through the API and
// records every updated product.
type Worker struct {
	client   *resty.Client
	sink     *logfile.Sink
	interval time.Duration
	stopCh   chan struct{}
}

// NewWorker creates a new low stock worker.
func NewWorker(client *resty.Client, sink *logfile.Sink) *Worker {
	intervalSeconds := viper.GetInt("jobs.lowstock.interval_seconds")
	if intervalSeconds == 0 {
		intervalSeconds = 43200
	}

	return &Worker{
		client:   client,
		sink:     sink,
		interval: time.Duration(intervalSeconds) * time.Second,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the replenishment loop.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	slog.Info("Low stock worker started", "interval", w.interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Low stock worker shutting down")

			return
		case <-w.stopCh:
			slog.Info("Low stock worker stopped")

			return
		case <-ticker.C:
			w.replenish(ctx)
		}
	}
}

// Stop stops the worker.
func (w *Worker) Stop() {
	close(w.stopCh)
}

func (w *Worker) replenish(ctx context.Context) {
	resp, err := w.client.R().SetContext(ctx).Post("/api/products/restock")
	if err != nil {
		slog.Error("Failed to trigger low stock replenishment", "error", err)

		return
	}
	if resp.StatusCode() != http.StatusOK {
		slog.Error("Low stock replenishment returned unexpected status", "status", resp.StatusCode())

		return
	}

	var result crmsvc.RestockResult
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		slog.Error("Failed to decode restock response", "error", err)

		return
	}

	timestamp := time.Now().Format(timestampFormat)
	for _, p := range result.UpdatedProducts {
		entry := fmt.Sprintf("%s: Updated %s - New stock: %d", timestamp, p.Name, p.Stock)
		if err := w.sink.AppendEntry(entry); err != nil {
			slog.Error("Failed to append low stock entry", "error", err)
		}
	}
}
