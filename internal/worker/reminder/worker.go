package reminder

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sellerdesk/crm-svc/internal/dal/logfile"
	"github.com/sellerdesk/crm-svc/internal/service/models/order"
	"github.com/spf13/viper"
)

const timestampFormat = "2006-01-02 15:04:05"

// reminderWindow is how far back the worker looks for orders to remind
// customers about.
const reminderWindow = 7 * 24 * time.Hour

// Worker periodically records a reminder line for every recent order.
type Worker struct {
	client   *resty.Client
	sink     *logfile.Sink
	interval time.Duration
	stopCh   chan struct{}
}

// NewWorker creates a new order reminder worker.
func NewWorker(client *resty.Client, sink *logfile.Sink) *Worker {
	intervalSeconds := viper.GetInt("jobs.reminder.interval_seconds")
	if intervalSeconds == 0 {
		intervalSeconds = 86400
	}

	return &Worker{
		client:   client,
		sink:     sink,
		interval: time.Duration(intervalSeconds) * time.Second,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the reminder loop.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	slog.Info("Reminder worker started", "interval", w.interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Reminder worker shutting down")

			return
		case <-w.stopCh:
			slog.Info("Reminder worker stopped")

			return
		case <-ticker.C:
			w.remind(ctx)
		}
	}
}

// Stop stops the worker.
func (w *Worker) Stop() {
	close(w.stopCh)
}

func (w *Worker) remind(ctx context.Context) {
	since := time.Now().Add(-reminderWindow)

	resp, err := w.client.R().
		SetContext(ctx).
		SetQueryParam("orderDateGte", since.Format(time.RFC3339)).
		Get("/api/orders")
	if err != nil {
		slog.Error("Failed to fetch recent orders", "error", err)

		return
	}
	if resp.StatusCode() != http.StatusOK {
		slog.Error("Recent orders request returned unexpected status", "status", resp.StatusCode())

		return
	}

	var orders []order.Order
	if err := json.Unmarshal(resp.Body(), &orders); err != nil {
		slog.Error("Failed to decode orders response", "error", err)

		return
	}

	timestamp := time.Now().Format(timestampFormat)
	for _, o := range orders {
		entry := fmt.Sprintf("%s: Order ID %d, Customer Email: %s", timestamp, o.ID, o.CustomerEmail)
		if err := w.sink.AppendEntry(entry); err != nil {
			slog.Error("Failed to append reminder entry", "error", err)
		}
	}

	slog.Info("Order reminders processed", "count", len(orders))
}
