package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sellerdesk/crm-svc/internal/dal/logfile"
	"github.com/sellerdesk/crm-svc/internal/service/models/customer"
	"github.com/sellerdesk/crm-svc/internal/service/models/order"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const timestampFormat = "2006-01-02 15:04:05"

// Worker periodically summarizes customer count, order count and total
// revenue into the report log.
type Worker struct {
	client   *resty.Client
	sink     *logfile.Sink
	interval time.Duration
	stopCh   chan struct{}
}

// NewWorker creates a new report worker.
func NewWorker(client *resty.Client, sink *logfile.Sink) *Worker {
	intervalSeconds := viper.GetInt("jobs.report.interval_seconds")
	if intervalSeconds == 0 {
		intervalSeconds = 604800
	}

	return &Worker{
		client:   client,
		sink:     sink,
		interval: time.Duration(intervalSeconds) * time.Second,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the reporting loop.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	slog.Info("Report worker started", "interval", w.interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Report worker shutting down")

			return
		case <-w.stopCh:
			slog.Info("Report worker stopped")

			return
		case <-ticker.C:
			w.report(ctx)
		}
	}
}

// Stop stops the worker.
func (w *Worker) Stop() {
	close(w.stopCh)
}

func (w *Worker) report(ctx context.Context) {
	customers, ok := w.fetchCustomers(ctx)
	if !ok {
		return
	}

	orders, ok := w.fetchOrders(ctx)
	if !ok {
		return
	}

	revenue := decimal.Zero
	for _, o := range orders {
		revenue = revenue.Add(o.TotalAmount)
	}

	timestamp := time.Now().Format(timestampFormat)
	entry := fmt.Sprintf("%s - Report: %d customers, %d orders, %s revenue",
		timestamp, len(customers), len(orders), revenue.String())

	if err := w.sink.AppendEntry(entry); err != nil {
		slog.Error("Failed to append report entry", "error", err)
	}
}

func (w *Worker) fetchCustomers(ctx context.Context) ([]customer.Customer, bool) {
	resp, err := w.client.R().SetContext(ctx).Get("/api/customers")
	if err != nil {
		slog.Error("Failed to fetch customers for report", "error", err)

		return nil, false
	}
	if resp.StatusCode() != http.StatusOK {
		slog.Error("Customers request returned unexpected status", "status", resp.StatusCode())

		return nil, false
	}

	var customers []customer.Customer
	if err := json.Unmarshal(resp.Body(), &customers); err != nil {
		slog.Error("Failed to decode customers response", "error", err)

		return nil, false
	}

	return customers, true
}

func (w *Worker) fetchOrders(ctx context.Context) ([]order.Order, bool) {
	resp, err := w.client.R().SetContext(ctx).Get("/api/orders")
	if err != nil {
		slog.Error("Failed to fetch orders for report", "error", err)

		return nil, false
	}
	if resp.StatusCode() != http.StatusOK {
		slog.Error("Orders request returned unexpected status", "status", resp.StatusCode())

		return nil, false
	}

	var orders []order.Order
	if err := json.Unmarshal(resp.Body(), &orders); err != nil {
		slog.Error("Failed to decode orders response", "error", err)

		return nil, false
	}

	return orders, true
}
