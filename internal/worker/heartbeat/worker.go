package heartbeat

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sellerdesk/crm-svc/internal/dal/logfile"
	"github.com/spf13/viper"
)

const timestampFormat = "02/01/2006-15:04:05"

// Worker periodically records that the CRM is alive and probes the API
// health endpoint. Failures are logged and skipped; the next tick tries
// again.
type Worker struct {
	client   *resty.Client
	sink     *logfile.Sink
	interval time.Duration
	stopCh   chan struct{}
}

// NewWorker creates a new heartbeat worker.
func NewWorker(client *resty.Client, sink *logfile.Sink) *Worker {
	intervalSeconds := viper.GetInt("jobs.heartbeat.interval_seconds")
	if intervalSeconds == 0 {
		intervalSeconds = 300
	}

	return &Worker{
		client:   client,
		sink:     sink,
		interval: time.Duration(intervalSeconds) * time.Second,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the heartbeat loop.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	slog.Info("Heartbeat worker started", "interval", w.interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Heartbeat worker shutting down")

			return
		case <-w.stopCh:
			slog.Info("Heartbeat worker stopped")

			return
		case <-ticker.C:
			w.beat(ctx)
		}
	}
}

// Stop stops the worker.
func (w *Worker) Stop() {
	close(w.stopCh)
}

// beat appends the liveness line and, when the API answers, a responsiveness
// line for the same timestamp.
func (w *Worker) beat(ctx context.Context) {
	timestamp := time.Now().Format(timestampFormat)
	message := timestamp + " CRM is alive\n"

	resp, err := w.client.R().SetContext(ctx).Get("/api/health")
	if err != nil {
		slog.Warn("Heartbeat probe failed", "error", err)
	} else if resp.StatusCode() == http.StatusOK {
		message += timestamp + " API endpoint responsive\n"
	}

	if err := w.sink.AppendEntry(message); err != nil {
		slog.Error("Failed to append heartbeat entry", "error", err)
	}
}
