package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sellerdesk/crm-svc/internal/dal/logfile"
	"github.com/sellerdesk/crm-svc/internal/dal/postgres"
	"github.com/sellerdesk/crm-svc/internal/dal/rabbitmq"
	auditrepo "github.com/sellerdesk/crm-svc/internal/dal/repositories/audit"
	"github.com/sellerdesk/crm-svc/internal/otel"
	"github.com/sellerdesk/crm-svc/internal/service/services/crmsvc"
	httptransport "github.com/sellerdesk/crm-svc/internal/transport/http"
	"github.com/sellerdesk/crm-svc/internal/worker/heartbeat"
	"github.com/sellerdesk/crm-svc/internal/worker/lowstock"
	"github.com/sellerdesk/crm-svc/internal/worker/reminder"
	"github.com/sellerdesk/crm-svc/internal/worker/report"
	"github.com/spf13/viper"
)

// App represents the application.
type App struct {
	crmSvc          *crmsvc.CRMService
	transport       *httptransport.HTTPTransport
	postgresClient  *postgres.Client
	rabbitMqClient  *rabbitmq.Client
	otelController  *otel.OtelController
	heartbeatWorker *heartbeat.Worker
	lowStockWorker  *lowstock.Worker
	reminderWorker  *reminder.Worker
	reportWorker    *report.Worker
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()
	postgresClient := postgres.MustNewClient()
	rabbitMqClient := rabbitmq.MustNewClient()

	auditRepository := auditrepo.NewAuditRabbitMQRepository(rabbitMqClient)

	crmSvc := crmsvc.MustNewCRMService(
		crmsvc.WithPostgresClient(postgresClient),
		crmsvc.WithAuditRepository(auditRepository),
	)

	transport := httptransport.NewHTTPTransport(crmSvc)
	transport.RegisterRoutes()

	apiClient := resty.New().SetBaseURL("http://localhost:" + viper.GetString("server.http.port"))

	return &App{
		crmSvc:          crmSvc,
		transport:       transport,
		postgresClient:  postgresClient,
		rabbitMqClient:  rabbitMqClient,
		otelController:  otelController,
		heartbeatWorker: heartbeat.NewWorker(apiClient, logfile.NewSink(viper.GetString("jobs.heartbeat.log_path"))),
		lowStockWorker:  lowstock.NewWorker(apiClient, logfile.NewSink(viper.GetString("jobs.lowstock.log_path"))),
		reminderWorker:  reminder.NewWorker(apiClient, logfile.NewSink(viper.GetString("jobs.reminder.log_path"))),
		reportWorker:    report.NewWorker(apiClient, logfile.NewSink(viper.GetString("jobs.report.log_path"))),
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	// Create a channel to receive OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	go a.heartbeatWorker.Start(workerCtx)
	go a.lowStockWorker.Start(workerCtx)
	go a.reminderWorker.Start(workerCtx)
	go a.reportWorker.Start(workerCtx)

	<-stop
	slog.Info("Shutdown signal received")

	cancelWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	if err := a.rabbitMqClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Tracer provider shutdown error", "error", err)
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	slog.Info("Application shutdown complete")
}
