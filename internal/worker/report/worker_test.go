package report

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/sellerdesk/crm-svc/internal/dal/logfile"
	"github.com/sellerdesk/crm-svc/internal/service/models/customer"
	"github.com/sellerdesk/crm-svc/internal/service/models/order"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportSummarizesCustomersOrdersAndRevenue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/api/customers":
			customers := []customer.Customer{
				{ID: 1, Name: "Alice", Email: "alice@example.com"},
				{ID: 2, Name: "Bob", Email: "bob@example.com"},
				{ID: 3, Name: "Carol", Email: "carol@example.com"},
			}
			require.NoError(t, json.NewEncoder(w).Encode(customers))
		case "/api/orders":
			orders := []order.Order{
				{ID: 1, TotalAmount: decimal.RequireFromString("10.50")},
				{ID: 2, TotalAmount: decimal.RequireFromString("4.50")},
			}
			require.NoError(t, json.NewEncoder(w).Encode(orders))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	logPath := filepath.Join(t.TempDir(), "crm_report_log.txt")
	worker := NewWorker(resty.New().SetBaseURL(server.URL), logfile.NewSink(logPath))

	worker.report(context.Background())

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Regexp(t, `\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} - Report: 3 customers, 2 orders, 15 revenue\n`, string(content))
}

func TestReportSkipsLogWhenCustomersUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	logPath := filepath.Join(t.TempDir(), "crm_report_log.txt")
	worker := NewWorker(resty.New().SetBaseURL(server.URL), logfile.NewSink(logPath))

	worker.report(context.Background())

	_, err := os.Stat(logPath)
	assert.True(t, os.IsNotExist(err))
}
