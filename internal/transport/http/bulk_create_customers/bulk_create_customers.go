package bulkcreatecustomers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sellerdesk/crm-svc/internal/service/services/crmsvc"
	"github.com/sellerdesk/crm-svc/internal/transport/http/apierror"
)

// service is an interface for the service layer.
type service interface {
	BulkCreateCustomers(ctx context.Context, inputs []crmsvc.CreateCustomerInput) (*crmsvc.BulkCreateCustomersResult, error)
}

// BulkCreateCustomers handles the bulk create customers request. Partial
// success is reported in the body; only a storage failure is an HTTP error.
func BulkCreateCustomers(w http.ResponseWriter, r *http.Request, service service) {
	var inputs []crmsvc.CreateCustomerInput
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)
		slog.Error("Error decoding request body for bulk create customers", "error", err)

		return
	}

	result, err := service.BulkCreateCustomers(r.Context(), inputs)
	if err != nil {
		apierror.Write(w, err)
		slog.Error("Error bulk creating customers", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		slog.Error("Error writing response for bulk create customers", "error", err)
	}
}
