package createcustomer

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
	CreateCustomer(ctx context.Context, input crmsvc.CreateCustomerInput) (*crmsvc.CreateCustomerResult, error)
}

// CreateCustomer handles the create customer request. Business-rule
// rejections (duplicate email, bad phone) are part of the 200 response body.
func CreateCustomer(w http.ResponseWriter, r *http.Request, service service) {
	var input crmsvc.CreateCustomerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)
		slog.Error("Error decoding request body for create customer", "error", err)

		return
	}

	result, err := service.CreateCustomer(r.Context(), input)
	if err != nil {
		apierror.Write(w, err)
		slog.Error("Error creating customer", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		slog.Error("Error writing response for create customer", "error", err)
	}
}
