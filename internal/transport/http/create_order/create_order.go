package createorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sellerdesk/crm-svc/internal/service/models/order"
	"github.com/sellerdesk/crm-svc/internal/service/services/crmsvc"
	"github.com/sellerdesk/crm-svc/internal/transport/http/apierror"
)

// service is an interface for the service layer.
type service interface {
	CreateOrder(ctx context.Context, input crmsvc.CreateOrderInput) (*order.Order, error)
}

// CreateOrder handles the create order request.
func CreateOrder(w http.ResponseWriter, r *http.Request, service service) {
	var input crmsvc.CreateOrderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)
		slog.Error("Error decoding request body for create order", "error", err)

		return
	}

	created, err := service.CreateOrder(r.Context(), input)
	if err != nil {
		apierror.Write(w, err)
		slog.Error("Error creating order", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(created); err != nil {
		slog.Error("Error writing response for create order", "error", err)
	}
}
