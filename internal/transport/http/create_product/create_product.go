package createproduct

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sellerdesk/crm-svc/internal/service/models/product"
	"github.com/sellerdesk/crm-svc/internal/service/services/crmsvc"
	"github.com/sellerdesk/crm-svc/internal/transport/http/apierror"
)

// service is an interface for the service layer.
type service interface {
	CreateProduct(ctx context.Context, input crmsvc.CreateProductInput) (*product.Product, error)
}

// CreateProduct handles the create product request.
func CreateProduct(w http.ResponseWriter, r *http.Request, service service) {
	var input crmsvc.CreateProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)
		slog.Error("Error decoding request body for create product", "error", err)

		return
	}

	created, err := service.CreateProduct(r.Context(), input)
	if err != nil {
		apierror.Write(w, err)
		slog.Error("Error creating product", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(created); err != nil {
		slog.Error("Error writing response for create product", "error", err)
	}
}
