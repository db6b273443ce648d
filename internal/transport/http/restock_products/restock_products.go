package restockproducts

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
	UpdateLowStockProducts(ctx context.Context) (*crmsvc.RestockResult, error)
}

// RestockProducts handles the low stock replenishment request.
func RestockProducts(w http.ResponseWriter, r *http.Request, service service) {
	result, err := service.UpdateLowStockProducts(r.Context())
	if err != nil {
		apierror.Write(w, err)
		slog.Error("Error updating low stock products", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		slog.Error("Error writing response for restock products", "error", err)
	}
}
