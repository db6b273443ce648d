package listcustomers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/sellerdesk/crm-svc/internal/service/models/customer"
	"github.com/sellerdesk/crm-svc/internal/transport/http/apierror"
)

// service is an interface for the service layer.
type service interface {
	ListCustomers(ctx context.Context, filter *customer.QueryCustomersModel) ([]customer.Customer, error)
}

// ListCustomers handles the list customers request.
func ListCustomers(w http.ResponseWriter, r *http.Request, service service) {
	query := r.URL.Query()

	filter := &customer.QueryCustomersModel{
		Name:        query.Get("name"),
		Email:       query.Get("email"),
		PhonePrefix: query.Get("phonePrefix"),
	}

	if v := query.Get("createdAtGte"); v != "" {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			filter.CreatedAtGte = &ts
		}
	}
	if v := query.Get("createdAtLte"); v != "" {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			filter.CreatedAtLte = &ts
		}
	}
	if v := query.Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			filter.Limit = limit
		}
	}
	if v := query.Get("offset"); v != "" {
		if offset, err := strconv.Atoi(v); err == nil {
			filter.Offset = offset
		}
	}

	customers, err := service.ListCustomers(r.Context(), filter)
	if err != nil {
		apierror.Write(w, err)
		slog.Error("Error listing customers", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(customers); err != nil {
		slog.Error("Error writing response for list customers", "error", err)
	}
}
