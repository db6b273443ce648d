package listorders

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sellerdesk/crm-svc/internal/service/models/order"
	"github.com/sellerdesk/crm-svc/internal/transport/http/apierror"
)

// service is an interface for the service layer.
type service interface {
	ListOrders(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
}

// parseIntSlice parses comma-separated string to slice of int64.
func parseIntSlice(s string) []int64 {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	result := make([]int64, 0, len(parts))
	for _, part := range parts {
		if val, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64); err == nil {
			result = append(result, val)
		}
	}

	return result
}

// ListOrders handles the list orders request.
func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	query := r.URL.Query()

	filter := &order.QueryOrdersModel{
		Ids:         parseIntSlice(query.Get("ids")),
		CustomerIds: parseIntSlice(query.Get("customerIds")),
		ProductIds:  parseIntSlice(query.Get("productIds")),
	}

	if v := query.Get("orderDateGte"); v != "" {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			filter.OrderDateGte = &ts
		}
	}
	if v := query.Get("orderDateLte"); v != "" {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			filter.OrderDateLte = &ts
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

	orders, err := service.ListOrders(r.Context(), filter)
	if err != nil {
		apierror.Write(w, err)
		slog.Error("Error listing orders", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(orders); err != nil {
		slog.Error("Error writing response for list orders", "error", err)
	}
}
