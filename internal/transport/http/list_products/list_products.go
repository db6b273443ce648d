package listproducts

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sellerdesk/crm-svc/internal/service/models/product"
	"github.com/sellerdesk/crm-svc/internal/transport/http/apierror"
	"github.com/shopspring/decimal"
)

// service is an interface for the service layer.
type service interface {
	ListProducts(ctx context.Context, filter *product.QueryProductsModel) ([]product.Product, error)
}

// ListProducts handles the list products request.
func ListProducts(w http.ResponseWriter, r *http.Request, service service) {
	query := r.URL.Query()

	filter := &product.QueryProductsModel{
		Name: query.Get("name"),
	}

	if v := query.Get("priceGte"); v != "" {
		if price, err := decimal.NewFromString(v); err == nil {
			filter.PriceGte = &price
		}
	}
	if v := query.Get("priceLte"); v != "" {
		if price, err := decimal.NewFromString(v); err == nil {
			filter.PriceLte = &price
		}
	}
	if v := query.Get("stockGte"); v != "" {
		if stock, err := strconv.Atoi(v); err == nil {
			filter.StockGte = &stock
		}
	}
	if v := query.Get("stockLte"); v != "" {
		if stock, err := strconv.Atoi(v); err == nil {
			filter.StockLte = &stock
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

	products, err := service.ListProducts(r.Context(), filter)
	if err != nil {
		apierror.Write(w, err)
		slog.Error("Error listing products", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(products); err != nil {
		slog.Error("Error writing response for list products", "error", err)
	}
}
