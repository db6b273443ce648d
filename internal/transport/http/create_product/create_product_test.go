package createproduct

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sellerdesk/crm-svc/internal/service/models/errs"
	"github.com/sellerdesk/crm-svc/internal/service/models/product"
	"github.com/sellerdesk/crm-svc/internal/service/services/crmsvc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	created *product.Product
	err     error
}

func (s *stubService) CreateProduct(_ context.Context, _ crmsvc.CreateProductInput) (*product.Product, error) {
	return s.created, s.err
}

func TestCreateProduct(t *testing.T) {
	t.Run("created product is returned as JSON", func(t *testing.T) {
		svc := &stubService{created: &product.Product{
			ID:    7,
			Name:  "Laptop",
			Price: decimal.RequireFromString("999.99"),
			Stock: 4,
		}}

		req := httptest.NewRequest(http.MethodPost, "/api/products",
			strings.NewReader(`{"name":"Laptop","price":"999.99","stock":4}`))
		rec := httptest.NewRecorder()

		CreateProduct(rec, req, svc)

		require.Equal(t, http.StatusOK, rec.Code)

		var got product.Product
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, int64(7), got.ID)
		assert.True(t, got.Price.Equal(decimal.RequireFromString("999.99")))
	})

	t.Run("validation failure is a 400", func(t *testing.T) {
		svc := &stubService{err: errs.NewValidation("Price must be positive")}

		req := httptest.NewRequest(http.MethodPost, "/api/products",
			strings.NewReader(`{"name":"Laptop","price":"-1"}`))
		rec := httptest.NewRecorder()

		CreateProduct(rec, req, svc)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Price must be positive")
	})
}
