package iproductrepo

import (
	"context"

	"github.com/sellerdesk/crm-svc/internal/service/models/product"
)

// IProductRepository is an interface for product postgres repository.
type IProductRepository interface {
	Insert(ctx context.Context, p product.Product) (*product.Product, error)
	GetByIDs(ctx context.Context, ids []int64) ([]product.Product, error)
	QueryLowStock(ctx context.Context, threshold int) ([]product.Product, error)
	UpdateStock(ctx context.Context, id int64, stock int) error
	Query(ctx context.Context, filter *product.QueryProductsModel) ([]product.Product, error)
}
