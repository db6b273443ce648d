package iorderrepo

import (
	"context"

	"github.com/sellerdesk/crm-svc/internal/service/models/order"
)

// IOrderRepository is an interface for order postgres repository.
type IOrderRepository interface {
	Insert(ctx context.Context, o order.Order) (*order.Order, error)
	InsertOrderProducts(ctx context.Context, orderID int64, productIDs []int64) error
	Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
}
