package iauditrepo

import (
	"context"

	"github.com/sellerdesk/crm-svc/internal/service/models/order"
)

// IAuditRepository publishes order lifecycle events for downstream consumers.
type IAuditRepository interface {
	LogOrderCreated(ctx context.Context, orders []order.Order) error
}
