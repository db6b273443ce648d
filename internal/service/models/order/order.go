package order

import (
	"time"

	"github.com/sellerdesk/crm-svc/internal/service/models/product"
	"github.com/shopspring/decimal"
)

// Order represents a customer order.
type Order struct {
	ID            int64             `json:"id"`
	CustomerID    int64             `json:"customerId"`
	CustomerEmail string            `json:"customerEmail,omitempty"`
	TotalAmount   decimal.Decimal   `json:"totalAmount"`
	OrderDate     time.Time         `json:"orderDate"`
	Products      []product.Product `json:"products"`
}
