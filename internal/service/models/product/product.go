package product

import (
	"github.com/shopspring/decimal"
)

// Product represents an item from the catalog.
type Product struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}
