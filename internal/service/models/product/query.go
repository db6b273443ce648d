package product

import "github.com/shopspring/decimal"

// QueryProductsModel represents filter parameters for querying products
type QueryProductsModel struct {
	Ids      []int64          `json:"ids,omitempty"`
	Name     string           `json:"name,omitempty"`
	PriceGte *decimal.Decimal `json:"priceGte,omitempty"`
	PriceLte *decimal.Decimal `json:"priceLte,omitempty"`
	StockGte *int             `json:"stockGte,omitempty"`
	StockLte *int             `json:"stockLte,omitempty"`
	Limit    int              `json:"limit,omitempty"`
	Offset   int              `json:"offset,omitempty"`
}
