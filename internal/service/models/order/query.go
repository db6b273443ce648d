package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// QueryOrdersModel represents filter parameters for querying orders
type QueryOrdersModel struct {
	Ids          []int64          `json:"ids,omitempty"`
	CustomerIds  []int64          `json:"customerIds,omitempty"`
	ProductIds   []int64          `json:"productIds,omitempty"`
	TotalGte     *decimal.Decimal `json:"totalGte,omitempty"`
	TotalLte     *decimal.Decimal `json:"totalLte,omitempty"`
	OrderDateGte *time.Time       `json:"orderDateGte,omitempty"`
	OrderDateLte *time.Time       `json:"orderDateLte,omitempty"`
	Limit        int              `json:"limit,omitempty"`
	Offset       int              `json:"offset,omitempty"`
}
