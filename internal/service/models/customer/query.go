package customer

import "time"

// QueryCustomersModel represents filter parameters for querying customers
type QueryCustomersModel struct {
	Ids           []int64    `json:"ids,omitempty"`
	Name          string     `json:"name,omitempty"`
	Email         string     `json:"email,omitempty"`
	CreatedAtGte  *time.Time `json:"createdAtGte,omitempty"`
	CreatedAtLte  *time.Time `json:"createdAtLte,omitempty"`
	PhonePrefix   string     `json:"phonePrefix,omitempty"`
	Limit         int        `json:"limit,omitempty"`
	Offset        int        `json:"offset,omitempty"`
}
