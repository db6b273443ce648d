package validation

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// phoneRegexp accepts international numbers ("+" followed by at least ten
// digits) or the dashed national form NNN-NNN-NNNN.
var phoneRegexp = regexp.MustCompile(`^(\+\d{10,}|\d{3}-\d{3}-\d{4})$`)

// ValidPhone reports whether phone is acceptable. An empty string means the
// phone was not provided, which is valid.
func ValidPhone(phone string) bool {
	if phone == "" {
		return true
	}
	return phoneRegexp.MatchString(phone)
}

// ValidPrice reports whether price is strictly positive.
func ValidPrice(price decimal.Decimal) bool {
	return price.IsPositive()
}

// ValidStock reports whether stock is acceptable: either absent or non-negative.
func ValidStock(stock *int) bool {
	return stock == nil || *stock >= 0
}
