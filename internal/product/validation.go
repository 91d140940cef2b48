// AngelaMos | 2026
// validation.go

package product

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/marketplace-api/internal/core"
)

const (
	maxDescriptionWords = 100
	maxPriceDigits      = 10
	maxPricePlaces      = 2
)

func validateDescription(description string) error {
	if count := len(strings.Fields(description)); count > maxDescriptionWords {
		return core.InvalidInput(
			"Description must not exceed %d words. Current count: %d",
			maxDescriptionWords,
			count,
		)
	}
	return nil
}

// validatePrice enforces the NUMERIC(10,2) column: non-negative, at most two
// decimal places and at most eight digits before the point.
func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return core.InvalidInput("price: Ensure this value is greater than or equal to 0.")
	}

	places := 0
	if exp := price.Exponent(); exp < 0 {
		places = int(-exp)
	}
	if places > maxPricePlaces {
		return core.InvalidInput(
			"price: Ensure that there are no more than %d decimal places.",
			maxPricePlaces,
		)
	}

	whole := wholeDigits(price)
	if whole > maxPriceDigits-maxPricePlaces {
		return core.InvalidInput(
			"price: Ensure that there are no more than %d digits before the decimal point.",
			maxPriceDigits-maxPricePlaces,
		)
	}

	return nil
}

// wholeDigits counts the digits before the decimal point from the
// coefficient and exponent, so "1e200000000" never expands to its full form.
func wholeDigits(price decimal.Decimal) int64 {
	coef := price.Coefficient()
	if coef.Sign() == 0 {
		return 0
	}
	n := int64(len(coef.Abs(coef).String())) + int64(price.Exponent())
	if n < 0 {
		return 0
	}
	return n
}
