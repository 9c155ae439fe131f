package usecase

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"spreedly-bot/internal/domain/model"
)

// ErrUnknownTestCard is returned for a brand without a sandbox card number.
var ErrUnknownTestCard = errors.New("unknown test card brand")

// Spreedly sandbox numbers; they never reach a real network.
var testCardNumbers = map[string]string{
	"visa":       "4111111111111111",
	"mastercard": "5555555555554444",
	"amex":       "378282246310005",
	"discover":   "6011111111111117",
}

// TestCard returns the sandbox card for brand, expiring two years from now.
func TestCard(brand string, now time.Time) (model.CreditCard, error) {
	brand = strings.ToLower(strings.TrimSpace(brand))
	number, ok := testCardNumbers[brand]
	if !ok {
		return model.CreditCard{}, fmt.Errorf("%w: %q", ErrUnknownTestCard, brand)
	}

	cvv := "123"
	if brand == "amex" {
		cvv = "1234"
	}

	return model.CreditCard{
		FirstName:         "Test",
		LastName:          strings.ToUpper(brand[:1]) + brand[1:],
		Number:            number,
		Month:             12,
		Year:              now.Year() + 2,
		VerificationValue: cvv,
	}, nil
}
