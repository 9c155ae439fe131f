package spreedly

import (
	"encoding/xml"

	"spreedly-bot/internal/domain/model"
)

type paymentMethodRequest struct {
	XMLName    xml.Name          `xml:"payment_method"`
	CreditCard creditCardRequest `xml:"credit_card"`
	Retained   bool              `xml:"retained"`
}

type creditCardRequest struct {
	FirstName         string `xml:"first_name"`
	LastName          string `xml:"last_name"`
	Number            string `xml:"number"`
	VerificationValue string `xml:"verification_value,omitempty"`
	Month             int    `xml:"month"`
	Year              int    `xml:"year"`
}

func newPaymentMethodRequest(card model.CreditCard) paymentMethodRequest {
	return paymentMethodRequest{
		CreditCard: creditCardRequest{
			FirstName:         card.FirstName,
			LastName:          card.LastName,
			Number:            card.Number,
			VerificationValue: card.VerificationValue,
			Month:             card.Month,
			Year:              card.Year,
		},
	}
}
