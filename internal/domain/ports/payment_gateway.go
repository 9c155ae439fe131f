package ports

import (
	"context"

	"spreedly-bot/internal/domain/model"
)

// PaymentGateway defines access to the Spreedly API. Every call returns the
// decoded response body as an ordered record.
type PaymentGateway interface {
	ShowGateway(ctx context.Context, token string) (*model.Record, error)
	ListGateways(ctx context.Context) ([]*model.Record, error)
	RedactGateway(ctx context.Context, token string) (*model.Record, error)

	ShowPaymentMethod(ctx context.Context, token string) (*model.Record, error)
	RetainPaymentMethod(ctx context.Context, token string) (*model.Record, error)
	RedactPaymentMethod(ctx context.Context, token string) (*model.Record, error)
	TokenizeCreditCard(ctx context.Context, card model.CreditCard) (*model.Record, error)

	ShowTransaction(ctx context.Context, token string) (*model.Record, error)
}
