package usecase

import (
	"context"
	"time"

	"spreedly-bot/internal/domain/ports"
)

// InventoryReport fetches every gateway and pushes the formatted list to a notifier.
type InventoryReport struct {
	gateway   ports.PaymentGateway
	notifier  ports.Notifier
	formatter *ResponseFormatter
	logger    ports.Logger
}

// NewInventoryReport constructs an InventoryReport use case.
func NewInventoryReport(
	gateway ports.PaymentGateway,
	notifier ports.Notifier,
	formatter *ResponseFormatter,
	logger ports.Logger,
) *InventoryReport {
	return &InventoryReport{
		gateway:   gateway,
		notifier:  notifier,
		formatter: formatter,
		logger:    logger,
	}
}

// Run executes the inventory report workflow.
func (r *InventoryReport) Run(ctx context.Context) error {
	start := time.Now()
	r.logger.Info(ctx, "starting gateway inventory report")

	gateways, err := r.gateway.ListGateways(ctx)
	if err != nil {
		r.logger.Error(ctx, "failed to list gateways", "error", err)
		return err
	}

	payload := r.formatter.Format(GatewayInventory(gateways), "gateways", inventoryToken)
	if err := r.notifier.Send(ctx, payload); err != nil {
		r.logger.Error(ctx, "failed to send inventory report", "error", err)
		return err
	}

	r.logger.Info(ctx, "gateway inventory report completed", "gateways", len(gateways), "duration", time.Since(start))
	return nil
}
