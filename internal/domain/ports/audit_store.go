package ports

import (
	"context"

	"spreedly-bot/internal/domain/model"
)

// AuditStore persists command executions.
type AuditStore interface {
	Append(ctx context.Context, entry model.AuditEntry) error
	Recent(ctx context.Context, limit int) ([]model.AuditEntry, error)
}
