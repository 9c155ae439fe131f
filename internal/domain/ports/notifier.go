package ports

import (
	"context"

	"spreedly-bot/internal/domain/model"
)

// Notifier pushes display payloads to downstream channels (e.g. Discord).
type Notifier interface {
	Send(ctx context.Context, payload model.DisplayPayload) error
}
