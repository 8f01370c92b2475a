package providers

import (
	"context"

	"github.com/appointly/appointly-api/internal/domain/entities"
)

// EventBus publishes booking events to interested consumers. Publishing is
// best-effort; callers log failures and move on.
type EventBus interface {
	Publish(ctx context.Context, event *entities.BookingEvent) error
	Subscribe(ctx context.Context, eventType string, handler func(ctx context.Context, event *entities.BookingEvent) error) error
	Close() error
}
