package repositories

import (
	"context"
	"time"

	"github.com/appointly/appointly-api/internal/domain/entities"
)

// ScheduleRepository defines the interface for working-hours persistence.
// At most one row exists per (provider, date); Create must fail on a
// duplicate pair.
type ScheduleRepository interface {
	GetByID(ctx context.Context, id string) (*entities.WorkingHours, error)
	GetByProviderAndDate(ctx context.Context, providerID string, date time.Time) (*entities.WorkingHours, error)
	ListByProviderRange(ctx context.Context, providerID string, from, to time.Time) ([]*entities.WorkingHours, error)
	Create(ctx context.Context, hours *entities.WorkingHours) error
	Update(ctx context.Context, hours *entities.WorkingHours) error
	Delete(ctx context.Context, id string) error
}
