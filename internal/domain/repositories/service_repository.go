package repositories

import (
	"context"

	"github.com/appointly/appointly-api/internal/domain/entities"
)

// ServiceRepository defines the interface for service-offering persistence.
type ServiceRepository interface {
	GetByID(ctx context.Context, id string) (*entities.Service, error)
	ListByProvider(ctx context.Context, providerID string) ([]*entities.Service, error)
	Create(ctx context.Context, service *entities.Service) error
	Update(ctx context.Context, service *entities.Service) error
}
