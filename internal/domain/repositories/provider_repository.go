package repositories

import (
	"context"

	"github.com/appointly/appointly-api/internal/domain/entities"
)

// ProviderRepository defines the interface for provider persistence.
type ProviderRepository interface {
	GetByID(ctx context.Context, id string) (*entities.Provider, error)
	GetByOwnerID(ctx context.Context, ownerID string) (*entities.Provider, error)
	List(ctx context.Context, category string, limit, offset int) ([]*entities.Provider, error)
	SearchByName(ctx context.Context, query string, limit int) ([]*entities.Provider, error)
	Create(ctx context.Context, provider *entities.Provider) error
	Update(ctx context.Context, provider *entities.Provider) error
}
