package providers

import (
	"context"

	"github.com/appointly/appointly-api/internal/domain/entities"
)

// SearchProvider defines the interface for full-text provider search.
type SearchProvider interface {
	InitSchema(ctx context.Context) error
	IndexProvider(ctx context.Context, provider *entities.Provider) error
	DeleteProvider(ctx context.Context, providerID string) error
	Search(ctx context.Context, query string, category string, limit int) ([]*entities.Provider, error)
}
