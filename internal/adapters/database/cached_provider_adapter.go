package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/appointly/appointly-api/internal/domain/entities"
	"github.com/appointly/appointly-api/internal/domain/providers"
	"github.com/appointly/appointly-api/internal/domain/repositories"
)

// CachedProviderAdapter wraps ProviderAdapter with caching. Only the
// catalog reads are cached; availability and booking paths always hit the
// database because their correctness depends on fresh appointment state.
type CachedProviderAdapter struct {
	adapter repositories.ProviderRepository
	cache   providers.CacheProvider
}

// NewCachedProviderAdapter creates a new cached provider adapter
func NewCachedProviderAdapter(adapter repositories.ProviderRepository, cache providers.CacheProvider) repositories.ProviderRepository {
	return &CachedProviderAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

const (
	providerByIDTTL = 5 * time.Minute
	providerListTTL = 3 * time.Minute
)

func providerCacheKey(id string) string {
	return fmt.Sprintf("provider:%s", id)
}

func providerListCacheKey(category string, limit, offset int) string {
	return fmt.Sprintf("providers:list:%s:%d:%d", category, limit, offset)
}

// GetByID retrieves a provider by ID with caching
func (a *CachedProviderAdapter) GetByID(ctx context.Context, id string) (*entities.Provider, error) {
	cacheKey := providerCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var provider entities.Provider
		if err := json.Unmarshal(cached, &provider); err == nil {
			return &provider, nil
		}
		log.Printf("Failed to unmarshal cached provider %s: %v", id, err)
	}

	provider, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Update cache asynchronously to avoid blocking the response
	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(provider); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, providerByIDTTL); err != nil {
				log.Printf("Failed to cache provider %s: %v", id, err)
			}
		}
	}()

	return provider, nil
}

// GetByOwnerID is not cached: it sits on management paths where staleness
// after an ownership change would be confusing.
func (a *CachedProviderAdapter) GetByOwnerID(ctx context.Context, ownerID string) (*entities.Provider, error) {
	return a.adapter.GetByOwnerID(ctx, ownerID)
}

// List returns providers with caching
func (a *CachedProviderAdapter) List(ctx context.Context, category string, limit, offset int) ([]*entities.Provider, error) {
	cacheKey := providerListCacheKey(category, limit, offset)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var result []*entities.Provider
		if err := json.Unmarshal(cached, &result); err == nil {
			return result, nil
		}
	}

	result, err := a.adapter.List(ctx, category, limit, offset)
	if err != nil {
		return nil, err
	}

	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(result); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, providerListTTL); err != nil {
				log.Printf("Failed to cache provider list: %v", err)
			}
		}
	}()

	return result, nil
}

// SearchByName passes through; the search backend has its own cache and the
// database fallback path is already the degraded case.
func (a *CachedProviderAdapter) SearchByName(ctx context.Context, query string, limit int) ([]*entities.Provider, error) {
	return a.adapter.SearchByName(ctx, query, limit)
}

// Create inserts a provider and leaves the cache to expire naturally.
func (a *CachedProviderAdapter) Create(ctx context.Context, provider *entities.Provider) error {
	return a.adapter.Create(ctx, provider)
}

// Update writes through and invalidates the provider's cache entry.
func (a *CachedProviderAdapter) Update(ctx context.Context, provider *entities.Provider) error {
	if err := a.adapter.Update(ctx, provider); err != nil {
		return err
	}
	if err := a.cache.Delete(ctx, providerCacheKey(provider.ID)); err != nil {
		log.Printf("Failed to invalidate cached provider %s: %v", provider.ID, err)
	}
	return nil
}
