package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/appointly/appointly-api/internal/domain/entities"
	"github.com/appointly/appointly-api/internal/domain/providers"
	"github.com/appointly/appointly-api/internal/domain/repositories"
)

// ProviderService serves the provider catalog: browsing, search, and the
// services each provider offers.
type ProviderService struct {
	providerRepo repositories.ProviderRepository
	serviceRepo  repositories.ServiceRepository
	search       providers.SearchProvider
	logger       zerolog.Logger
}

// NewProviderService creates a new provider service. search may be nil, in
// which case queries fall back to the database.
func NewProviderService(
	providerRepo repositories.ProviderRepository,
	serviceRepo repositories.ServiceRepository,
	search providers.SearchProvider,
	logger zerolog.Logger,
) *ProviderService {
	return &ProviderService{
		providerRepo: providerRepo,
		serviceRepo:  serviceRepo,
		search:       search,
		logger:       logger,
	}
}

// GetByID returns one provider.
func (s *ProviderService) GetByID(ctx context.Context, id string) (*entities.Provider, error) {
	return s.providerRepo.GetByID(ctx, id)
}

// List returns active providers, optionally filtered by category.
func (s *ProviderService) List(ctx context.Context, category string, limit, offset int) ([]*entities.Provider, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.providerRepo.List(ctx, category, limit, offset)
}

// Search runs a full-text provider search. When the search backend is down
// or unconfigured it degrades to a database name match rather than failing
// the request.
func (s *ProviderService) Search(ctx context.Context, query, category string, limit int) ([]*entities.Provider, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if s.search != nil {
		results, err := s.search.Search(ctx, query, category, limit)
		if err == nil {
			return results, nil
		}
		s.logger.Warn().Err(err).Str("query", query).Msg("search backend failed, falling back to database")
	}
	return s.providerRepo.SearchByName(ctx, query, limit)
}

// ListServices returns the active services of one provider. The provider
// lookup runs first so a missing provider surfaces as not-found rather than
// an empty list.
func (s *ProviderService) ListServices(ctx context.Context, providerID string) ([]*entities.Service, error) {
	if _, err := s.providerRepo.GetByID(ctx, providerID); err != nil {
		return nil, err
	}
	return s.serviceRepo.ListByProvider(ctx, providerID)
}

// WarmSearchIndex pushes the current provider catalog into the search
// backend. Called once at startup; failures only degrade search, so they
// are logged and ignored.
func (s *ProviderService) WarmSearchIndex(ctx context.Context) {
	if s.search == nil {
		return
	}
	if err := s.search.InitSchema(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("failed to initialize search schema")
		return
	}

	const pageSize = 100
	indexed := 0
	for offset := 0; ; offset += pageSize {
		page, err := s.providerRepo.List(ctx, "", pageSize, offset)
		if err != nil {
			s.logger.Warn().Err(err).Msg("failed to page providers for indexing")
			return
		}
		if len(page) == 0 {
			break
		}
		for _, p := range page {
			if err := s.search.IndexProvider(ctx, p); err != nil {
				s.logger.Warn().Err(err).Str("provider_id", p.ID).Msg("failed to index provider")
				continue
			}
			indexed++
		}
		if len(page) < pageSize {
			break
		}
	}
	s.logger.Info().Int("indexed", indexed).Msg("search index warmed")
}
