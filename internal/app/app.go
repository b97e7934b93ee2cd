package app

import (
	"context"
	"fmt"

	"github.com/glabrego/epgi/internal/config"
	"github.com/glabrego/epgi/internal/xmltv"
)

type Service struct {
	providers []config.Provider
	cache     *Cache
}

func NewService(providers []config.Provider, cache *Cache) *Service {
	return &Service{providers: providers, cache: cache}
}

func (s *Service) Providers() []config.Provider {
	return s.providers
}

// Snapshot returns the guide of the 1-based provider index, fetching it on first use.
func (s *Service) Snapshot(ctx context.Context, index int) (xmltv.Snapshot, error) {
	p, err := s.provider(index)
	if err != nil {
		return xmltv.Snapshot{}, err
	}
	return s.cache.Get(ctx, p.Index, p.URL), nil
}

// CachedSnapshot reports a snapshot that is already loaded.
func (s *Service) CachedSnapshot(index int) (xmltv.Snapshot, bool) {
	if _, err := s.provider(index); err != nil {
		return xmltv.Snapshot{}, false
	}
	return s.cache.Peek(index)
}

func (s *Service) provider(index int) (config.Provider, error) {
	if index < 1 || index > len(s.providers) {
		return config.Provider{}, fmt.Errorf("unknown provider %d (have %d)", index, len(s.providers))
	}
	return s.providers[index-1], nil
}
