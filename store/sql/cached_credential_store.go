package sqlstore

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-easyjob/core"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
)

const credentialCacheKeyPrefix = "go-easyjob::credential::v1"

type cachedSlot struct {
	Value string
	Found bool
}

// CachedCredentialStore reads slots through a cache in front of another
// store. Set and Clear write to the base first and then drop the cached
// entries, so a failed write never leaves a stale cached value.
type CachedCredentialStore struct {
	base      core.CredentialStore
	cache     repositorycache.CacheService
	namespace string
}

func NewCachedCredentialStore(
	base core.CredentialStore,
	cacheService repositorycache.CacheService,
) (*CachedCredentialStore, error) {
	if base == nil {
		return nil, fmt.Errorf("sqlstore: base credential store is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("sqlstore: credential cache service is required")
	}
	namespace := DefaultNamespace
	if namespaced, ok := base.(interface{ Namespace() string }); ok {
		namespace = normalizeNamespace(namespaced.Namespace())
	}
	return &CachedCredentialStore{base: base, cache: cacheService, namespace: namespace}, nil
}

// CredentialCacheKey returns go-easyjob::credential::v1::<namespace>::<slot>
// with each segment URL-path escaped.
func CredentialCacheKey(namespace string, slot core.TokenSlot) (string, error) {
	slotName, err := normalizeSlot(slot)
	if err != nil {
		return "", err
	}
	return strings.Join([]string{
		credentialCacheKeyPrefix,
		url.PathEscape(normalizeNamespace(namespace)),
		url.PathEscape(slotName),
	}, "::"), nil
}

func (s *CachedCredentialStore) Get(ctx context.Context, slot core.TokenSlot) (string, bool, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return "", false, fmt.Errorf("sqlstore: cached credential store is not configured")
	}
	cacheKey, err := CredentialCacheKey(s.namespace, slot)
	if err != nil {
		return "", false, err
	}
	entry, err := repositorycache.GetOrFetch(ctx, s.cache, cacheKey, func(ctx context.Context) (cachedSlot, error) {
		value, found, fetchErr := s.base.Get(ctx, slot)
		if fetchErr != nil {
			return cachedSlot{}, fetchErr
		}
		return cachedSlot{Value: value, Found: found}, nil
	})
	if err != nil {
		return "", false, err
	}
	return entry.Value, entry.Found, nil
}

func (s *CachedCredentialStore) Set(ctx context.Context, slot core.TokenSlot, value string) error {
	if s == nil || s.base == nil || s.cache == nil {
		return fmt.Errorf("sqlstore: cached credential store is not configured")
	}
	cacheKey, err := CredentialCacheKey(s.namespace, slot)
	if err != nil {
		return err
	}
	if err := s.base.Set(ctx, slot, value); err != nil {
		return err
	}
	return s.cache.Delete(ctx, cacheKey)
}

func (s *CachedCredentialStore) Clear(ctx context.Context) error {
	if s == nil || s.base == nil || s.cache == nil {
		return fmt.Errorf("sqlstore: cached credential store is not configured")
	}
	if err := s.base.Clear(ctx); err != nil {
		return err
	}
	for _, slot := range core.TokenSlots() {
		cacheKey, err := CredentialCacheKey(s.namespace, slot)
		if err != nil {
			return err
		}
		if err := s.cache.Delete(ctx, cacheKey); err != nil {
			return err
		}
	}
	return nil
}
