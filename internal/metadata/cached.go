package metadata

import (
	"context"
	"log"
	"time"

	"github.com/mrlokans/librarian/internal/cache"
)

// fetchName qualifies the wrapped call in cache keys. Keys must match
// across processes, so this is a fixed string rather than anything
// derived from runtime state.
const fetchName = "metadata.Provider.FetchByISBN"

// CachedProvider memoizes an underlying Provider in a cache store.
//
// Successful lookups, including ones that matched nothing, are stored
// for the configured TTL. Failed lookups bypass the store entirely: the
// next call hits the network again.
type CachedProvider struct {
	provider Provider
	store    *cache.Store
	ttl      time.Duration
}

// NewCachedProvider wraps provider with a memoization layer.
func NewCachedProvider(provider Provider, store *cache.Store, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		provider: provider,
		store:    store,
		ttl:      ttl,
	}
}

// FetchByISBN returns the cached result for isbn when a fresh one
// exists, and consults the underlying provider otherwise.
func (p *CachedProvider) FetchByISBN(ctx context.Context, isbn string) (BookInfo, error) {
	key := cache.Key(fetchName, isbn)

	var cached BookInfo
	hit, err := p.store.Get(key, &cached)
	if err != nil {
		// A broken cache read degrades to a fetch, not a failure.
		log.Printf("cache read for %s failed: %v", isbn, err)
	}
	if hit {
		return cached, nil
	}

	info, err := p.provider.FetchByISBN(ctx, isbn)
	if err != nil {
		return BookInfo{}, err
	}

	if err := p.store.Set(key, info, p.ttl); err != nil {
		log.Printf("cache write for %s failed: %v", isbn, err)
	}
	return info, nil
}
