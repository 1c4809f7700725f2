package cache

import (
	"encoding/json"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"marketnest/internal/domain"
)

// ListingCache fronts the public listing reads. The list cache is keyed by
// the serialized filter set; the item cache by listing id. Writes flush the
// whole list cache because any filter combination may be affected.
type ListingCache struct {
	lists      *ttlcache.Cache[string, []domain.ListingDetails]
	items      *ttlcache.Cache[string, *domain.ListingDetails]
	invalidate bool
}

func New(ttl time.Duration, capacity uint64, invalidateOnWrite bool) *ListingCache {
	c := &ListingCache{
		lists: ttlcache.New[string, []domain.ListingDetails](
			ttlcache.WithTTL[string, []domain.ListingDetails](ttl),
			ttlcache.WithCapacity[string, []domain.ListingDetails](capacity),
		),
		items: ttlcache.New[string, *domain.ListingDetails](
			ttlcache.WithTTL[string, *domain.ListingDetails](ttl),
			ttlcache.WithCapacity[string, *domain.ListingDetails](capacity),
		),
		invalidate: invalidateOnWrite,
	}
	go c.lists.Start()
	go c.items.Start()
	return c
}

// ListKey builds a stable cache key from the filter set.
func ListKey(f domain.ListingFilters) string {
	b, _ := json.Marshal(f)
	return string(b)
}

func (c *ListingCache) GetList(key string) ([]domain.ListingDetails, bool) {
	item := c.lists.Get(key)
	if item == nil {
		return nil, false
	}
	return item.Value(), true
}

func (c *ListingCache) SetList(key string, v []domain.ListingDetails) {
	c.lists.Set(key, v, ttlcache.DefaultTTL)
}

func (c *ListingCache) GetItem(id string) (*domain.ListingDetails, bool) {
	item := c.items.Get(id)
	if item == nil {
		return nil, false
	}
	return item.Value(), true
}

func (c *ListingCache) SetItem(id string, v *domain.ListingDetails) {
	c.items.Set(id, v, ttlcache.DefaultTTL)
}

// Invalidate drops the affected listing and every cached list. With
// write-invalidation disabled entries simply age out by TTL.
func (c *ListingCache) Invalidate(listingID string) {
	if !c.invalidate {
		return
	}
	if listingID != "" {
		c.items.Delete(listingID)
	}
	c.lists.DeleteAll()
}

func (c *ListingCache) Stop() {
	c.lists.Stop()
	c.items.Stop()
}
