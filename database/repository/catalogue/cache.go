package catalogueRepo

import (
	"context"
	"time"

	"salonbook/models"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

// CachedCatalogue keeps recently used service definitions in an expiring LRU.
// Only catalogue data is cached; calendars are always read from the store.
type CachedCatalogue struct {
	next   CatalogueRepository
	cache  *expirable.LRU[string, models.Service]
	logger *zap.Logger
}

func NewCachedCatalogue(next CatalogueRepository, size int, ttl time.Duration, logger *zap.Logger) *CachedCatalogue {
	if size <= 0 {
		size = 256
	}
	return &CachedCatalogue{
		next:   next,
		cache:  expirable.NewLRU[string, models.Service](size, nil, ttl),
		logger: logger,
	}
}

func (c *CachedCatalogue) GetServices(ctx context.Context, ids []string) ([]models.Service, error) {
	out := make([]models.Service, len(ids))
	var missing []string
	missingAt := make(map[string][]int)
	for i, id := range ids {
		if s, ok := c.cache.Get(id); ok {
			out[i] = s
			continue
		}
		if _, seen := missingAt[id]; !seen {
			missing = append(missing, id)
		}
		missingAt[id] = append(missingAt[id], i)
	}
	if len(missing) == 0 {
		return out, nil
	}

	c.logger.Debug("catalogue cache miss", zap.Strings("serviceIds", missing))
	fetched, err := c.next.GetServices(ctx, missing)
	if err != nil {
		return nil, err
	}
	for _, s := range fetched {
		c.cache.Add(s.ID, s)
		for _, i := range missingAt[s.ID] {
			out[i] = s
		}
	}
	return out, nil
}

// Invalidate drops a service so the next read goes to the store.
func (c *CachedCatalogue) Invalidate(serviceID string) {
	c.cache.Remove(serviceID)
}
