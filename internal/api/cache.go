package api

import (
	"context"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"sudogwon/web/internal/models"
)

const (
	detailTTL  = time.Hour      // per-apartment metadata fetch
	sitemapTTL = 24 * time.Hour // apartment id listing for the sitemap
)

// metaCache backs the two SEO surfaces that are allowed to serve stale data:
// page metadata / OG image (1 h) and the sitemap id listing (24 h). Page
// renders themselves always hit the backend.
type metaCache struct {
	store *gocache.Cache
}

func newMetaCache() *metaCache {
	return &metaCache{store: gocache.New(detailTTL, 10*time.Minute)}
}

// CachedDetail is ApartmentDetail behind the 1 h metadata cache, used by the
// OG image, page metadata and the scroll endpoint's verdict lookup.
func (c *Client) CachedDetail(ctx context.Context, id int64) (*models.ApartmentDetail, error) {
	key := "detail:" + strconv.FormatInt(id, 10)
	if v, ok := c.detailCache.store.Get(key); ok {
		return v.(*models.ApartmentDetail), nil
	}
	detail, err := c.ApartmentDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	c.detailCache.store.Set(key, detail, detailTTL)
	return detail, nil
}

// CachedIDs is ApartmentIDs behind the 24 h sitemap cache.
func (c *Client) CachedIDs(ctx context.Context) ([]int64, error) {
	if v, ok := c.detailCache.store.Get("ids"); ok {
		return v.([]int64), nil
	}
	ids, err := c.ApartmentIDs(ctx)
	if err != nil {
		return nil, err
	}
	c.detailCache.store.Set("ids", ids, sitemapTTL)
	return ids, nil
}
