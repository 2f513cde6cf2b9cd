package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"candlebliss_storefront/internal/clients"
	"candlebliss_storefront/internal/domain"
	"candlebliss_storefront/internal/session"

	"github.com/sirupsen/logrus"
)

const (
	productsCacheKey      = "products"
	productsGenerationKey = "products:generation"
	publicScope           = "public"
)

// productCatalog is the cached product list shared by the storefront search
// and the warehouse page. The API answers differently per token, so every
// token gets its own entry. Cache failures fall back to the API.
type productCatalog struct {
	client clients.ProductClient
	cache  session.Cache
	ttl    time.Duration
	log    *logrus.Logger
}

func newProductCatalog(client clients.ProductClient, cache session.Cache, ttl time.Duration, logger *logrus.Logger) *productCatalog {
	return &productCatalog{client: client, cache: cache, ttl: ttl, log: logger}
}

func tokenScope(ctx context.Context) string {
	token := clients.TokenFromContext(ctx)
	if token == "" {
		return publicScope
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}

// generation is bumped on every invalidation; entries written under an older
// generation are never read again and expire on their own.
func (c *productCatalog) generation(ctx context.Context) int64 {
	var gen int64
	if _, err := c.cache.Get(ctx, productsGenerationKey, &gen); err != nil {
		c.log.Warnf("Catalog: Failed to read cache generation: %v", err)
	}
	return gen
}

func (c *productCatalog) key(ctx context.Context, gen int64) string {
	return productsCacheKey + ":" + strconv.FormatInt(gen, 10) + ":" + tokenScope(ctx)
}

func (c *productCatalog) list(ctx context.Context) ([]domain.Product, error) {
	key := c.key(ctx, c.generation(ctx))

	var products []domain.Product
	ok, err := c.cache.Get(ctx, key, &products)
	if err != nil {
		c.log.Warnf("Catalog: Cache read failed, fetching from API: %v", err)
	}
	if ok {
		return products, nil
	}

	products, err = c.client.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, key, products, c.ttl); err != nil {
		c.log.Warnf("Catalog: Failed to cache %d products: %v", len(products), err)
	}
	return products, nil
}

// applyDelta patches the caller's cached quantity of one product detail
// instead of refetching its list. Lists cached for other tokens are dropped.
// It reports whether the caller's cached list was updated.
func (c *productCatalog) applyDelta(ctx context.Context, detailID, delta int) bool {
	var products []domain.Product
	ok, err := c.cache.Get(ctx, c.key(ctx, c.generation(ctx)), &products)
	if err != nil || !ok {
		c.invalidate(ctx)
		return false
	}

	found := false
	for i := range products {
		for j := range products[i].Details {
			if products[i].Details[j].ID == detailID {
				products[i].Details[j].Quantities += delta
				found = true
			}
		}
	}

	gen := c.invalidate(ctx)
	if !found || gen == 0 {
		return false
	}
	if err := c.cache.Set(ctx, c.key(ctx, gen), products, c.ttl); err != nil {
		c.log.Warnf("Catalog: Failed to write reconciled product list: %v", err)
		return false
	}
	return true
}

// invalidate drops the cached lists of every token scope and returns the new
// generation, or 0 when it could not be stored.
func (c *productCatalog) invalidate(ctx context.Context) int64 {
	gen := time.Now().UnixNano()
	if err := c.cache.Set(ctx, productsGenerationKey, gen, 0); err != nil {
		c.log.Warnf("Catalog: Failed to invalidate product cache: %v", err)
		return 0
	}
	return gen
}
