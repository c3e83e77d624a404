// Copyright 2024 Restaurant AI Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package catalog implements the cache-aside read path for tenant profiles
// and menus: check the fast cache first, fall through to the durable store
// on a miss, and repopulate the cache with a fixed TTL. A slow or down cache
// degrades to durable-store reads and is never surfaced as a request error.
package catalog

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/your-org/restaurant-ai/internal/cache"
	"github.com/your-org/restaurant-ai/internal/store"
)

const (
	// CacheTTL is the fixed time-to-live for cached profile and menu entries.
	CacheTTL = time.Hour
	// cacheTimeout bounds individual cache operations so a slow cache cannot
	// stall the read path.
	cacheTimeout = 2 * time.Second
)

// TenantSource is the durable-store contract the catalog depends on.
type TenantSource interface {
	TenantBySubdomain(ctx context.Context, subdomain string) (*store.Tenant, error)
	TenantBySlug(ctx context.Context, slug string) (*store.Tenant, error)
	MenuItems(ctx context.Context, tenantID string) ([]store.MenuItem, error)
}

// Catalog is the read-through cache over tenant and menu data.
type Catalog struct {
	source TenantSource
	cache  cache.Cache
	logger *zap.Logger
}

// New creates a catalog over the given durable store and fast cache.
func New(source TenantSource, c cache.Cache, logger *zap.Logger) *Catalog {
	return &Catalog{
		source: source,
		cache:  c,
		logger: logger,
	}
}

func subdomainKey(subdomain string) string { return "tenant:sub:" + subdomain }
func slugKey(slug string) string           { return "tenant:slug:" + slug }
func menuKey(tenantID string) string       { return "menu:" + tenantID }

// TenantBySubdomain returns the active tenant with the given subdomain,
// serving from cache when possible.
func (c *Catalog) TenantBySubdomain(ctx context.Context, subdomain string) (*store.Tenant, error) {
	key := subdomainKey(subdomain)

	var tenant store.Tenant
	if c.cacheGet(ctx, key, &tenant) {
		return &tenant, nil
	}

	fromStore, err := c.source.TenantBySubdomain(ctx, subdomain)
	if err != nil {
		return nil, err
	}

	c.cacheSet(ctx, key, fromStore)
	return fromStore, nil
}

// TenantBySlug returns the active tenant with the given slug, serving from
// cache when possible.
func (c *Catalog) TenantBySlug(ctx context.Context, slug string) (*store.Tenant, error) {
	key := slugKey(slug)

	var tenant store.Tenant
	if c.cacheGet(ctx, key, &tenant) {
		return &tenant, nil
	}

	fromStore, err := c.source.TenantBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	c.cacheSet(ctx, key, fromStore)
	return fromStore, nil
}

// MenuItems returns the active menu for a tenant, serving from cache when
// possible.
func (c *Catalog) MenuItems(ctx context.Context, tenantID string) ([]store.MenuItem, error) {
	key := menuKey(tenantID)

	var items []store.MenuItem
	if c.cacheGet(ctx, key, &items) {
		return items, nil
	}

	fromStore, err := c.source.MenuItems(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	c.cacheSet(ctx, key, fromStore)
	return fromStore, nil
}

// Invalidate removes the cached profile and menu entries for a tenant. It is
// called by management operations after tenant or menu changes, never by the
// read path.
func (c *Catalog) Invalidate(ctx context.Context, tenant *store.Tenant) {
	ctx, cancel := context.WithTimeout(ctx, cacheTimeout)
	defer cancel()

	keys := []string{
		subdomainKey(tenant.Subdomain),
		slugKey(tenant.Slug),
		menuKey(tenant.ID),
	}
	if err := c.cache.Delete(ctx, keys...); err != nil {
		c.logger.Warn("Cache invalidation failed",
			zap.String("tenant_id", tenant.ID),
			zap.Error(err),
		)
		return
	}

	c.logger.Info("Invalidated cache for tenant", zap.String("tenant_id", tenant.ID))
}

// cacheGet reads and decodes a cached value into out, reporting whether the
// read hit. Cache errors are logged and treated as misses.
func (c *Catalog) cacheGet(ctx context.Context, key string, out interface{}) bool {
	ctx, cancel := context.WithTimeout(ctx, cacheTimeout)
	defer cancel()

	data, err := c.cache.Get(ctx, key)
	if err != nil {
		if err != cache.ErrMiss {
			c.logger.Warn("Cache read failed, falling through to store",
				zap.String("key", key),
				zap.Error(err),
			)
		}
		return false
	}

	if err := json.Unmarshal([]byte(data), out); err != nil {
		c.logger.Warn("Cached value is malformed, falling through to store",
			zap.String("key", key),
			zap.Error(err),
		)
		return false
	}

	c.logger.Debug("Cache hit", zap.String("key", key))
	return true
}

// cacheSet encodes and writes a value with the fixed TTL. Concurrent writers
// for the same key are acceptable: cached values are idempotent recomputations
// of the same durable record and last write wins.
func (c *Catalog) cacheSet(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("Failed to encode value for cache", zap.String("key", key), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, cacheTimeout)
	defer cancel()

	if err := c.cache.SetWithExpiry(ctx, key, string(data), CacheTTL); err != nil {
		c.logger.Warn("Cache write failed",
			zap.String("key", key),
			zap.Error(err),
		)
		return
	}

	c.logger.Debug("Cached value", zap.String("key", key))
}
