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

// Package cache provides the fast expiring cache used by the cache-aside
// read path. It supports Redis-backed and in-memory implementations behind
// a small capability interface so the pairing with the durable store stays
// swappable and mockable.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned when a key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Cache is the capability contract required by the cache-aside store.
// Values are opaque serialized blobs keyed by (kind, tenant routing key).
type Cache interface {
	// Get returns the value for key, or ErrMiss when absent or expired.
	Get(ctx context.Context, key string) (string, error)
	// SetWithExpiry stores value under key for the given TTL.
	SetWithExpiry(ctx context.Context, key, value string, ttl time.Duration) error
	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
	// Ping verifies the cache is reachable.
	Ping(ctx context.Context) error
}
