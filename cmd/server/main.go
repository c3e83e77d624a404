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

// Package main provides the restaurant chat service: a multi-tenant HTTP
// server answering menu questions per restaurant, with an optional generative
// backend and a rule-based fallback.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/your-org/restaurant-ai/internal/backend"
	"github.com/your-org/restaurant-ai/internal/cache"
	"github.com/your-org/restaurant-ai/internal/catalog"
	"github.com/your-org/restaurant-ai/internal/chat"
	"github.com/your-org/restaurant-ai/internal/config"
	"github.com/your-org/restaurant-ai/internal/dialogue"
	"github.com/your-org/restaurant-ai/internal/health"
	"github.com/your-org/restaurant-ai/internal/rules"
	"github.com/your-org/restaurant-ai/internal/server"
	"github.com/your-org/restaurant-ai/internal/store"
)

const serviceVersion = "1.0.0"

func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load("")
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Open the durable store.
	db, err := store.Open(cfg.Store.DBPath)
	if err != nil {
		logger.Fatal("Failed to open database", zap.String("path", cfg.Store.DBPath), zap.Error(err))
	}
	defer func() { _ = db.Close() }()
	logger.Info("Database ready", zap.String("path", cfg.Store.DBPath))

	// Connect the fast cache; fall back to in-process memory when Redis is
	// unreachable so a cache outage never blocks startup.
	var fastCache cache.Cache
	redisCache, err := cache.NewRedis(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword)
	if err != nil {
		logger.Warn("Redis unavailable, using in-memory cache",
			zap.String("addr", cfg.Cache.RedisAddr),
			zap.Error(err),
		)
		fastCache = cache.NewMemory()
	} else {
		defer func() { _ = redisCache.Close() }()
		fastCache = redisCache
		logger.Info("Redis cache connected", zap.String("addr", cfg.Cache.RedisAddr))
	}

	// Select the generative backend from configured credentials.
	generator := backend.Select(cfg.Backend.OpenAIAPIKey, cfg.Backend.GroqAPIKey, logger)
	backendName := ""
	if generator != nil {
		backendName = generator.Name()
	}

	cat := catalog.New(db, fastCache, logger)
	sessions := dialogue.NewManager(cfg.Chat.SessionTTL)
	defer sessions.Close()

	engine := rules.NewEngine(rand.New(rand.NewSource(time.Now().UnixNano())))
	chatSvc := chat.NewService(cat, db, generator, engine, sessions, logger)

	// Health checks: the store is required, the cache only degrades.
	healthManager := health.NewManager("restaurant-ai", serviceVersion, backendName, logger)
	healthManager.AddChecker("database", health.DatabaseChecker("sqlite", db.Ping))
	healthManager.AddChecker("cache", health.CacheChecker("redis", func(ctx context.Context) error {
		return fastCache.Ping(ctx)
	}))

	srv := server.New(chatSvc, cat, db.TenantStats, healthManager.HTTPHandler(), logger)
	router := srv.Router()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Starting restaurant chat service",
		zap.String("addr", addr),
		zap.String("backend", backendName),
	)
	if err := router.Run(addr); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
