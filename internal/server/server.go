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

// Package server exposes the HTTP surface: tenant landing data, menu and
// stats APIs, the chat endpoint, and health. Tenant identity is derived per
// request from the host, path, query, and body.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/your-org/restaurant-ai/internal/chat"
	"github.com/your-org/restaurant-ai/internal/resolver"
	"github.com/your-org/restaurant-ai/internal/store"
)

// StatsFunc provides per-tenant conversation analytics.
type StatsFunc func(ctx context.Context, tenantID string) ([]store.DayStats, error)

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	chat    *chat.Service
	catalog chat.Catalog
	stats   StatsFunc
	health  http.HandlerFunc
	logger  *zap.Logger
}

// New creates the HTTP server. stats and health may be nil to disable the
// corresponding endpoints.
func New(chatSvc *chat.Service, catalog chat.Catalog, stats StatsFunc, health http.HandlerFunc, logger *zap.Logger) *Server {
	return &Server{
		chat:    chatSvc,
		catalog: catalog,
		stats:   stats,
		health:  health,
		logger:  logger,
	}
}

// Router builds the Gin router with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.GET("/", s.handleTenantInfo)
	router.GET("/r/:slug", s.handleTenantInfo)
	router.GET("/api/menu", s.handleMenu)
	router.POST("/api/chat", s.handleChat)
	router.GET("/api/stats/:tenant_id", s.handleStats)

	if s.health != nil {
		router.GET("/health", gin.WrapF(s.health))
	}

	return router
}

// ChatRequest is the POST /api/chat payload.
type ChatRequest struct {
	Message      string `json:"message"`
	SessionID    string `json:"session_id"`
	RestaurantID string `json:"restaurant_id"`
}

// ChatResponse is the POST /api/chat reply.
type ChatResponse struct {
	Success         bool             `json:"success"`
	Response        string           `json:"response,omitempty"`
	Recommendations []store.MenuItem `json:"recommendations,omitempty"`
	Tenant          *chat.TenantInfo `json:"tenant,omitempty"`
	Error           string           `json:"error,omitempty"`
}

func (s *Server) handleChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ChatResponse{
			Success: false,
			Error:   "Invalid request format",
		})
		return
	}

	res := s.resolve(c, map[string]interface{}{"restaurant_id": req.RestaurantID})

	result, err := s.chat.Respond(c.Request.Context(), chat.Request{
		Resolution: res,
		Message:    req.Message,
		SessionID:  req.SessionID,
	})
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyMessage):
			c.JSON(http.StatusBadRequest, ChatResponse{
				Success: false,
				Error:   "Message is required",
			})
		case errors.Is(err, chat.ErrTenantNotFound):
			c.JSON(http.StatusNotFound, ChatResponse{
				Success: false,
				Error:   "Restaurant not found",
			})
		default:
			s.logger.Error("Chat request failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, ChatResponse{
				Success: false,
				Error:   "Failed to generate response",
			})
		}
		return
	}

	c.JSON(http.StatusOK, ChatResponse{
		Success:         true,
		Response:        result.Response,
		Recommendations: result.Recommendations,
		Tenant:          &result.Tenant,
	})
}

func (s *Server) handleTenantInfo(c *gin.Context) {
	tenant, ok := s.lookupTenant(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"restaurant": tenant,
	})
}

func (s *Server) handleMenu(c *gin.Context) {
	tenant, ok := s.lookupTenant(c)
	if !ok {
		return
	}

	items, err := s.catalog.MenuItems(c.Request.Context(), tenant.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		s.logger.Error("Menu lookup failed", zap.String("tenant_id", tenant.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to load menu",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"restaurant": tenant.Name,
		"items":      items,
		"count":      len(items),
	})
}

func (s *Server) handleStats(c *gin.Context) {
	if s.stats == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Stats not available"})
		return
	}

	tenantID := c.Param("tenant_id")
	stats, err := s.stats(c.Request.Context(), tenantID)
	if err != nil {
		s.logger.Error("Stats lookup failed", zap.String("tenant_id", tenantID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to load stats",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}

// resolve derives the tenant identity for this request.
func (s *Server) resolve(c *gin.Context, body map[string]interface{}) resolver.Resolution {
	return resolver.Resolve(c.Request.Host, c.Request.URL.Path, c.Request.URL.Query(), body)
}

// lookupTenant resolves and fetches the tenant, writing the error response
// itself when that fails.
func (s *Server) lookupTenant(c *gin.Context) (*store.Tenant, bool) {
	res := s.resolve(c, nil)
	if res.None() {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Restaurant not found"})
		return nil, false
	}

	var (
		tenant *store.Tenant
		err    error
	)
	switch res.Scheme {
	case resolver.SchemeSubdomain:
		tenant, err = s.catalog.TenantBySubdomain(c.Request.Context(), res.Identifier)
	case resolver.SchemeSlug:
		tenant, err = s.catalog.TenantBySlug(c.Request.Context(), res.Identifier)
	}

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Restaurant not found"})
			return nil, false
		}
		s.logger.Error("Tenant lookup failed", zap.String("identifier", res.Identifier), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return nil, false
	}

	return tenant, true
}
