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

// Package chat orchestrates one chat turn end to end: tenant lookup, menu
// fetch, response generation with rule-engine fallback, recommendation
// extraction, and conversation logging.
package chat

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/your-org/restaurant-ai/internal/backend"
	"github.com/your-org/restaurant-ai/internal/dialogue"
	"github.com/your-org/restaurant-ai/internal/recommend"
	"github.com/your-org/restaurant-ai/internal/resolver"
	"github.com/your-org/restaurant-ai/internal/rules"
	"github.com/your-org/restaurant-ai/internal/store"
)

var (
	// ErrTenantNotFound means the resolved identifier matches no active tenant.
	ErrTenantNotFound = errors.New("tenant not found")
	// ErrEmptyMessage means the user message was empty after trimming.
	ErrEmptyMessage = errors.New("message is empty")
)

// anonymousSession is the session key used when the client sends none.
const anonymousSession = "anonymous"

// Catalog is the tenant and menu read path the service depends on.
type Catalog interface {
	TenantBySubdomain(ctx context.Context, subdomain string) (*store.Tenant, error)
	TenantBySlug(ctx context.Context, slug string) (*store.Tenant, error)
	MenuItems(ctx context.Context, tenantID string) ([]store.MenuItem, error)
}

// ConversationLog records completed chat turns for tenant analytics.
type ConversationLog interface {
	LogConversation(ctx context.Context, conv store.Conversation) error
}

// Request is one inbound chat turn.
type Request struct {
	Resolution resolver.Resolution
	Message    string
	SessionID  string
}

// TenantInfo is the tenant context echoed back with each reply.
type TenantInfo struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	AssistantName string `json:"ai_name"`
}

// Result is the outcome of a chat turn.
type Result struct {
	Response        string
	Recommendations []store.MenuItem
	Tenant          TenantInfo
}

// Service wires the chat pipeline together. The generator may be nil, in
// which case every reply comes from the rule engine.
type Service struct {
	catalog   Catalog
	log       ConversationLog
	generator backend.Generator
	engine    *rules.Engine
	sessions  *dialogue.Manager
	logger    *zap.Logger
}

// NewService creates the chat orchestrator.
func NewService(catalog Catalog, log ConversationLog, generator backend.Generator, engine *rules.Engine, sessions *dialogue.Manager, logger *zap.Logger) *Service {
	return &Service{
		catalog:   catalog,
		log:       log,
		generator: generator,
		engine:    engine,
		sessions:  sessions,
		logger:    logger,
	}
}

// Respond executes one chat turn. A backend failure is logged and absorbed by
// the rule engine; only a missing tenant or an empty message fail the turn.
func (s *Service) Respond(ctx context.Context, req Request) (*Result, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	if req.Resolution.None() {
		return nil, ErrTenantNotFound
	}

	tenant, err := s.lookupTenant(ctx, req.Resolution)
	if err != nil {
		return nil, err
	}

	items, err := s.catalog.MenuItems(ctx, tenant.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = anonymousSession
	}
	session := s.sessions.Session(tenant.ID + ":" + sessionID)

	response, recommendations := s.generate(ctx, session, tenant, items, message)

	s.record(ctx, tenant.ID, sessionID, message, response)

	return &Result{
		Response:        response,
		Recommendations: recommendations,
		Tenant: TenantInfo{
			ID:            tenant.ID,
			Name:          tenant.Name,
			AssistantName: assistantName(tenant),
		},
	}, nil
}

// lookupTenant fetches the tenant matching the resolution scheme.
func (s *Service) lookupTenant(ctx context.Context, res resolver.Resolution) (*store.Tenant, error) {
	var (
		tenant *store.Tenant
		err    error
	)

	switch res.Scheme {
	case resolver.SchemeSubdomain:
		tenant, err = s.catalog.TenantBySubdomain(ctx, res.Identifier)
	case resolver.SchemeSlug:
		tenant, err = s.catalog.TenantBySlug(ctx, res.Identifier)
	default:
		return nil, ErrTenantNotFound
	}

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}

	return tenant, nil
}

// generate produces the reply text and recommendations, falling back to the
// rule engine when no backend is configured or the backend call fails.
func (s *Service) generate(ctx context.Context, session *dialogue.Session, tenant *store.Tenant, items []store.MenuItem, message string) (string, []store.MenuItem) {
	if s.generator == nil {
		reply := s.engine.Respond(session, message, items)
		return reply.Message, reply.Recommendations
	}

	prompt := backend.BuildSystemPrompt(tenant, items)
	text, err := s.generator.Generate(ctx, prompt, message)
	if err != nil {
		fields := []zap.Field{
			zap.String("backend", s.generator.Name()),
			zap.String("tenant_id", tenant.ID),
			zap.Error(err),
		}
		var backendErr *backend.Error
		if errors.As(err, &backendErr) && backendErr.Status > 0 {
			fields = append(fields, zap.Int("status", backendErr.Status))
		}
		s.logger.Warn("Backend call failed, falling back to rule-based response", fields...)

		reply := s.engine.Respond(session, message, items)
		return reply.Message, reply.Recommendations
	}

	return text, recommend.Extract(text, items)
}

// record persists the completed turn. Logging failures never fail the chat.
func (s *Service) record(ctx context.Context, tenantID, sessionID, message, response string) {
	if s.log == nil {
		return
	}

	conv := store.Conversation{
		TenantID:  tenantID,
		SessionID: sessionID,
		Message:   message,
		Response:  response,
	}
	if err := s.log.LogConversation(ctx, conv); err != nil {
		s.logger.Warn("Failed to log conversation",
			zap.String("tenant_id", tenantID),
			zap.Error(err),
		)
	}
}

func assistantName(tenant *store.Tenant) string {
	if tenant.AssistantName != "" {
		return tenant.AssistantName
	}
	return "Sophie"
}
