package server

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/your-org/restaurant-ai/internal/chat"
	"github.com/your-org/restaurant-ai/internal/dialogue"
	"github.com/your-org/restaurant-ai/internal/rules"
	"github.com/your-org/restaurant-ai/internal/store"
)

type fakeCatalog struct {
	tenant *store.Tenant
	items  []store.MenuItem
}

func (f *fakeCatalog) TenantBySubdomain(_ context.Context, subdomain string) (*store.Tenant, error) {
	if f.tenant == nil || f.tenant.Subdomain != subdomain {
		return nil, store.ErrNotFound
	}
	return f.tenant, nil
}

func (f *fakeCatalog) TenantBySlug(_ context.Context, slug string) (*store.Tenant, error) {
	if f.tenant == nil || f.tenant.Slug != slug {
		return nil, store.ErrNotFound
	}
	return f.tenant, nil
}

func (f *fakeCatalog) MenuItems(_ context.Context, tenantID string) ([]store.MenuItem, error) {
	return f.items, nil
}

type fakeLog struct {
	entries []store.Conversation
}

func (f *fakeLog) LogConversation(_ context.Context, conv store.Conversation) error {
	f.entries = append(f.entries, conv)
	return nil
}

func testTenant() *store.Tenant {
	return &store.Tenant{
		ID:            "t-1",
		Name:          "Luigi's Trattoria",
		Subdomain:     "luigi",
		Slug:          "luigis",
		AssistantName: "Maria",
		Active:        true,
	}
}

func testMenu() []store.MenuItem {
	return []store.MenuItem{
		{ID: "m-1", Name: "Bruschetta", Price: 9.50, Category: "appetizer", Vegetarian: true},
		{ID: "m-2", Name: "Spaghetti Carbonara", Price: 18.99, Category: "main"},
		{ID: "m-3", Name: "Tiramisu", Price: 8.99, Category: "dessert", Vegetarian: true},
	}
}

func newTestRouter(t *testing.T, catalog *fakeCatalog, stats StatsFunc) (*gin.Engine, *fakeLog) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := &fakeLog{}
	sessions := dialogue.NewManager(time.Minute)
	t.Cleanup(sessions.Close)
	engine := rules.NewEngine(rand.New(rand.NewSource(1)))
	chatSvc := chat.NewService(catalog, log, nil, engine, sessions, zap.NewNop())

	srv := New(chatSvc, catalog, stats, nil, zap.NewNop())
	return srv.Router(), log
}

func postChat(t *testing.T, router *gin.Engine, host, path string, payload map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Host = host
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestChatResolvesTenantFromSubdomain(t *testing.T) {
	catalog := &fakeCatalog{tenant: testTenant(), items: testMenu()}
	router, log := newTestRouter(t, catalog, nil)

	rec := postChat(t, router, "luigi.restaurant-ai.com", "/api/chat", map[string]interface{}{
		"message":    "hello",
		"session_id": "s-1",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Response)
	require.NotNil(t, resp.Tenant)
	assert.Equal(t, "Luigi's Trattoria", resp.Tenant.Name)
	assert.Equal(t, "Maria", resp.Tenant.AssistantName)

	require.Len(t, log.entries, 1)
	assert.Equal(t, "s-1", log.entries[0].SessionID)
}

func TestChatResolvesTenantFromBody(t *testing.T) {
	catalog := &fakeCatalog{tenant: testTenant(), items: testMenu()}
	router, _ := newTestRouter(t, catalog, nil)

	rec := postChat(t, router, "localhost:8000", "/api/chat", map[string]interface{}{
		"message":       "hello",
		"restaurant_id": "luigis",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestChatEmptyMessageReturns400(t *testing.T) {
	catalog := &fakeCatalog{tenant: testTenant(), items: testMenu()}
	router, _ := newTestRouter(t, catalog, nil)

	rec := postChat(t, router, "luigi.restaurant-ai.com", "/api/chat", map[string]interface{}{
		"message": "   ",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Message is required", resp.Error)
}

func TestChatUnknownTenantReturns404(t *testing.T) {
	catalog := &fakeCatalog{tenant: testTenant(), items: testMenu()}
	router, _ := newTestRouter(t, catalog, nil)

	rec := postChat(t, router, "ghost.restaurant-ai.com", "/api/chat", map[string]interface{}{
		"message": "hello",
	})

	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Restaurant not found", resp.Error)
}

func TestChatNoTenantHintReturns404(t *testing.T) {
	catalog := &fakeCatalog{tenant: testTenant(), items: testMenu()}
	router, _ := newTestRouter(t, catalog, nil)

	rec := postChat(t, router, "localhost:8000", "/api/chat", map[string]interface{}{
		"message": "hello",
	})

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTenantInfoBySlugPath(t *testing.T) {
	catalog := &fakeCatalog{tenant: testTenant(), items: testMenu()}
	router, _ := newTestRouter(t, catalog, nil)

	req := httptest.NewRequest(http.MethodGet, "/r/luigis", nil)
	req.Host = "localhost:8000"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success    bool         `json:"success"`
		Restaurant store.Tenant `json:"restaurant"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Luigi's Trattoria", resp.Restaurant.Name)
}

func TestMenuEndpoint(t *testing.T) {
	catalog := &fakeCatalog{tenant: testTenant(), items: testMenu()}
	router, _ := newTestRouter(t, catalog, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/menu?restaurant_id=luigis", nil)
	req.Host = "localhost:8000"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool             `json:"success"`
		Items   []store.MenuItem `json:"items"`
		Count   int              `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 3, resp.Count)
	assert.Len(t, resp.Items, 3)
}

func TestStatsEndpoint(t *testing.T) {
	catalog := &fakeCatalog{tenant: testTenant(), items: testMenu()}
	stats := func(_ context.Context, tenantID string) ([]store.DayStats, error) {
		return []store.DayStats{{Date: "2024-06-01", Conversations: 12, UniqueSessions: 4}}, nil
	}
	router, _ := newTestRouter(t, catalog, stats)

	req := httptest.NewRequest(http.MethodGet, "/api/stats/t-1", nil)
	req.Host = "localhost:8000"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool             `json:"success"`
		Stats   []store.DayStats `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Stats, 1)
	assert.Equal(t, 12, resp.Stats[0].Conversations)
}
