package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCheckAggregatesStatuses(t *testing.T) {
	m := NewManager("restaurant-ai", "1.0.0", "openai", zap.NewNop())
	m.AddChecker("database", DatabaseChecker("sqlite", func(context.Context) error { return nil }))
	m.AddChecker("cache", CacheChecker("redis", func(context.Context) error { return nil }))

	resp := m.Check(context.Background())

	assert.Equal(t, StatusHealthy, resp.Status)
	assert.Equal(t, "restaurant-ai", resp.Service)
	assert.Equal(t, "openai", resp.Backend)
	assert.True(t, resp.BackendReady)
	assert.Len(t, resp.Dependencies, 2)
}

func TestCheckCacheFailureOnlyDegrades(t *testing.T) {
	m := NewManager("restaurant-ai", "1.0.0", "", zap.NewNop())
	m.AddChecker("database", DatabaseChecker("sqlite", func(context.Context) error { return nil }))
	m.AddChecker("cache", CacheChecker("redis", func(context.Context) error {
		return errors.New("connection refused")
	}))

	resp := m.Check(context.Background())

	assert.Equal(t, StatusDegraded, resp.Status)
	assert.Equal(t, StatusDegraded, resp.Dependencies["cache"].Status)
	assert.Equal(t, StatusHealthy, resp.Dependencies["database"].Status)
}

func TestCheckDatabaseFailureIsUnhealthy(t *testing.T) {
	m := NewManager("restaurant-ai", "1.0.0", "", zap.NewNop())
	m.AddChecker("database", DatabaseChecker("sqlite", func(context.Context) error {
		return errors.New("database is locked")
	}))

	resp := m.Check(context.Background())

	assert.Equal(t, StatusUnhealthy, resp.Status)
	assert.Contains(t, resp.Dependencies["database"].Error, "database is locked")
}

func TestCheckRuleOnlyModeReportsRulesBackend(t *testing.T) {
	m := NewManager("restaurant-ai", "1.0.0", "", zap.NewNop())

	resp := m.Check(context.Background())

	assert.Equal(t, "rules", resp.Backend)
	assert.False(t, resp.BackendReady)
}

func TestHTTPHandlerStatusCodes(t *testing.T) {
	testCases := []struct {
		name       string
		pingErr    error
		wantStatus int
	}{
		{"healthy returns 200", nil, http.StatusOK},
		{"unhealthy returns 503", errors.New("down"), http.StatusServiceUnavailable},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewManager("restaurant-ai", "1.0.0", "groq", zap.NewNop())
			m.AddChecker("database", DatabaseChecker("sqlite", func(context.Context) error {
				return tc.pingErr
			}))

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			rec := httptest.NewRecorder()
			m.HTTPHandler()(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)

			var resp Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "groq", resp.Backend)
		})
	}
}

func TestHTTPHandlerRejectsNonGet(t *testing.T) {
	m := NewManager("restaurant-ai", "1.0.0", "", zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	rec := httptest.NewRecorder()
	m.HTTPHandler()(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCheckRespectsTimeout(t *testing.T) {
	m := NewManager("restaurant-ai", "1.0.0", "", zap.NewNop())
	m.SetTimeout(50 * time.Millisecond)
	m.AddCheckerFunc("slow", func(ctx context.Context) CheckResult {
		select {
		case <-ctx.Done():
			return CheckResult{Status: StatusUnhealthy, Error: ctx.Err().Error()}
		case <-time.After(time.Second):
			return CheckResult{Status: StatusHealthy}
		}
	})

	start := time.Now()
	resp := m.Check(context.Background())

	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, StatusUnhealthy, resp.Status)
}
