package resolver

import (
	"net/url"
	"testing"
)

func TestResolvePrecedence(t *testing.T) {
	testCases := []struct {
		name           string
		host           string
		path           string
		query          url.Values
		body           map[string]interface{}
		wantScheme     Scheme
		wantIdentifier string
	}{
		{
			name:           "subdomain host",
			host:           "luigi.restaurant-ai.com",
			path:           "/",
			wantScheme:     SchemeSubdomain,
			wantIdentifier: "luigi",
		},
		{
			name:           "subdomain wins over path slug",
			host:           "luigi.restaurant-ai.com",
			path:           "/r/marios",
			wantScheme:     SchemeSubdomain,
			wantIdentifier: "luigi",
		},
		{
			name:           "subdomain host with port",
			host:           "luigi.localhost:8080",
			path:           "/",
			wantScheme:     SchemeSubdomain,
			wantIdentifier: "luigi",
		},
		{
			name:           "host is upper-cased",
			host:           "LUIGI.Restaurant-AI.com",
			path:           "/",
			wantScheme:     SchemeSubdomain,
			wantIdentifier: "luigi",
		},
		{
			name:           "reserved www label falls through to path",
			host:           "www.restaurant-ai.com",
			path:           "/r/marios",
			wantScheme:     SchemeSlug,
			wantIdentifier: "marios",
		},
		{
			name:           "reserved app label falls through to path",
			host:           "app.restaurant-ai.com",
			path:           "/r/marios",
			wantScheme:     SchemeSlug,
			wantIdentifier: "marios",
		},
		{
			name:           "reserved api label falls through to path",
			host:           "api.restaurant-ai.com",
			path:           "/r/marios/menu",
			wantScheme:     SchemeSlug,
			wantIdentifier: "marios",
		},
		{
			name:           "bare host falls through to path",
			host:           "localhost:8080",
			path:           "/r/marios",
			wantScheme:     SchemeSlug,
			wantIdentifier: "marios",
		},
		{
			name:           "path slug wins over query",
			host:           "localhost",
			path:           "/r/marios",
			query:          url.Values{"restaurant_id": {"luigis"}},
			wantScheme:     SchemeSlug,
			wantIdentifier: "marios",
		},
		{
			name:           "query restaurant_id",
			host:           "localhost",
			path:           "/api/menu",
			query:          url.Values{"restaurant_id": {"luigis"}},
			wantScheme:     SchemeSlug,
			wantIdentifier: "luigis",
		},
		{
			name:           "query wins over body",
			host:           "localhost",
			path:           "/api/chat",
			query:          url.Values{"restaurant_id": {"luigis"}},
			body:           map[string]interface{}{"restaurant_id": "marios"},
			wantScheme:     SchemeSlug,
			wantIdentifier: "luigis",
		},
		{
			name:           "body restaurant_id",
			host:           "localhost",
			path:           "/api/chat",
			body:           map[string]interface{}{"restaurant_id": "luigis"},
			wantScheme:     SchemeSlug,
			wantIdentifier: "luigis",
		},
		{
			name:       "no hint anywhere",
			host:       "localhost",
			path:       "/api/chat",
			wantScheme: SchemeNone,
		},
		{
			name:       "empty slug segment",
			host:       "localhost",
			path:       "/r/",
			wantScheme: SchemeNone,
		},
		{
			name:       "non-string body restaurant_id is ignored",
			host:       "localhost",
			path:       "/api/chat",
			body:       map[string]interface{}{"restaurant_id": 42},
			wantScheme: SchemeNone,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Resolve(tc.host, tc.path, tc.query, tc.body)

			if got.Scheme != tc.wantScheme {
				t.Errorf("expected scheme %q, got %q", tc.wantScheme, got.Scheme)
			}
			if got.Identifier != tc.wantIdentifier {
				t.Errorf("expected identifier %q, got %q", tc.wantIdentifier, got.Identifier)
			}
		})
	}
}

func TestResolveSubdomainIgnoresPath(t *testing.T) {
	// Any host of the form a.b with a non-reserved leftmost label resolves to
	// (subdomain, a) regardless of the path.
	paths := []string{"/", "/r/other", "/api/menu", "/health", "/static/app.js"}

	for _, path := range paths {
		got := Resolve("luigi.example.com", path, nil, nil)
		if got.Scheme != SchemeSubdomain || got.Identifier != "luigi" {
			t.Errorf("path %s: expected (subdomain, luigi), got (%s, %s)", path, got.Scheme, got.Identifier)
		}
	}
}
