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

// Package resolver derives a tenant identifier from inbound request
// attributes. Resolution is pure derivation under a fixed precedence order:
// host subdomain, then /r/ path slug, then restaurant_id in the query string,
// then restaurant_id in the parsed body. No network or cache access happens
// here.
package resolver

import (
	"net/url"
	"strings"
)

// Scheme identifies which routing key a resolution carries.
type Scheme string

const (
	// SchemeSubdomain means the identifier is a tenant subdomain.
	SchemeSubdomain Scheme = "subdomain"
	// SchemeSlug means the identifier is a tenant URL slug.
	SchemeSlug Scheme = "slug"
	// SchemeNone means no tenant could be derived from the request.
	SchemeNone Scheme = "none"
)

// reservedLabels are host labels that never identify a tenant.
var reservedLabels = map[string]bool{
	"www": true,
	"app": true,
	"api": true,
}

// Resolution is the outcome of tenant derivation.
type Resolution struct {
	Scheme     Scheme
	Identifier string
}

// None reports whether no tenant could be derived.
func (r Resolution) None() bool {
	return r.Scheme == SchemeNone
}

// Resolve derives a tenant identifier from request attributes. First match
// wins: a routable host subdomain beats a /r/ path slug, which beats a
// restaurant_id query parameter, which beats a restaurant_id body field.
func Resolve(host, path string, query url.Values, body map[string]interface{}) Resolution {
	if subdomain, ok := subdomainFromHost(host); ok {
		return Resolution{Scheme: SchemeSubdomain, Identifier: subdomain}
	}

	if slug, ok := slugFromPath(path); ok {
		return Resolution{Scheme: SchemeSlug, Identifier: slug}
	}

	if query != nil {
		if id := query.Get("restaurant_id"); id != "" {
			return Resolution{Scheme: SchemeSlug, Identifier: id}
		}
	}

	if body != nil {
		if id, ok := body["restaurant_id"].(string); ok && id != "" {
			return Resolution{Scheme: SchemeSlug, Identifier: id}
		}
	}

	return Resolution{Scheme: SchemeNone}
}

// subdomainFromHost extracts the leftmost host label when it can identify a
// tenant (e.g. luigi.restaurant-ai.com). Reserved labels and bare hosts are
// skipped.
func subdomainFromHost(host string) (string, bool) {
	host = strings.ToLower(host)

	// Drop any port before inspecting labels.
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}

	if !strings.Contains(host, ".") {
		return "", false
	}

	label := strings.SplitN(host, ".", 2)[0]
	if label == "" || reservedLabels[label] {
		return "", false
	}

	return label, true
}

// slugFromPath extracts the slug segment from paths of the form /r/<slug>.
func slugFromPath(path string) (string, bool) {
	if !strings.HasPrefix(path, "/r/") {
		return "", false
	}

	slug := strings.TrimPrefix(path, "/r/")
	if i := strings.IndexByte(slug, '/'); i >= 0 {
		slug = slug[:i]
	}

	if slug == "" {
		return "", false
	}

	return slug, true
}
