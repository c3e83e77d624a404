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

// Package recommend derives structured menu recommendations from generated
// response text by matching item names mentioned in the reply.
package recommend

import (
	"strings"

	"github.com/your-org/restaurant-ai/internal/store"
)

// MaxRecommendations caps how many items are extracted from one response.
const MaxRecommendations = 2

// Extract returns the menu items whose names appear in the response text.
// Matching is case-insensitive substring containment against the full item
// name; items are checked in menu order and at most MaxRecommendations are
// returned. An empty result is valid and means the reply mentioned no items.
func Extract(response string, items []store.MenuItem) []store.MenuItem {
	responseLower := strings.ToLower(response)

	var matched []store.MenuItem
	for _, item := range items {
		if strings.Contains(responseLower, strings.ToLower(item.Name)) {
			matched = append(matched, item)
			if len(matched) >= MaxRecommendations {
				break
			}
		}
	}

	return matched
}
