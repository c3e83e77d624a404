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

package backend

import (
	"fmt"
	"strings"

	"github.com/your-org/restaurant-ai/internal/store"
)

const (
	defaultAssistantName = "Sophie"
	defaultPersonality   = "friendly and helpful"
)

// BuildSystemPrompt renders the per-tenant system prompt: assistant persona,
// the full menu with dietary attributes, and the response guidelines. The
// persona falls back to defaults when the tenant profile leaves it blank.
func BuildSystemPrompt(tenant *store.Tenant, items []store.MenuItem) string {
	assistantName := tenant.AssistantName
	if assistantName == "" {
		assistantName = defaultAssistantName
	}
	personality := tenant.Personality
	if personality == "" {
		personality = defaultPersonality
	}

	var menu strings.Builder
	for i, item := range items {
		if i > 0 {
			menu.WriteByte('\n')
		}
		fmt.Fprintf(&menu, "- %s: %s ($%.2f) [Category: %s, Vegetarian: %t, Vegan: %t, Gluten-free: %t]",
			item.Name, item.Description, item.Price,
			item.Category, item.Vegetarian, item.Vegan, item.GlutenFree)
	}

	return fmt.Sprintf(`You are %s, the AI assistant for %s.
You are %s.

RESTAURANT MENU:
%s

GUIDELINES:
- Be warm and engaging but keep responses concise (10-20 words typically)
- Only mention prices when specifically asked
- Make personalized recommendations based on preferences
- Use emojis occasionally for warmth
- Always stay in character for %s
`, assistantName, tenant.Name, personality, menu.String(), tenant.Name)
}
