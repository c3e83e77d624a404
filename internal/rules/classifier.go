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

// Package rules implements the deterministic fallback responder: a keyword
// classifier over a fixed intent order plus per-intent response handlers. It
// serves every chat when no generative backend is configured and backs up the
// backend when a call fails.
package rules

import (
	"strings"

	"github.com/your-org/restaurant-ai/internal/store"
)

// Intent is the category a user message classifies into.
type Intent string

const (
	IntentGreeting       Intent = "greeting"
	IntentMenu           Intent = "menu"
	IntentDietary        Intent = "dietary"
	IntentRecommendation Intent = "recommendation"
	IntentSpecificItem   Intent = "specific_item"
	IntentGeneral        Intent = "general_conversation"
)

// Keyword sets per intent. Matching is case-insensitive substring containment;
// the first intent whose set matches wins, in the order Classify checks them.
var (
	greetingKeywords = []string{"hello", "hi", "hey", "good morning", "good afternoon", "good evening"}
	menuKeywords     = []string{"menu", "dishes", "food", "eat", "order", "available", "serve"}
	dietaryKeywords  = []string{"vegetarian", "vegan", "gluten", "allergy", "dairy", "nuts"}
	recKeywords      = []string{"recommend", "suggest", "best", "popular", "hungry", "mood", "craving"}
)

// Classify maps a message to an intent. Checks run in a fixed precedence
// order (greeting, menu, dietary, recommendation, specific item) so that a
// message matching several categories always lands in the same one. The
// items parameter supplies the menu names and ingredients the specific-item
// check matches against.
func Classify(message string, items []store.MenuItem) Intent {
	message = strings.ToLower(strings.TrimSpace(message))

	switch {
	case containsAny(message, greetingKeywords):
		return IntentGreeting
	case containsAny(message, menuKeywords):
		return IntentMenu
	case containsAny(message, dietaryKeywords):
		return IntentDietary
	case containsAny(message, recKeywords):
		return IntentRecommendation
	case mentionsMenuItem(message, items):
		return IntentSpecificItem
	default:
		return IntentGeneral
	}
}

func containsAny(message string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(message, kw) {
			return true
		}
	}
	return false
}

func mentionsMenuItem(message string, items []store.MenuItem) bool {
	for _, item := range items {
		if strings.Contains(message, strings.ToLower(item.Name)) {
			return true
		}
		for _, ingredient := range item.Ingredients {
			if strings.Contains(message, strings.ToLower(ingredient)) {
				return true
			}
		}
	}
	return false
}
