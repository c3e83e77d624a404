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

package rules

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"

	"github.com/your-org/restaurant-ai/internal/dialogue"
	"github.com/your-org/restaurant-ai/internal/store"
)

// maxRecommendations caps recommendation lists produced by the engine.
const maxRecommendations = 2

// Reply is a rule-engine response: text plus the menu items it recommends.
type Reply struct {
	Message         string
	Recommendations []store.MenuItem
}

// Engine produces rule-based replies. It never fails: every message yields a
// reply, with the general-conversation handler as the catch-all. Randomness
// is injected so tests can fix the seed.
type Engine struct {
	rng   *rand.Rand
	mutex sync.Mutex
}

// NewEngine creates an engine over the given random source.
func NewEngine(rng *rand.Rand) *Engine {
	return &Engine{rng: rng}
}

// Respond classifies the message and dispatches to the matching handler.
func (e *Engine) Respond(session *dialogue.Session, message string, items []store.MenuItem) Reply {
	message = strings.ToLower(strings.TrimSpace(message))

	switch Classify(message, items) {
	case IntentGreeting:
		return e.handleGreeting(session, items)
	case IntentMenu:
		return e.handleMenuQuery(message, items)
	case IntentDietary:
		return e.handleDietaryQuery(message, items)
	case IntentRecommendation:
		return e.handleRecommendationRequest(message, items)
	case IntentSpecificItem:
		return e.handleSpecificItemQuery(message, items)
	default:
		return e.handleGeneralConversation(message, items)
	}
}

var firstGreetings = []string{
	"Hello! Welcome to our restaurant! I'm your AI dining assistant, here to help you discover delicious dishes that match your taste. What can I help you find today?",
	"Hi there! I'm excited to help you explore our menu and find something amazing to eat. Are you looking for something specific, or would you like me to suggest some popular options?",
	"Welcome! I'm here to make your dining experience special. Whether you're craving something specific or want to try something new, I'm here to help. What sounds good to you?",
}

var repeatGreetings = []string{
	"Nice to see you again! What else can I help you with from our menu?",
	"How can I assist you further with your dining choices?",
	"What other questions do you have about our dishes?",
}

// handleGreeting picks a first-time or repeat greeting depending on whether
// this session has been greeted before, and features the top of the menu.
func (e *Engine) handleGreeting(session *dialogue.Session, items []store.MenuItem) Reply {
	pool := repeatGreetings
	if session.ClaimGreeting() {
		pool = firstGreetings
	}

	return Reply{
		Message:         e.pick(pool),
		Recommendations: featuredItems(items),
	}
}

func (e *Engine) handleMenuQuery(message string, items []store.MenuItem) Reply {
	var response string

	switch {
	case strings.Contains(message, "categories") || strings.Contains(message, "types"):
		categories := distinctCategories(items)
		response = fmt.Sprintf("We offer dishes in these categories: %s. We have %d delicious options total. Would you like to explore any specific category?",
			strings.Join(categories, ", "), len(items))
	case strings.Contains(message, "price") || strings.Contains(message, "cost"):
		low, high := priceRange(items)
		response = fmt.Sprintf("Our menu prices range from $%.2f to $%.2f. Most of our main courses are around $20-25. What's your budget range today?", low, high)
	default:
		response = fmt.Sprintf("Our menu features %d carefully crafted dishes, from appetizers to desserts. We have options for every dietary preference and taste. What type of food are you in the mood for?", len(items))
	}

	return Reply{
		Message:         response,
		Recommendations: e.randomItems(items, 3),
	}
}

// handleDietaryQuery answers restriction questions. When the message names
// several restrictions, vegetarian wins over vegan, which wins over gluten.
func (e *Engine) handleDietaryQuery(message string, items []store.MenuItem) Reply {
	var (
		response        string
		recommendations []store.MenuItem
	)

	switch {
	case strings.Contains(message, "vegetarian"):
		matched := filterItems(items, func(i store.MenuItem) bool { return i.Vegetarian })
		response = fmt.Sprintf("We have %d delicious vegetarian options! ", len(matched))
		recommendations = truncate(matched, maxRecommendations)
	case strings.Contains(message, "vegan"):
		matched := filterItems(items, func(i store.MenuItem) bool { return i.Vegan })
		response = fmt.Sprintf("We offer %d tasty vegan dishes! ", len(matched))
		recommendations = truncate(matched, maxRecommendations)
	case strings.Contains(message, "gluten"):
		matched := filterItems(items, func(i store.MenuItem) bool { return i.GlutenFree })
		response = fmt.Sprintf("We have %d gluten-free options available! ", len(matched))
		recommendations = truncate(matched, maxRecommendations)
	default:
		response = "I'd be happy to help with dietary preferences! We accommodate vegetarian, vegan, and gluten-free diets. We also list all allergens for each dish. What specific dietary needs do you have?"
		recommendations = e.randomItems(items, maxRecommendations)
	}

	if len(recommendations) > 0 {
		names := make([]string, len(recommendations))
		for i, item := range recommendations {
			names[i] = item.Name
		}
		response += fmt.Sprintf("I especially recommend: %s.", strings.Join(names, " and "))
	}

	return Reply{Message: response, Recommendations: recommendations}
}

func (e *Engine) handleRecommendationRequest(message string, items []store.MenuItem) Reply {
	var (
		response        string
		recommendations []store.MenuItem
	)

	switch {
	case containsAny(message, []string{"hungry", "starving", "filling"}):
		recommendations = filterItems(items, func(i store.MenuItem) bool {
			return i.Category == "main" && i.Calories > 350
		})
		response = "You sound really hungry! I recommend our hearty main courses that will definitely satisfy your appetite."
	case containsAny(message, []string{"light", "small", "not very hungry"}):
		recommendations = filterItems(items, func(i store.MenuItem) bool {
			return i.Category == "appetizer" || i.Calories < 300
		})
		response = "For something light, our appetizers are perfect, or I can suggest some lighter main dishes."
	case containsAny(message, []string{"spicy", "hot"}):
		recommendations = filterItems(items, func(i store.MenuItem) bool { return i.SpiceLevel > 2 })
		response = "Looking for some heat? Our spicy dishes will definitely give you that kick you're craving!"
	case containsAny(message, []string{"healthy", "nutritious", "diet"}):
		recommendations = filterItems(items, func(i store.MenuItem) bool {
			return i.Calories < 400 || i.GlutenFree
		})
		response = "For healthy choices, I recommend our nutritious options that are both delicious and good for you."
	case containsAny(message, []string{"sweet", "dessert"}):
		recommendations = filterItems(items, func(i store.MenuItem) bool { return i.Category == "dessert" })
		response = "Our desserts are absolutely divine! Perfect way to end your meal on a sweet note."
	default:
		recommendations = popularItems(items)
		response = "I'd love to recommend some of our most popular dishes that guests absolutely love!"
	}

	return Reply{
		Message:         response,
		Recommendations: truncate(recommendations, maxRecommendations),
	}
}

func (e *Engine) handleSpecificItemQuery(message string, items []store.MenuItem) Reply {
	for _, item := range items {
		if !strings.Contains(message, strings.ToLower(item.Name)) {
			continue
		}

		response := fmt.Sprintf("Great choice! Our %s is %s It's priced at $%.2f.", item.Name, item.Description, item.Price)

		if strings.Contains(message, "ingredient") {
			response += fmt.Sprintf(" The main ingredients are: %s.", strings.Join(item.Ingredients, ", "))
		}
		if strings.Contains(message, "allerg") {
			if len(item.Allergens) > 0 {
				response += fmt.Sprintf(" Please note it contains: %s.", strings.Join(item.Allergens, ", "))
			} else {
				response += " This dish has no major allergens."
			}
		}
		if strings.Contains(message, "spicy") || strings.Contains(message, "hot") {
			response += fmt.Sprintf(" The spice level is %d out of 5.", item.SpiceLevel)
		}
		if strings.Contains(message, "time") {
			response += fmt.Sprintf(" Preparation time is about %s.", item.PrepTime)
		}

		return Reply{Message: response, Recommendations: []store.MenuItem{item}}
	}

	return Reply{
		Message:         "I'd be happy to tell you about any of our dishes! Could you be more specific about which item you're interested in, or would you like me to suggest something based on your preferences?",
		Recommendations: e.randomItems(items, maxRecommendations),
	}
}

func (e *Engine) handleGeneralConversation(message string, items []store.MenuItem) Reply {
	var responses []string

	switch {
	case containsAny(message, []string{"how are you", "how do you do"}):
		responses = []string{
			"I'm doing great, thank you for asking! I'm excited to help you find something delicious to eat. What sounds good to you today?",
			"I'm wonderful, thanks! Ready to help you discover your next favorite dish. What are you in the mood for?",
		}
	case containsAny(message, []string{"thank you", "thanks"}):
		responses = []string{
			"You're very welcome! I'm here whenever you need help with our menu. Anything else I can assist you with?",
			"My pleasure! I love helping people find great food. Is there anything else you'd like to know?",
		}
	case containsAny(message, []string{"bye", "goodbye", "see you"}):
		responses = []string{
			"Goodbye! I hope you enjoy your meal and have a wonderful dining experience. Come back anytime!",
			"Have a fantastic meal! It was great helping you today. See you next time!",
		}
	default:
		responses = []string{
			"That's an interesting question! While I specialize in helping with our menu and dining recommendations, I'm always happy to chat. Speaking of food, is there anything from our menu I can help you with?",
			"I appreciate you asking! I'm here primarily to help you navigate our delicious menu options. What kind of flavors are you craving today?",
			"Thanks for sharing! I'd love to help you find something amazing to eat. Are you looking for any particular type of cuisine or dish?",
		}
	}

	return Reply{
		Message:         e.pick(responses),
		Recommendations: e.randomItems(items, maxRecommendations),
	}
}

// pick chooses one response variant. The mutex guards the shared rand source.
func (e *Engine) pick(responses []string) string {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return responses[e.rng.Intn(len(responses))]
}

// randomItems samples up to count distinct items.
func (e *Engine) randomItems(items []store.MenuItem, count int) []store.MenuItem {
	if count > len(items) {
		count = len(items)
	}
	if count == 0 {
		return nil
	}

	e.mutex.Lock()
	defer e.mutex.Unlock()

	sampled := make([]store.MenuItem, len(items))
	copy(sampled, items)
	e.rng.Shuffle(len(sampled), func(i, j int) {
		sampled[i], sampled[j] = sampled[j], sampled[i]
	})

	return sampled[:count]
}

// featuredItems are the first items in menu order, the ones the tenant put
// at the top of their display ordering.
func featuredItems(items []store.MenuItem) []store.MenuItem {
	return truncate(items, 3)
}

// popularItems ranks by a proxy score favouring hearty, well-priced dishes
// and keeps the top three.
func popularItems(items []store.MenuItem) []store.MenuItem {
	ranked := make([]store.MenuItem, len(items))
	copy(ranked, items)
	sort.SliceStable(ranked, func(i, j int) bool {
		return popularityScore(ranked[i]) < popularityScore(ranked[j])
	})
	return truncate(ranked, 3)
}

func popularityScore(item store.MenuItem) float64 {
	return float64(item.Calories) + (30 - item.Price)
}

func filterItems(items []store.MenuItem, keep func(store.MenuItem) bool) []store.MenuItem {
	var matched []store.MenuItem
	for _, item := range items {
		if keep(item) {
			matched = append(matched, item)
		}
	}
	return matched
}

func truncate(items []store.MenuItem, n int) []store.MenuItem {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func distinctCategories(items []store.MenuItem) []string {
	seen := make(map[string]bool)
	var categories []string
	for _, item := range items {
		if !seen[item.Category] {
			seen[item.Category] = true
			categories = append(categories, item.Category)
		}
	}
	return categories
}

func priceRange(items []store.MenuItem) (low, high float64) {
	for i, item := range items {
		if i == 0 || item.Price < low {
			low = item.Price
		}
		if item.Price > high {
			high = item.Price
		}
	}
	return low, high
}
