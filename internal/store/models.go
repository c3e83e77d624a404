package store

import "time"

// Tenant represents one restaurant configuration served by the shared
// pipeline. Routing keys (subdomain, slug) are globally unique and immutable
// after creation; the service treats tenants as read-mostly.
type Tenant struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Subdomain      string    `json:"subdomain"`
	Slug           string    `json:"slug"`
	Description    string    `json:"description,omitempty"`
	ThemeConfig    string    `json:"theme_config,omitempty"`
	AssistantName  string    `json:"ai_name,omitempty"`
	Personality    string    `json:"ai_personality,omitempty"`
	WelcomeMessage string    `json:"welcome_message,omitempty"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
}

// MenuItem represents a single dish belonging to exactly one tenant.
// DisplayOrder defines a stable tenant-local ordering for presentation.
type MenuItem struct {
	ID           string   `json:"id"`
	TenantID     string   `json:"restaurant_id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Price        float64  `json:"price"`
	Category     string   `json:"category"`
	Ingredients  []string `json:"ingredients,omitempty"`
	Allergens    []string `json:"allergens,omitempty"`
	Vegetarian   bool     `json:"vegetarian"`
	Vegan        bool     `json:"vegan"`
	GlutenFree   bool     `json:"gluten_free"`
	SpiceLevel   int      `json:"spice_level"`
	PrepTime     string   `json:"prep_time,omitempty"`
	Calories     int      `json:"calories"`
	ChefNotes    string   `json:"chef_notes,omitempty"`
	DisplayOrder int      `json:"display_order"`
}

// Conversation is an append-only record of one chat exchange.
type Conversation struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"restaurant_id"`
	SessionID string    `json:"session_id"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// DayStats aggregates conversation activity for a single day.
type DayStats struct {
	Date           string `json:"date"`
	Conversations  int    `json:"total_conversations"`
	UniqueSessions int    `json:"unique_sessions"`
}
