// Package store provides the durable SQLite-backed store for tenants,
// menu items, and conversation logs.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a requested record does not exist or is inactive.
var ErrNotFound = errors.New("record not found")

// Store handles queries to the SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens the database at dbPath and initializes the schema.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}

	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// initSchema creates the tables if they don't exist
func (s *Store) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS restaurants (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			subdomain TEXT NOT NULL UNIQUE,
			slug TEXT NOT NULL UNIQUE,
			description TEXT,
			theme_config TEXT,
			ai_name TEXT,
			ai_personality TEXT,
			welcome_message TEXT,
			active INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS menu_items (
			id TEXT PRIMARY KEY,
			restaurant_id TEXT NOT NULL REFERENCES restaurants(id),
			name TEXT NOT NULL,
			description TEXT,
			price REAL NOT NULL,
			category TEXT,
			ingredients TEXT,
			allergens TEXT,
			vegetarian INTEGER NOT NULL DEFAULT 0,
			vegan INTEGER NOT NULL DEFAULT 0,
			gluten_free INTEGER NOT NULL DEFAULT 0,
			spice_level INTEGER NOT NULL DEFAULT 0,
			prep_time TEXT,
			calories INTEGER NOT NULL DEFAULT 0,
			chef_notes TEXT,
			display_order INTEGER NOT NULL DEFAULT 0,
			active INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS conversations (
			id TEXT PRIMARY KEY,
			restaurant_id TEXT NOT NULL,
			session_id TEXT NOT NULL,
			message TEXT NOT NULL,
			response TEXT NOT NULL,
			timestamp DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_menu_items_restaurant ON menu_items(restaurant_id)`,
		`CREATE INDEX IF NOT EXISTS idx_conversations_restaurant ON conversations(restaurant_id, timestamp)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}

const tenantColumns = `id, name, subdomain, slug, description, theme_config,
	ai_name, ai_personality, welcome_message, active, created_at`

// TenantBySubdomain returns the active tenant with the given subdomain.
func (s *Store) TenantBySubdomain(ctx context.Context, subdomain string) (*Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM restaurants WHERE subdomain = ? AND active = 1`
	return s.scanTenant(s.db.QueryRowContext(ctx, query, subdomain))
}

// TenantBySlug returns the active tenant with the given URL slug.
func (s *Store) TenantBySlug(ctx context.Context, slug string) (*Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM restaurants WHERE slug = ? AND active = 1`
	return s.scanTenant(s.db.QueryRowContext(ctx, query, slug))
}

func (s *Store) scanTenant(row *sql.Row) (*Tenant, error) {
	var t Tenant
	var description, themeConfig, assistantName, personality, welcome sql.NullString
	err := row.Scan(&t.ID, &t.Name, &t.Subdomain, &t.Slug, &description, &themeConfig,
		&assistantName, &personality, &welcome, &t.Active, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan tenant: %w", err)
	}

	t.Description = description.String
	t.ThemeConfig = themeConfig.String
	t.AssistantName = assistantName.String
	t.Personality = personality.String
	t.WelcomeMessage = welcome.String
	return &t, nil
}

// MenuItems returns the active menu items for a tenant in display order.
func (s *Store) MenuItems(ctx context.Context, tenantID string) ([]MenuItem, error) {
	query := `
		SELECT id, restaurant_id, name, description, price, category, ingredients,
			allergens, vegetarian, vegan, gluten_free, spice_level, prep_time,
			calories, chef_notes, display_order
		FROM menu_items
		WHERE restaurant_id = ? AND active = 1
		ORDER BY display_order, category, name
	`

	rows, err := s.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	var items []MenuItem
	for rows.Next() {
		var item MenuItem
		var description, category, ingredients, allergens, prepTime, chefNotes sql.NullString
		err := rows.Scan(&item.ID, &item.TenantID, &item.Name, &description, &item.Price,
			&category, &ingredients, &allergens, &item.Vegetarian, &item.Vegan,
			&item.GlutenFree, &item.SpiceLevel, &prepTime, &item.Calories,
			&chefNotes, &item.DisplayOrder)
		if err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}

		item.Description = description.String
		item.Category = category.String
		item.PrepTime = prepTime.String
		item.ChefNotes = chefNotes.String
		item.Ingredients = decodeStringList(ingredients.String)
		item.Allergens = decodeStringList(allergens.String)
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating menu items: %w", err)
	}

	return items, nil
}

// LogConversation appends a conversation record. Records are never updated or
// deleted by the service.
func (s *Store) LogConversation(ctx context.Context, conv Conversation) error {
	if conv.ID == "" {
		conv.ID = uuid.New().String()
	}
	if conv.Timestamp.IsZero() {
		conv.Timestamp = time.Now().UTC()
	}

	query := `
		INSERT INTO conversations (id, restaurant_id, session_id, message, response, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query, conv.ID, conv.TenantID, conv.SessionID,
		conv.Message, conv.Response, conv.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert conversation: %w", err)
	}

	return nil
}

// TenantStats returns per-day conversation counts for the trailing 30 days,
// most recent day first.
func (s *Store) TenantStats(ctx context.Context, tenantID string) ([]DayStats, error) {
	query := `
		SELECT COUNT(*), COUNT(DISTINCT session_id), DATE(timestamp)
		FROM conversations
		WHERE restaurant_id = ? AND timestamp > DATETIME('now', '-30 days')
		GROUP BY DATE(timestamp)
		ORDER BY DATE(timestamp) DESC
	`

	rows, err := s.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tenant stats: %w", err)
	}
	defer rows.Close()

	var stats []DayStats
	for rows.Next() {
		var day DayStats
		if err := rows.Scan(&day.Conversations, &day.UniqueSessions, &day.Date); err != nil {
			return nil, fmt.Errorf("failed to scan stats row: %w", err)
		}
		stats = append(stats, day)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stats rows: %w", err)
	}

	return stats, nil
}

// Tenants returns all tenants, newest first, including inactive ones.
func (s *Store) Tenants(ctx context.Context) ([]Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM restaurants ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tenants: %w", err)
	}
	defer rows.Close()

	var tenants []Tenant
	for rows.Next() {
		var t Tenant
		var description, themeConfig, assistantName, personality, welcome sql.NullString
		err := rows.Scan(&t.ID, &t.Name, &t.Subdomain, &t.Slug, &description, &themeConfig,
			&assistantName, &personality, &welcome, &t.Active, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		t.Description = description.String
		t.ThemeConfig = themeConfig.String
		t.AssistantName = assistantName.String
		t.Personality = personality.String
		t.WelcomeMessage = welcome.String
		tenants = append(tenants, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tenants: %w", err)
	}

	return tenants, nil
}

// CreateTenant inserts a new tenant. Subdomain and slug must be unique; a
// violation surfaces as the driver's constraint error.
func (s *Store) CreateTenant(ctx context.Context, t *Tenant) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO restaurants (id, name, subdomain, slug, description, theme_config,
			ai_name, ai_personality, welcome_message, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query, t.ID, t.Name, t.Subdomain, t.Slug,
		t.Description, t.ThemeConfig, t.AssistantName, t.Personality,
		t.WelcomeMessage, t.Active, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert tenant: %w", err)
	}

	return nil
}

// CreateMenuItem inserts a new menu item for a tenant.
func (s *Store) CreateMenuItem(ctx context.Context, item *MenuItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}

	query := `
		INSERT INTO menu_items (id, restaurant_id, name, description, price, category,
			ingredients, allergens, vegetarian, vegan, gluten_free, spice_level,
			prep_time, calories, chef_notes, display_order, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
	`

	_, err := s.db.ExecContext(ctx, query, item.ID, item.TenantID, item.Name,
		item.Description, item.Price, item.Category, encodeStringList(item.Ingredients),
		encodeStringList(item.Allergens), item.Vegetarian, item.Vegan, item.GlutenFree,
		item.SpiceLevel, item.PrepTime, item.Calories, item.ChefNotes, item.DisplayOrder)
	if err != nil {
		return fmt.Errorf("failed to insert menu item: %w", err)
	}

	return nil
}

// encodeStringList serializes a string list as JSON for storage.
func encodeStringList(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// decodeStringList parses a JSON string list; malformed data yields nil.
func decodeStringList(data string) []string {
	if data == "" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil
	}
	return values
}
