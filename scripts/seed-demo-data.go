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

// Seeds the database with two demo restaurants and their menus so the
// service can be exercised locally without manual provisioning.
//
// Usage: go run scripts/seed-demo-data.go [db-path]
package main

import (
	"context"
	"log"
	"os"

	"github.com/your-org/restaurant-ai/internal/store"
)

const defaultDBPath = "./restaurant.db"

func main() {
	dbPath := defaultDBPath
	if len(os.Args) > 1 {
		dbPath = os.Args[1]
	}

	log.Printf("Seeding demo data into %s", dbPath)

	db, err := store.Open(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	for _, seed := range demoTenants() {
		tenant := seed.tenant
		if err := db.CreateTenant(ctx, &tenant); err != nil {
			log.Fatalf("Failed to create %s: %v", tenant.Name, err)
		}

		for i, item := range seed.menu {
			item.TenantID = tenant.ID
			item.DisplayOrder = i
			if err := db.CreateMenuItem(ctx, &item); err != nil {
				log.Fatalf("Failed to create menu item %s: %v", item.Name, err)
			}
		}

		log.Printf("Created %s (subdomain %s, slug %s) with %d menu items",
			tenant.Name, tenant.Subdomain, tenant.Slug, len(seed.menu))
	}

	log.Println("Demo data seeded")
}

type tenantSeed struct {
	tenant store.Tenant
	menu   []store.MenuItem
}

func demoTenants() []tenantSeed {
	return []tenantSeed{
		{
			tenant: store.Tenant{
				Name:           "Luigi's Trattoria",
				Subdomain:      "luigi",
				Slug:           "luigis",
				Description:    "Family-run Italian kitchen since 1987",
				ThemeConfig:    `{"primary_color": "#2e7d32", "logo_position": "left", "chat_position": "right"}`,
				AssistantName:  "Maria",
				Personality:    "warm, witty, and proud of the family recipes",
				WelcomeMessage: "Ciao! I'm Maria from Luigi's Trattoria. What can I help you find today?",
				Active:         true,
			},
			menu: []store.MenuItem{
				{
					Name: "Bruschetta al Pomodoro", Description: "Grilled bread rubbed with garlic, topped with ripe tomatoes and basil.",
					Price: 9.50, Category: "appetizer", Ingredients: []string{"bread", "tomato", "basil", "garlic"},
					Allergens: []string{"gluten"}, Vegetarian: true, Vegan: true, Calories: 220, PrepTime: "10 minutes",
				},
				{
					Name: "Spaghetti Carbonara", Description: "Classic Roman pasta with guanciale, egg, and pecorino.",
					Price: 18.99, Category: "main", Ingredients: []string{"pasta", "guanciale", "egg", "pecorino"},
					Allergens: []string{"gluten", "egg", "dairy"}, SpiceLevel: 1, Calories: 750, PrepTime: "20 minutes",
				},
				{
					Name: "Melanzane alla Parmigiana", Description: "Layers of eggplant baked with tomato and mozzarella.",
					Price: 16.50, Category: "main", Ingredients: []string{"eggplant", "tomato", "mozzarella"},
					Allergens: []string{"dairy"}, Vegetarian: true, GlutenFree: true, Calories: 540, PrepTime: "30 minutes",
				},
				{
					Name: "Tiramisu", Description: "Espresso-soaked ladyfingers with mascarpone cream.",
					Price: 8.99, Category: "dessert", Ingredients: []string{"mascarpone", "espresso", "ladyfingers"},
					Allergens: []string{"dairy", "egg", "gluten"}, Vegetarian: true, Calories: 450, PrepTime: "5 minutes",
				},
			},
		},
		{
			tenant: store.Tenant{
				Name:           "Bangkok Garden",
				Subdomain:      "bangkok",
				Slug:           "bangkok-garden",
				Description:    "Authentic Thai street food and curries",
				ThemeConfig:    `{"primary_color": "#c62828", "logo_position": "left", "chat_position": "right"}`,
				AssistantName:  "Mali",
				Personality:    "cheerful and enthusiastic about bold flavors",
				WelcomeMessage: "Sawasdee! I'm Mali from Bangkok Garden. Craving something spicy today?",
				Active:         true,
			},
			menu: []store.MenuItem{
				{
					Name: "Fresh Spring Rolls", Description: "Rice paper rolls with herbs, vermicelli, and peanut sauce.",
					Price: 8.50, Category: "appetizer", Ingredients: []string{"rice paper", "vermicelli", "herbs", "peanut"},
					Allergens: []string{"peanut"}, Vegetarian: true, Vegan: true, GlutenFree: true, Calories: 180, PrepTime: "10 minutes",
				},
				{
					Name: "Thai Green Curry", Description: "Fragrant coconut curry with bamboo shoots and Thai basil.",
					Price: 17.50, Category: "main", Ingredients: []string{"coconut milk", "chicken", "bamboo shoots", "thai basil"},
					GlutenFree: true, SpiceLevel: 4, Calories: 520, PrepTime: "25 minutes",
				},
				{
					Name: "Pad Thai", Description: "Stir-fried rice noodles with tamarind, egg, and crushed peanuts.",
					Price: 15.99, Category: "main", Ingredients: []string{"rice noodles", "tamarind", "egg", "peanut"},
					Allergens: []string{"egg", "peanut"}, SpiceLevel: 2, Calories: 620, PrepTime: "15 minutes",
				},
				{
					Name: "Mango Sticky Rice", Description: "Sweet coconut sticky rice with ripe mango.",
					Price: 7.99, Category: "dessert", Ingredients: []string{"sticky rice", "mango", "coconut milk"},
					Vegetarian: true, Vegan: true, GlutenFree: true, Calories: 390, PrepTime: "10 minutes",
				},
			},
		},
	}
}
