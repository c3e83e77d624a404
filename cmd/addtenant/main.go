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

// Package main provides the tenant provisioning CLI: add restaurants to the
// database and list the ones already registered.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/your-org/restaurant-ai/internal/store"
)

var dbPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "addtenant",
		Short: "Manage restaurants in the system",
	}
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "./restaurant.db", "Path to the SQLite database")

	rootCmd.AddCommand(newAddCommand())
	rootCmd.AddCommand(newListCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newAddCommand() *cobra.Command {
	var (
		name           string
		subdomain      string
		slug           string
		description    string
		assistantName  string
		personality    string
		welcomeMessage string
		primaryColor   string
		withSamples    bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new restaurant",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.Open(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = db.Close() }()

			ctx := context.Background()

			if description == "" {
				description = fmt.Sprintf("Welcome to %s", name)
			}
			if welcomeMessage == "" {
				welcomeMessage = fmt.Sprintf("Hi! I'm %s from %s. What can I help you find today?", assistantName, name)
			}

			themeConfig, err := json.Marshal(map[string]string{
				"primary_color": primaryColor,
				"logo_position": "left",
				"chat_position": "right",
			})
			if err != nil {
				return fmt.Errorf("failed to encode theme config: %w", err)
			}

			tenant := &store.Tenant{
				Name:           name,
				Subdomain:      subdomain,
				Slug:           slug,
				Description:    description,
				ThemeConfig:    string(themeConfig),
				AssistantName:  assistantName,
				Personality:    personality,
				WelcomeMessage: welcomeMessage,
				Active:         true,
			}
			if err := db.CreateTenant(ctx, tenant); err != nil {
				return fmt.Errorf("failed to create restaurant: %w", err)
			}

			fmt.Printf("Restaurant %q created successfully!\n", name)
			fmt.Printf("  ID: %s\n", tenant.ID)
			fmt.Printf("  URL: https://%s.%s\n", subdomain, appDomain())
			fmt.Printf("  Alt URL: https://%s/r/%s\n", appDomain(), slug)

			if withSamples {
				if err := addSampleMenu(ctx, db, tenant); err != nil {
					return fmt.Errorf("failed to add sample menu: %w", err)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Restaurant name")
	cmd.Flags().StringVar(&subdomain, "subdomain", "", `Subdomain (e.g. "luigi" for luigi.restaurant-ai.com)`)
	cmd.Flags().StringVar(&slug, "slug", "", `URL slug (e.g. "luigi" for /r/luigi)`)
	cmd.Flags().StringVar(&description, "description", "", "Restaurant description")
	cmd.Flags().StringVar(&assistantName, "ai-name", "Sophie", "Assistant name")
	cmd.Flags().StringVar(&personality, "ai-personality", "warm, friendly, and knowledgeable about our menu", "Assistant personality description")
	cmd.Flags().StringVar(&welcomeMessage, "welcome-message", "", "Custom welcome message")
	cmd.Flags().StringVar(&primaryColor, "primary-color", "#3498db", "Primary theme color")
	cmd.Flags().BoolVar(&withSamples, "with-samples", false, "Add sample menu items")

	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("subdomain")
	_ = cmd.MarkFlagRequired("slug")

	return cmd
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all restaurants",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.Open(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = db.Close() }()

			tenants, err := db.Tenants(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list restaurants: %w", err)
			}

			fmt.Println("Restaurants in the system:")
			fmt.Println("--------------------------------------------------------------------------------")
			for _, t := range tenants {
				status := "active"
				if !t.Active {
					status = "inactive"
				}
				fmt.Printf("%s (%s)\n", t.Name, status)
				fmt.Printf("  ID: %s\n", t.ID)
				fmt.Printf("  Subdomain: %s\n", t.Subdomain)
				fmt.Printf("  Slug: %s\n", t.Slug)
				fmt.Printf("  Created: %s\n\n", t.CreatedAt.Format("2006-01-02 15:04"))
			}

			return nil
		},
	}
}

// addSampleMenu seeds a starter menu so a new tenant is demoable right away.
func addSampleMenu(ctx context.Context, db *store.Store, tenant *store.Tenant) error {
	samples := []store.MenuItem{
		{
			Name:        "Signature Appetizer",
			Description: fmt.Sprintf("Our famous starter that captures the essence of %s", tenant.Name),
			Price:       12.99,
			Category:    "appetizer",
			Vegetarian:  true,
			PrepTime:    "10 minutes",
		},
		{
			Name:        "Chef's Special",
			Description: "Daily creation by our head chef using the freshest ingredients",
			Price:       28.99,
			Category:    "main",
			PrepTime:    "25 minutes",
		},
		{
			Name:        "House Salad",
			Description: "Fresh greens with our signature dressing",
			Price:       9.99,
			Category:    "appetizer",
			Vegetarian:  true,
			Vegan:       true,
			GlutenFree:  true,
			PrepTime:    "5 minutes",
		},
		{
			Name:        "Decadent Dessert",
			Description: "Our award-winning dessert that you can't miss",
			Price:       8.99,
			Category:    "dessert",
			Vegetarian:  true,
			PrepTime:    "10 minutes",
		},
	}

	for i, item := range samples {
		item.TenantID = tenant.ID
		item.DisplayOrder = i
		if err := db.CreateMenuItem(ctx, &item); err != nil {
			return err
		}
	}

	fmt.Printf("Added %d sample menu items\n", len(samples))
	return nil
}

func appDomain() string {
	if domain := os.Getenv("APP_DOMAIN"); domain != "" {
		return domain
	}
	return "restaurant-ai.com"
}
