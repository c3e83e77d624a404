package rules

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/restaurant-ai/internal/dialogue"
	"github.com/your-org/restaurant-ai/internal/store"
)

func testMenu() []store.MenuItem {
	return []store.MenuItem{
		{
			Name: "Bruschetta", Description: "Toasted bread with tomatoes.", Price: 9.50,
			Category: "appetizer", Ingredients: []string{"bread", "tomato", "basil"},
			Vegetarian: true, Vegan: true, Calories: 220, SpiceLevel: 0, PrepTime: "10 minutes",
		},
		{
			Name: "Spaghetti Carbonara", Description: "Classic Roman pasta.", Price: 18.99,
			Category: "main", Ingredients: []string{"pasta", "guanciale", "egg"},
			Allergens: []string{"gluten", "egg", "dairy"}, Calories: 750, SpiceLevel: 1, PrepTime: "20 minutes",
		},
		{
			Name: "Thai Green Curry", Description: "Fragrant and fiery.", Price: 17.50,
			Category: "main", Ingredients: []string{"coconut milk", "chicken", "chili"},
			GlutenFree: true, Calories: 520, SpiceLevel: 4, PrepTime: "25 minutes",
		},
		{
			Name: "Quinoa Bowl", Description: "Light and nutritious.", Price: 14.00,
			Category: "main", Ingredients: []string{"quinoa", "avocado", "kale"},
			Vegetarian: true, Vegan: true, GlutenFree: true, Calories: 380, SpiceLevel: 0, PrepTime: "15 minutes",
		},
		{
			Name: "Tiramisu", Description: "Espresso-soaked layers.", Price: 8.99,
			Category: "dessert", Ingredients: []string{"mascarpone", "espresso", "ladyfingers"},
			Allergens: []string{"dairy", "egg", "gluten"}, Vegetarian: true, Calories: 450, SpiceLevel: 0, PrepTime: "5 minutes",
		},
	}
}

func newTestEngine() *Engine {
	return NewEngine(rand.New(rand.NewSource(1)))
}

func newTestSession(t *testing.T) *dialogue.Session {
	t.Helper()
	m := dialogue.NewManager(time.Minute)
	t.Cleanup(m.Close)
	return m.Session("test-session")
}

func TestClassifyPrecedence(t *testing.T) {
	items := testMenu()

	testCases := []struct {
		message string
		want    Intent
	}{
		{"hello there", IntentGreeting},
		{"Hi! What food do you have?", IntentGreeting}, // greeting beats menu
		{"what's on the menu?", IntentMenu},
		{"do you have vegan options?", IntentDietary},
		{"what vegetarian dishes do you serve", IntentMenu}, // menu beats dietary
		{"can you recommend something?", IntentRecommendation},
		{"tell me about the tiramisu", IntentSpecificItem},
		{"does the pasta contain guanciale?", IntentSpecificItem}, // ingredient match
		{"is there chili in anything?", IntentGreeting},           // substring: "chili" contains "hi"
		{"tell me a joke", IntentGeneral},
		{"", IntentGeneral},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, Classify(tc.message, items), "message: %q", tc.message)
	}
}

func TestGreetingVariesBySessionHistory(t *testing.T) {
	e := newTestEngine()
	items := testMenu()
	session := newTestSession(t)

	first := e.handleGreeting(session, items)
	assert.Contains(t, strings.Join(firstGreetings, "|"), first.Message)
	require.Len(t, first.Recommendations, 3)
	assert.Equal(t, "Bruschetta", first.Recommendations[0].Name, "featured items follow menu order")

	second := e.handleGreeting(session, items)
	assert.Contains(t, strings.Join(repeatGreetings, "|"), second.Message)
}

func TestMenuQueryVariants(t *testing.T) {
	e := newTestEngine()
	items := testMenu()

	categories := e.handleMenuQuery("what types of dishes are there", items)
	assert.Contains(t, categories.Message, "appetizer")
	assert.Contains(t, categories.Message, "5 delicious options")

	prices := e.handleMenuQuery("how much does food cost", items)
	assert.Contains(t, prices.Message, "$8.99")
	assert.Contains(t, prices.Message, "$18.99")

	general := e.handleMenuQuery("show me the menu", items)
	assert.Contains(t, general.Message, "5 carefully crafted dishes")
	assert.Len(t, general.Recommendations, 3)
}

func TestDietaryQueryCountsMatchRecommendations(t *testing.T) {
	e := newTestEngine()
	items := testMenu()

	veg := e.handleDietaryQuery("any vegetarian options?", items)
	assert.Contains(t, veg.Message, "3 delicious vegetarian options")
	require.Len(t, veg.Recommendations, 2)
	for _, item := range veg.Recommendations {
		assert.True(t, item.Vegetarian)
	}
	assert.Contains(t, veg.Message, "I especially recommend: Bruschetta and Quinoa Bowl.")

	gf := e.handleDietaryQuery("I need gluten free food", items)
	assert.Contains(t, gf.Message, "2 gluten-free options")

	// Vegetarian wins when multiple restrictions are named.
	both := e.handleDietaryQuery("vegetarian or vegan?", items)
	assert.Contains(t, both.Message, "vegetarian options")
}

func TestRecommendationMoodFilters(t *testing.T) {
	e := newTestEngine()
	items := testMenu()

	hungry := e.handleRecommendationRequest("I'm so hungry", items)
	require.NotEmpty(t, hungry.Recommendations)
	for _, item := range hungry.Recommendations {
		assert.Equal(t, "main", item.Category)
		assert.Greater(t, item.Calories, 350)
	}

	spicy := e.handleRecommendationRequest("something spicy please", items)
	require.Len(t, spicy.Recommendations, 1)
	assert.Equal(t, "Thai Green Curry", spicy.Recommendations[0].Name)

	dessert := e.handleRecommendationRequest("craving something sweet", items)
	require.Len(t, dessert.Recommendations, 1)
	assert.Equal(t, "Tiramisu", dessert.Recommendations[0].Name)
}

func TestRecommendationDefaultUsesPopularity(t *testing.T) {
	e := newTestEngine()
	items := testMenu()

	reply := e.handleRecommendationRequest("what do you recommend", items)
	require.Len(t, reply.Recommendations, 2)

	// Lowest calories + (30 - price) score first: Bruschetta, then Quinoa Bowl.
	assert.Equal(t, "Bruschetta", reply.Recommendations[0].Name)
	assert.Equal(t, "Quinoa Bowl", reply.Recommendations[1].Name)
}

func TestSpecificItemDetails(t *testing.T) {
	e := newTestEngine()
	items := testMenu()

	reply := e.handleSpecificItemQuery("how spicy is the thai green curry and what are the ingredients", items)
	assert.Contains(t, reply.Message, "Our Thai Green Curry is Fragrant and fiery. It's priced at $17.50.")
	assert.Contains(t, reply.Message, "The main ingredients are: coconut milk, chicken, chili.")
	assert.Contains(t, reply.Message, "The spice level is 4 out of 5.")
	require.Len(t, reply.Recommendations, 1)
	assert.Equal(t, "Thai Green Curry", reply.Recommendations[0].Name)

	noAllergens := e.handleSpecificItemQuery("does the quinoa bowl have allergens", items)
	assert.Contains(t, noAllergens.Message, "This dish has no major allergens.")
}

func TestRespondNeverReturnsEmptyMessage(t *testing.T) {
	e := newTestEngine()
	items := testMenu()
	session := newTestSession(t)

	messages := []string{
		"hello", "menu please", "vegan?", "recommend me something",
		"tiramisu", "how are you", "thanks", "bye", "zzzzz", "",
	}
	for _, msg := range messages {
		reply := e.Respond(session, msg, items)
		assert.NotEmpty(t, reply.Message, "message: %q", msg)
		assert.LessOrEqual(t, len(reply.Recommendations), 3, "message: %q", msg)
	}
}

func TestRespondWithEmptyMenu(t *testing.T) {
	e := newTestEngine()
	session := newTestSession(t)

	reply := e.Respond(session, "what do you recommend", nil)
	assert.NotEmpty(t, reply.Message)
	assert.Empty(t, reply.Recommendations)
}
