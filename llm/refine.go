package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/DipakKumarChauhan/foodie-eyes/logger"
)

// RejectionMessage is returned as the search query whenever input is not
// about food or drinks, including when classification itself fails.
const RejectionMessage = "Sorry, I can only help with food or drinks. Please enter something edible or drinkable."

// Cuisines is the closed set of cuisine tags the refiner may emit.
var Cuisines = []string{
	"South Indian",
	"North Indian",
	"Chinese",
	"Italian",
	"Continental",
	"Mexican",
	"Thai",
	"Japanese",
}

// RefineResult is the intent refiner's output.
type RefineResult struct {
	IsFood          bool   `json:"is_food"`
	SearchQuery     string `json:"searchQuery"`
	LocationString  string `json:"locationString"`
	WasCorrected    bool   `json:"was_corrected"`
	CorrectedTerm   string `json:"corrected_term"`
	CuisineCategory string `json:"cuisineCategory"`
}

func notFoodResult(location string) RefineResult {
	return RefineResult{
		IsFood:         false,
		SearchQuery:    RejectionMessage,
		LocationString: location,
	}
}

// RefineQuery classifies user text as food-related or not, normalizes
// spelling and plurals, and detects a cuisine tag. It never returns an
// error: any failure of the underlying call, and any unparseable output,
// fails closed to a non-food result.
func (c *Client) RefineQuery(ctx context.Context, userPrompt, location string) RefineResult {
	prompt := refinePrompt(userPrompt, location)

	raw, err := c.chat(ctx, prompt, 0, true)
	if err != nil {
		logger.Error("Refine call failed", zap.String("query", userPrompt), zap.Error(err))
		return notFoodResult(location)
	}

	result := notFoodResult(location)
	if err := decodeJSON(raw, &result); err != nil {
		return notFoodResult(location)
	}

	if !result.IsFood {
		// Non-food output always carries the fixed rejection message and
		// no cuisine tag, whatever the model said.
		result.SearchQuery = RejectionMessage
		result.CuisineCategory = ""
		return result
	}

	if result.SearchQuery == "" {
		result.SearchQuery = userPrompt
	}
	if result.LocationString == "" {
		result.LocationString = location
	}
	result.CuisineCategory = canonicalCuisine(result.CuisineCategory)
	return result
}

// canonicalCuisine maps model output onto the closed cuisine set; anything
// else becomes the empty tag.
func canonicalCuisine(s string) string {
	for _, c := range Cuisines {
		if strings.EqualFold(strings.TrimSpace(s), c) {
			return c
		}
	}
	return ""
}

// FallbackQuery maps a zero-result query to a broader food category
// search ("fruit ice cream" -> "ice cream shop"). On failure it degrades
// to a generic restaurants query.
func (c *Client) FallbackQuery(ctx context.Context, originalQuery, location string) string {
	prompt := fmt.Sprintf(`CONTEXT: User searched for %q in %q but found 0 results.

TASK:
1. Identify the broad category of food/drink (e.g., "Fruit Ice Cream" -> "Ice Cream Shop").
2. Return a search query for that CATEGORY including %q.
3. Return only the string, NO JSON.`, originalQuery, location, location)

	raw, err := c.chat(ctx, prompt, 0.2, false)
	if err != nil {
		logger.Warn("Fallback query call failed", zap.Error(err))
		return "Restaurants in " + location
	}
	if q := strings.TrimSpace(raw); q != "" {
		return q
	}
	return "Restaurants in " + location
}

func refinePrompt(userPrompt, location string) string {
	return fmt.Sprintf(`You are a STRICT food intent classifier. Your ONLY job is to identify food, drinks, or dining-related queries.

USER INPUT: %q
LOCATION: %q

CRITICAL RULES:
1. ANALYZE INTENT - Answer ONE question: "Is this about eating, drinking, or dining?"

   FOOD/DRINK (is_food: true):
   - Actual food: Pizza, Burger, Biryani, Pasta, Sushi, Salad, Sandwich, Chicken, Fish, Seafood
   - Drinks: Coffee, Tea, Beer, Wine, Juice, Smoothie, Cocktail
   - Food moods: Hungry, Craving, Date night, Breakfast, Late-night munchies
   - Dining places: Restaurant, Cafe, Bar, Bakery, Food truck
   - Conversational queries about food: "places to try", "iconic places", "best restaurants", "where to eat", "suggest me places"
   - Ambiance queries: "cozy cafe", "quiet cafe", "romantic restaurant", "peaceful places"
   - IMPORTANT: When users ask for "places" with ambiance words (cozy, relaxing, quiet, peaceful, romantic, calm), they are ALWAYS asking about dining places. Treat these as food-related.
   - IMPORTANT: Food items like "chicken burger" are STILL FOOD even if they contain meat.

   NOT FOOD (is_food: false):
   - Clothing: Sweater, Shoes, Jacket, Shirt, Jeans
   - Electronics: iPhone, Laptop, Headphones, TV
   - Services: Hospital, Doctor, Salon, Gym, Spa, Pharmacy
   - Products: Furniture, Books, Toys, Cosmetics, Medicine
   - Vehicles: Car, Bike, Scooter, Taxi
   - Any non-edible item

2. IF NOT FOOD/DRINK:
   - IMMEDIATELY set "is_food": false
   - Set "searchQuery": %q
   - DO NOT proceed with any other analysis

3. IF FOOD/DRINK - THEN:
   - Correct spelling errors (e.g., "Piza" -> "Pizza", "Biriani" -> "Biryani")
   - Normalize plurals (e.g., "burgers" -> "burger")
   - Preserve the food item name as-is (e.g., "chicken burger" stays "chicken burger")
   - For conversational queries, convert to a searchable query like "popular restaurants"
   - For ambiance queries without an explicit place type (e.g., "cozy places"), add a dining place type: "cozy restaurants"

OUTPUT FORMAT (JSON ONLY):
{
  "is_food": true/false,
  "searchQuery": "optimized query OR rejection message",
  "locationString": %q,
  "was_corrected": true/false,
  "corrected_term": "fixed word if applicable OR null",
  "cuisineCategory": "South Indian" | "North Indian" | "Chinese" | "Italian" | "Continental" | "Mexican" | "Thai" | "Japanese" | null
}

CUISINE DETECTION RULES:
- Identify the cuisine from the dishes mentioned:
  - "idli dosa sambar" -> "South Indian"
  - "naan butter chicken" -> "North Indian"
  - "chowmein manchurian" -> "Chinese"
  - "pizza pasta" -> "Italian"
  - "biryani" -> null (can be multiple cuisines, don't assume)
  - "coffee" -> null (not cuisine-specific)
  - "restaurants" -> null (too generic)
- Only return cuisineCategory when you are confident; if ambiguous or generic, return null.

EXAMPLES:

Input: "sweater"
Output: { "is_food": false, "searchQuery": %q, "locationString": %q, "was_corrected": false, "corrected_term": null, "cuisineCategory": null }

Input: "Piza"
Output: { "is_food": true, "searchQuery": "Pizza near %s", "locationString": %q, "was_corrected": true, "corrected_term": "Pizza", "cuisineCategory": "Italian" }

Input: "Suggest me Some Iconic places to try in %s"
Output: { "is_food": true, "searchQuery": "popular restaurants near %s", "locationString": %q, "was_corrected": false, "corrected_term": null, "cuisineCategory": null }

Input: "suggest me some quite and cozy cafe"
Output: { "is_food": true, "searchQuery": "cozy quiet cafe near %s", "locationString": %q, "was_corrected": false, "corrected_term": null, "cuisineCategory": null }
`,
		userPrompt, location, RejectionMessage, location,
		RejectionMessage, location,
		location, location,
		location, location, location,
		location, location)
}
