package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dininghub/pkg/models"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "grilled-chicken-sandwich", Slugify("Grilled Chicken Sandwich!"))
	assert.Equal(t, "mac-n-cheese", Slugify("Mac 'N' Cheese"))
	assert.Equal(t, "dish", Slugify(""))
	assert.Equal(t, "dish", Slugify("  ---  "))
}

func TestNormalizeMealName(t *testing.T) {
	assert.Equal(t, models.MealBreakfast, NormalizeMealName("Continental Breakfast"))
	assert.Equal(t, models.MealLunch, NormalizeMealName("Lunch"))
	assert.Equal(t, models.MealDinner, NormalizeMealName("Resident Dinner"))
	assert.Equal(t, models.MealLateNight, NormalizeMealName("Late Night Snack"))

	// unrecognized periods default to dinner (Pomona behavior)
	assert.Equal(t, models.MealDinner, NormalizeMealName("Weird Unlabeled Period"))

	// the strict matcher used by the other sources drops instead
	_, ok := matchMealName("Weird Unlabeled Period")
	assert.False(t, ok)
}

func TestUniqByCaseInsensitiveRows(t *testing.T) {
	rows := []models.MenuRow{
		{DateServed: "2024-01-15", Meal: models.MealLunch, Section: "Grill", DishName: "Tofu Scramble"},
		{DateServed: "2024-01-15", Meal: models.MealLunch, Section: "Grill", DishName: "tofu scramble"},
		{DateServed: "2024-01-15", Meal: models.MealDinner, Section: "Grill", DishName: "Tofu Scramble"},
	}

	out := uniqBy(rows, dedupKey)
	require.Len(t, out, 2)
	// first-wins: the capitalized spelling survives
	assert.Equal(t, "Tofu Scramble", out[0].DishName)
	assert.Equal(t, models.MealLunch, out[0].Meal)
}

func TestMergeDishesLastWriteWins(t *testing.T) {
	rows := []models.MenuRow{
		{DishName: "Pancakes", Description: "plain"},
		{DishName: "pancakes!", Allergens: []string{"Wheat", "wheat", "Egg"}},
		{DishName: "Pancakes", Description: "buttermilk"},
	}

	dishes := mergeDishes(rows)
	require.Len(t, dishes, 1)

	d := dishes[0]
	assert.Equal(t, "pancakes", d.Slug)
	// later non-empty fields overwrite earlier ones
	assert.Equal(t, "buttermilk", d.Description)
	// sets are deduplicated case-insensitively
	assert.Equal(t, []string{"Wheat", "Egg"}, d.Allergens)
	// name tracks the latest mention
	assert.Equal(t, "Pancakes", d.Name)
}

func TestBuildMenuItemsRededup(t *testing.T) {
	// two differently-punctuated names canonicalize to the same slug, so
	// the post-resolution conflict key must be deduplicated again
	rows := []models.MenuRow{
		{DateServed: "2024-01-15", Meal: models.MealLunch, Section: "Grill", DishName: "Mac & Cheese"},
		{DateServed: "2024-01-15", Meal: models.MealLunch, Section: "Grill", DishName: "Mac   Cheese"},
		{DateServed: "2024-01-16", Meal: models.MealLunch, Section: "Grill", DishName: "Mac & Cheese"},
	}
	ids := map[string]string{"mac-cheese": "d1"}

	items := buildMenuItems("h1", ids, rows)
	require.Len(t, items, 2)
	assert.Equal(t, "2024-01-15", items[0].DateServed)
	assert.Equal(t, "2024-01-16", items[1].DateServed)
}

func TestBuildMenuItemsDropsUnresolvedSlug(t *testing.T) {
	rows := []models.MenuRow{
		{DateServed: "2024-01-15", Meal: models.MealLunch, DishName: "Mystery Dish"},
	}

	items := buildMenuItems("h1", map[string]string{}, rows)
	assert.Empty(t, items)
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "Mac & Cheese", cleanText("  Mac &amp;  Cheese \n"))
	assert.Equal(t, "", cleanText("   "))
}

func TestToArray(t *testing.T) {
	assert.Nil(t, toArray(nil))
	assert.Equal(t, []any{"a", "b"}, toArray([]any{"a", "b"}))
	assert.Equal(t, []any{"single"}, toArray("single"))
}
