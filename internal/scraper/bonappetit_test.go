package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dininghub/pkg/models"
)

func TestNormalizeBonAppetitDayDayparts(t *testing.T) {
	html := `<script>
		Bamco.menu_items = {
			"100": {"label": "Huevos Rancheros", "description": "<p>with salsa roja</p>",
			        "cor_icon": {"1": "Vegetarian"}},
			"200": {"label": "Carnitas Tacos"}
		};
		Bamco.daily_menus = {
			"2024-01-15": {
				"dayparts": [[
					{"label": "Breakfast", "stations": [
						{"label": "Comal", "items": ["100"]}
					]},
					{"label": "Dinner", "stations": [
						{"label": "Comal", "items": [200]}
					]}
				]]
			}
		};
	</script>`

	rows := NormalizeBonAppetitDay(html, "2024-01-15")
	require.Len(t, rows, 2)

	assert.Equal(t, models.MealBreakfast, rows[0].Meal)
	assert.Equal(t, "Huevos Rancheros", rows[0].DishName)
	assert.Equal(t, "Comal", rows[0].Section)
	assert.Equal(t, "with salsa roja", rows[0].Description)
	assert.Equal(t, []string{"Vegetarian"}, rows[0].Tags)

	// numeric item ids resolve too
	assert.Equal(t, "Carnitas Tacos", rows[1].DishName)
	assert.Equal(t, models.MealDinner, rows[1].Meal)
}

func TestNormalizeBonAppetitDayFallback(t *testing.T) {
	// daily_menus has nothing for the date, so meals are inferred from the
	// page's meal sections and station markers
	html := `
	<section id="dinner"><h2>Dinner</h2><div>Pasta Primavera</div></section>
	<script>
		Bamco.menu_items = {
			"1": {"label": "Pasta Primavera", "station": "<strong>Trattoria</strong>"},
			"2": {"label": "Breakfast Burrito", "station": "<strong>@breakfast</strong>"},
			"3": {"label": "Quesadilla", "station": "late night grill"},
			"4": {"label": "Orphan Item", "station": "nowhere"}
		};
		Bamco.daily_menus = {"2024-02-01": {"dayparts": []}};
	</script>`

	rows := NormalizeBonAppetitDay(html, "2024-01-15")
	require.Len(t, rows, 3)

	byName := map[string]models.MenuRow{}
	for _, r := range rows {
		byName[r.DishName] = r
	}

	assert.Equal(t, models.MealDinner, byName["Pasta Primavera"].Meal)
	assert.Equal(t, "Trattoria", byName["Pasta Primavera"].Section)
	assert.Equal(t, models.MealBreakfast, byName["Breakfast Burrito"].Meal)
	// "@"-markers are stripped from the section label
	assert.Equal(t, "breakfast", byName["Breakfast Burrito"].Section)
	assert.Equal(t, models.MealLateNight, byName["Quesadilla"].Meal)

	// items placeable on no meal are dropped
	_, found := byName["Orphan Item"]
	assert.False(t, found)
}

func TestNormalizeBonAppetitDayNoItemsBlock(t *testing.T) {
	assert.Empty(t, NormalizeBonAppetitDay(`<html><body>maintenance page</body></html>`, "2024-01-15"))
}

func TestBonAppTagsUnionsIconShapes(t *testing.T) {
	item := map[string]any{
		"cor_icon": map[string]any{"1": "Vegan", "8": "Made without Gluten"},
		"ordered_cor_icon": map[string]any{
			"1": map[string]any{"label": "Vegan"},
			"4": map[string]any{"label": "Humane"},
		},
	}
	assert.Equal(t, []string{"Humane", "Made without Gluten", "Vegan"}, bonAppTags(item))
}

func TestBonAppTagsEmptyArrayIcon(t *testing.T) {
	// cor_icon is an empty array (not a map) when an item has no icons
	item := map[string]any{"cor_icon": []any{}}
	assert.Empty(t, bonAppTags(item))
}
