package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dininghub/pkg/database"
	"dininghub/pkg/models"
)

func openTestDB(t *testing.T) *SQLite {
	t.Helper()
	db, err := database.Open(database.Config{Path: ":memory:"})
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return NewSQLite(db)
}

func TestUpsertHallIdempotent(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	id1, err := s.UpsertHall(ctx, models.Hall{Name: "Frank Dining Hall", Campus: "Pomona"})
	require.NoError(t, err)
	id2, err := s.UpsertHall(ctx, models.Hall{Name: "Frank Dining Hall", Campus: "Pomona College"})
	require.NoError(t, err)

	// the surrogate id is stable across reruns; metadata is overwritten
	assert.Equal(t, id1, id2)

	var count int
	var campus string
	require.NoError(t, s.DB.QueryRow(`SELECT COUNT(*) FROM halls`).Scan(&count))
	require.NoError(t, s.DB.QueryRow(`SELECT campus FROM halls`).Scan(&campus))
	assert.Equal(t, 1, count)
	assert.Equal(t, "Pomona College", campus)
}

func TestUpsertDishesIdempotent(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	hallID, err := s.UpsertHall(ctx, models.Hall{Name: "Frary"})
	require.NoError(t, err)

	dishes := []models.Dish{
		{Slug: "pancakes", Name: "Pancakes", Description: "plain", Allergens: []string{"Wheat"}},
		{Slug: "tofu-scramble", Name: "Tofu Scramble"},
	}

	ids1, err := s.UpsertDishes(ctx, hallID, dishes)
	require.NoError(t, err)
	require.Len(t, ids1, 2)

	dishes[0].Description = "buttermilk"
	ids2, err := s.UpsertDishes(ctx, hallID, dishes)
	require.NoError(t, err)
	assert.Equal(t, ids1["pancakes"], ids2["pancakes"])

	var count int
	var desc string
	require.NoError(t, s.DB.QueryRow(`SELECT COUNT(*) FROM dishes`).Scan(&count))
	require.NoError(t, s.DB.QueryRow(
		`SELECT description FROM dishes WHERE slug = 'pancakes'`).Scan(&desc))
	assert.Equal(t, 2, count)
	assert.Equal(t, "buttermilk", desc)
}

func TestUpsertMenuItemsIdempotent(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	hallID, err := s.UpsertHall(ctx, models.Hall{Name: "Frary"})
	require.NoError(t, err)
	dishIDs, err := s.UpsertDishes(ctx, hallID, []models.Dish{{Slug: "pancakes", Name: "Pancakes"}})
	require.NoError(t, err)

	item := models.MenuItem{
		HallID:     hallID,
		DishID:     dishIDs["pancakes"],
		DateServed: "2024-01-15",
		Meal:       models.MealBreakfast,
		DishName:   "Pancakes",
		Section:    "Grill",
		Tags:       []string{"Vegetarian"},
	}

	n, err := s.UpsertMenuItems(ctx, []models.MenuItem{item})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	item.Description = "now with syrup"
	_, err = s.UpsertMenuItems(ctx, []models.MenuItem{item})
	require.NoError(t, err)

	var count int
	var desc string
	require.NoError(t, s.DB.QueryRow(`SELECT COUNT(*) FROM menu_items`).Scan(&count))
	require.NoError(t, s.DB.QueryRow(`SELECT description FROM menu_items`).Scan(&desc))
	assert.Equal(t, 1, count)
	assert.Equal(t, "now with syrup", desc)
}

func TestUpsertMenuItemsDistinctSections(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	hallID, err := s.UpsertHall(ctx, models.Hall{Name: "Collins"})
	require.NoError(t, err)
	dishIDs, err := s.UpsertDishes(ctx, hallID, []models.Dish{{Slug: "fries", Name: "Fries"}})
	require.NoError(t, err)

	base := models.MenuItem{
		HallID:     hallID,
		DishID:     dishIDs["fries"],
		DateServed: "2024-01-15",
		Meal:       models.MealLunch,
		DishName:   "Fries",
	}
	grill := base
	grill.Section = "Grill"

	_, err = s.UpsertMenuItems(ctx, []models.MenuItem{base, grill})
	require.NoError(t, err)

	var count int
	require.NoError(t, s.DB.QueryRow(`SELECT COUNT(*) FROM menu_items`).Scan(&count))
	assert.Equal(t, 2, count)
}
