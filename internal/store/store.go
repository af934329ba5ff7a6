package store

import (
	"context"

	"dininghub/pkg/models"
)

// Store is the persistence boundary of the pipeline. Every write is an
// upsert keyed by a natural/composite key, so reruns are idempotent.
type Store interface {
	// UpsertHall inserts or updates a hall by name and returns its id.
	UpsertHall(ctx context.Context, hall models.Hall) (string, error)

	// UpsertDishes inserts or updates dishes by (hall_id, slug) and returns
	// a slug -> dish id map for the given hall.
	UpsertDishes(ctx context.Context, hallID string, dishes []models.Dish) (map[string]string, error)

	// UpsertMenuItems inserts or updates dated menu occurrences by
	// (hall_id, dish_id, date_served, meal, section). Returns the number of
	// rows written.
	UpsertMenuItems(ctx context.Context, items []models.MenuItem) (int, error)
}
