package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"dininghub/pkg/models"
)

// SQLite persists the scraped schema into a local sqlite database.
// Used by the CLI's local mode and by tests.
type SQLite struct {
	DB *sql.DB
}

func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{DB: db}
}

func (s *SQLite) UpsertHall(ctx context.Context, hall models.Hall) (string, error) {
	var id string
	err := s.DB.QueryRowContext(ctx, `
		INSERT INTO halls (id, name, campus)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
		  campus = excluded.campus
		RETURNING id
	`, uuid.NewString(), hall.Name, hall.Campus).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("upsert hall %q: %w", hall.Name, err)
	}
	return id, nil
}

func (s *SQLite) UpsertDishes(ctx context.Context, hallID string, dishes []models.Dish) (map[string]string, error) {
	ids := make(map[string]string, len(dishes))
	if len(dishes) == 0 {
		return ids, nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO dishes (id, hall_id, slug, name, description, ingredients,
		                    allergens, dietary_choices, nutrients, tags, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT(hall_id, slug) DO UPDATE SET
		  name = excluded.name,
		  description = excluded.description,
		  ingredients = excluded.ingredients,
		  allergens = excluded.allergens,
		  dietary_choices = excluded.dietary_choices,
		  nutrients = excluded.nutrients,
		  tags = excluded.tags,
		  updated_at = excluded.updated_at
		RETURNING id
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare dish stmt: %w", err)
	}
	defer stmt.Close()

	for _, d := range dishes {
		var id string
		if err := stmt.QueryRowContext(
			ctx,
			uuid.NewString(),
			hallID,
			d.Slug,
			d.Name,
			nullStr(d.Description),
			nullStr(d.Ingredients),
			jsonArr(d.Allergens),
			jsonArr(d.DietaryChoices),
			nullStr(d.Nutrients),
			jsonArr(d.Tags),
		).Scan(&id); err != nil {
			return nil, fmt.Errorf("upsert dish %q: %w", d.Slug, err)
		}
		ids[d.Slug] = id
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return ids, nil
}

func (s *SQLite) UpsertMenuItems(ctx context.Context, items []models.MenuItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO menu_items (id, hall_id, dish_id, date_served, meal, dish_name,
		                        section, description, tags, ingredients, allergens,
		                        dietary_choices, nutrients)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(hall_id, dish_id, date_served, meal, section) DO UPDATE SET
		  dish_name = excluded.dish_name,
		  description = excluded.description,
		  tags = excluded.tags,
		  ingredients = excluded.ingredients,
		  allergens = excluded.allergens,
		  dietary_choices = excluded.dietary_choices,
		  nutrients = excluded.nutrients
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare menu item stmt: %w", err)
	}
	defer stmt.Close()

	for _, it := range items {
		if _, err := stmt.ExecContext(
			ctx,
			uuid.NewString(),
			it.HallID,
			it.DishID,
			it.DateServed,
			string(it.Meal),
			it.DishName,
			it.Section,
			nullStr(it.Description),
			jsonArr(it.Tags),
			nullStr(it.Ingredients),
			jsonArr(it.Allergens),
			jsonArr(it.DietaryChoices),
			nullStr(it.Nutrients),
		); err != nil {
			return 0, fmt.Errorf("upsert menu item %s/%s/%s: %w", it.DateServed, it.Meal, it.DishName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return len(items), nil
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func jsonArr(v []string) any {
	if len(v) == 0 {
		return nil
	}
	b, _ := json.Marshal(v)
	return string(b)
}
