package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"dininghub/pkg/models"
	"dininghub/pkg/utils"
)

// Supabase writes through the store's REST interface (PostgREST).
// Upserts use `on_conflict` plus the merge-duplicates preference so reruns
// are no-ops beyond metadata overwrites.
type Supabase struct {
	client *resty.Client
}

func NewSupabase(cfg utils.StoreConfig) *Supabase {
	c := resty.New().
		SetBaseURL(strings.TrimRight(cfg.URL, "/") + "/rest/v1").
		SetHeader("apikey", cfg.ServiceKey).
		SetHeader("Authorization", "Bearer "+cfg.ServiceKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(30 * time.Second)
	return &Supabase{client: c}
}

func (s *Supabase) UpsertHall(ctx context.Context, hall models.Hall) (string, error) {
	payload := []map[string]any{{
		"name":   hall.Name,
		"campus": hall.Campus,
	}}

	var out []struct {
		ID string `json:"id"`
	}
	if err := s.upsert(ctx, "/halls", "name", payload, true, &out); err != nil {
		return "", fmt.Errorf("upsert hall %q: %w", hall.Name, err)
	}
	if len(out) == 0 || out[0].ID == "" {
		return "", fmt.Errorf("upsert hall %q: empty representation", hall.Name)
	}
	return out[0].ID, nil
}

func (s *Supabase) UpsertDishes(ctx context.Context, hallID string, dishes []models.Dish) (map[string]string, error) {
	ids := make(map[string]string, len(dishes))
	if len(dishes) == 0 {
		return ids, nil
	}

	// bulk inserts require identical keys across rows, so every column is
	// always present in the payload
	now := time.Now().UTC().Format(time.RFC3339)
	payload := make([]map[string]any, 0, len(dishes))
	for _, d := range dishes {
		payload = append(payload, map[string]any{
			"hall_id":         hallID,
			"slug":            d.Slug,
			"name":            d.Name,
			"description":     d.Description,
			"ingredients":     d.Ingredients,
			"allergens":       emptyArr(d.Allergens),
			"dietary_choices": emptyArr(d.DietaryChoices),
			"nutrients":       d.Nutrients,
			"tags":            emptyArr(d.Tags),
			"updated_at":      now,
		})
	}

	var out []struct {
		ID   string `json:"id"`
		Slug string `json:"slug"`
	}
	if err := s.upsert(ctx, "/dishes", "hall_id,slug", payload, true, &out); err != nil {
		return nil, fmt.Errorf("upsert dishes: %w", err)
	}
	for _, row := range out {
		ids[row.Slug] = row.ID
	}
	return ids, nil
}

func (s *Supabase) UpsertMenuItems(ctx context.Context, items []models.MenuItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	payload := make([]map[string]any, 0, len(items))
	for _, it := range items {
		payload = append(payload, map[string]any{
			"hall_id":         it.HallID,
			"dish_id":         it.DishID,
			"date_served":     it.DateServed,
			"meal":            string(it.Meal),
			"dish_name":       it.DishName,
			"section":         it.Section,
			"description":     it.Description,
			"tags":            emptyArr(it.Tags),
			"ingredients":     it.Ingredients,
			"allergens":       emptyArr(it.Allergens),
			"dietary_choices": emptyArr(it.DietaryChoices),
			"nutrients":       it.Nutrients,
		})
	}

	if err := s.upsert(ctx, "/menu_items", "hall_id,dish_id,date_served,meal,section", payload, false, nil); err != nil {
		return 0, fmt.Errorf("upsert menu items: %w", err)
	}
	return len(items), nil
}

func (s *Supabase) upsert(ctx context.Context, path, onConflict string, payload any, representation bool, out any) error {
	prefer := "resolution=merge-duplicates"
	if representation {
		prefer += ",return=representation"
	} else {
		prefer += ",return=minimal"
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("on_conflict", onConflict).
		SetHeader("Prefer", prefer).
		SetBody(payload).
		Post(path)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return fmt.Errorf("post %s: status %d: %s", path, resp.StatusCode(), resp.String())
	}

	if out != nil {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return fmt.Errorf("decode %s representation: %w", path, err)
		}
	}
	return nil
}

func emptyArr(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
