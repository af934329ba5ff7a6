package models

// Meal is the closed set of meal periods a menu row can belong to.
type Meal string

const (
	MealBreakfast Meal = "breakfast"
	MealLunch     Meal = "lunch"
	MealDinner    Meal = "dinner"
	MealLateNight Meal = "late_night"
)

// MenuRow is the normalized, internal form of one dish appearance on one
// date/meal/section, produced by the per-source adapters.
//
// All external sources are mapped into this structure first,
// then we dedup/canonicalize and write to the store from this representation.
type MenuRow struct {
	DateServed     string   `json:"date_served"` // YYYY-MM-DD
	Meal           Meal     `json:"meal"`
	DishName       string   `json:"dish_name"`
	Section        string   `json:"section,omitempty"` // station/category label, "" if unlabeled
	Description    string   `json:"description,omitempty"`
	Ingredients    string   `json:"ingredients,omitempty"`
	Allergens      []string `json:"allergens,omitempty"`
	DietaryChoices []string `json:"dietary_choices,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	Nutrients      string   `json:"nutrients,omitempty"` // "Label: value | Label: value"
}

// Hall is a physical dining location with its own scrape source.
type Hall struct {
	ID     string `json:"id"`
	Name   string `json:"name"` // natural key
	Campus string `json:"campus"`
}

// Dish is the canonical identity of a named dish within one hall.
// (hall_id, slug) is unique; metadata is last-write-wins per run.
type Dish struct {
	ID             string   `json:"id"`
	HallID         string   `json:"hall_id"`
	Slug           string   `json:"slug"`
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	Ingredients    string   `json:"ingredients,omitempty"`
	Allergens      []string `json:"allergens,omitempty"`
	DietaryChoices []string `json:"dietary_choices,omitempty"`
	Nutrients      string   `json:"nutrients,omitempty"`
	Tags           []string `json:"tags,omitempty"`
}

// MenuItem is one dated occurrence of a Dish at a Hall.
// (hall_id, dish_id, date_served, meal, section) is the idempotency key.
type MenuItem struct {
	ID             string   `json:"id"`
	HallID         string   `json:"hall_id"`
	DishID         string   `json:"dish_id"`
	DateServed     string   `json:"date_served"`
	Meal           Meal     `json:"meal"`
	DishName       string   `json:"dish_name"` // display name at time of scrape
	Section        string   `json:"section"`
	Description    string   `json:"description,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	Ingredients    string   `json:"ingredients,omitempty"`
	Allergens      []string `json:"allergens,omitempty"`
	DietaryChoices []string `json:"dietary_choices,omitempty"`
	Nutrients      string   `json:"nutrients,omitempty"`
}
