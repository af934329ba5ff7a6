package scraper

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"dininghub/pkg/models"
)

var (
	wsRe       = regexp.MustCompile(`\s+`)
	tagRe      = regexp.MustCompile(`<[^>]*>`)
	nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)
)

// toArray normalizes XML-converted JSON where repeated elements arrive
// sometimes as arrays and sometimes as singleton objects. Applied at every
// such field access so the adapters can assume arrays unconditionally.
func toArray(v any) []any {
	switch x := v.(type) {
	case nil:
		return nil
	case []any:
		return x
	default:
		return []any{v}
	}
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// str reads a scalar field as a string; JSON numbers are formatted without
// a trailing ".0".
func str(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	return anyStr(m[key])
}

func anyStr(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

// attr reads an XML-attribute-style field, preferring the "@"-prefixed key.
func attr(m map[string]any, name string) string {
	if v := str(m, "@"+name); v != "" {
		return v
	}
	return str(m, name)
}

func firstStr(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v := str(m, k); v != "" {
			return v
		}
	}
	return ""
}

// cleanText decodes HTML entities and collapses whitespace.
func cleanText(s string) string {
	s = html.UnescapeString(s)
	s = wsRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func stripTags(s string) string {
	return tagRe.ReplaceAllString(s, " ")
}

// Slugify collapses a dish name into its canonical per-hall key:
// lowercase, non-alphanumeric runs become hyphens. An all-punctuation or
// empty name falls back to "dish" so the key is never empty.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = nonAlnumRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "dish"
	}
	return s
}

// NormalizeMealName maps a free-text meal period to the closed meal enum.
// Unrecognized periods default to dinner. Only the Pomona adapter wants that
// default; the other sources drop unmatched periods via matchMealName.
func NormalizeMealName(name string) models.Meal {
	if meal, ok := matchMealName(name); ok {
		return meal
	}
	return models.MealDinner
}

func matchMealName(name string) (models.Meal, bool) {
	s := strings.ToLower(name)
	switch {
	case strings.Contains(s, "breakfast"):
		return models.MealBreakfast, true
	case strings.Contains(s, "lunch"):
		return models.MealLunch, true
	case strings.Contains(s, "dinner"):
		return models.MealDinner, true
	case strings.Contains(s, "late"):
		return models.MealLateNight, true
	}
	return "", false
}

// dedupKey identifies a row for row-level dedup: case-insensitive
// (date, meal, section, dish name).
func dedupKey(r models.MenuRow) string {
	return strings.ToLower(strings.Join([]string{
		r.DateServed, string(r.Meal), r.Section, r.DishName,
	}, "\x1f"))
}

// uniqBy keeps the first element seen per distinct key.
func uniqBy[T any](items []T, key func(T) string) []T {
	seen := make(map[string]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, it := range items {
		k := key(it)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, it)
	}
	return out
}

func dedupStrings(in []string) []string {
	return uniqBy(in, func(s string) string { return strings.ToLower(s) })
}

// mergeDishes builds the canonical dish set for a hall run. Rows for the
// same slug merge last-write-wins per field: each row's present fields
// overwrite what is stored, so the result is the union of knowledge across
// every mention of the dish.
func mergeDishes(rows []models.MenuRow) []models.Dish {
	bySlug := make(map[string]*models.Dish, len(rows))
	var order []string

	for _, r := range rows {
		slug := Slugify(r.DishName)
		d, ok := bySlug[slug]
		if !ok {
			d = &models.Dish{Slug: slug}
			bySlug[slug] = d
			order = append(order, slug)
		}
		if r.DishName != "" {
			d.Name = r.DishName
		}
		if r.Description != "" {
			d.Description = r.Description
		}
		if r.Ingredients != "" {
			d.Ingredients = r.Ingredients
		}
		if len(r.Allergens) > 0 {
			d.Allergens = dedupStrings(r.Allergens)
		}
		if len(r.DietaryChoices) > 0 {
			d.DietaryChoices = dedupStrings(r.DietaryChoices)
		}
		if r.Nutrients != "" {
			d.Nutrients = r.Nutrients
		}
		if len(r.Tags) > 0 {
			d.Tags = dedupStrings(r.Tags)
		}
	}

	out := make([]models.Dish, 0, len(order))
	for _, slug := range order {
		out = append(out, *bySlug[slug])
	}
	return out
}

// buildMenuItems attaches dish ids to deduplicated rows. Rows whose slug
// did not resolve should not occur; they are dropped defensively. Items are
// deduplicated again on the full persistence conflict key, since two
// differently-punctuated names can canonicalize to the same slug.
func buildMenuItems(hallID string, dishIDs map[string]string, rows []models.MenuRow) []models.MenuItem {
	items := make([]models.MenuItem, 0, len(rows))
	for _, r := range rows {
		dishID, ok := dishIDs[Slugify(r.DishName)]
		if !ok {
			continue
		}
		items = append(items, models.MenuItem{
			HallID:         hallID,
			DishID:         dishID,
			DateServed:     r.DateServed,
			Meal:           r.Meal,
			DishName:       r.DishName,
			Section:        r.Section,
			Description:    r.Description,
			Tags:           r.Tags,
			Ingredients:    r.Ingredients,
			Allergens:      r.Allergens,
			DietaryChoices: r.DietaryChoices,
			Nutrients:      r.Nutrients,
		})
	}

	return uniqBy(items, func(it models.MenuItem) string {
		return strings.Join(
			[]string{it.HallID, it.DishID, it.DateServed, string(it.Meal), it.Section},
			"\x1f",
		)
	})
}
