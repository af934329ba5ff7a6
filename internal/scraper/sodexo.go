package scraper

import (
	"context"
	"log"
	"sort"
	"strings"

	"dininghub/pkg/models"
)

// ScrapeSodexo fetches one server-rendered page per day in the window
// (today through +5) and normalizes each day's preloaded state. A day whose
// fetch fails or whose state block is missing is logged and skipped.
func ScrapeSodexo(ctx context.Context, f *Fetcher, pageURL string) []models.MenuRow {
	var rows []models.MenuRow
	for _, day := range dayWindow(5) {
		html, err := f.GetText(ctx, pageURL+"?date="+day)
		if err != nil {
			log.Printf("[sodexo] %s: %v", day, err)
			continue
		}
		state := ExtractPreloadedState(html)
		if state == nil {
			log.Printf("[sodexo] %s: no preloaded state", day)
			continue
		}
		rows = append(rows, NormalizeSodexoDay(state, day)...)
	}
	return uniqBy(rows, dedupKey)
}

// NormalizeSodexoDay walks the preloaded state for one day. Two historical
// payload shapes exist under the menus region's fragments:
//
//	(a) meals[].categories[].items[]       (older)
//	(b) main.sections[].groups[].items[]   (newer)
//
// Shape (a) is tried first; (b) is used only when no meal blocks were found
// at all, since a page can carry empty arrays for the old shape.
func NormalizeSodexoDay(state map[string]any, date string) []models.MenuRow {
	region := sodexoMenusRegion(state)
	if region == nil {
		return nil
	}
	fragments := toArray(region["fragments"])

	var rows []models.MenuRow
	sawMeals := false

	for _, fv := range fragments {
		data := sodexoFragmentData(fv)
		for _, mv := range toArray(data["meals"]) {
			sawMeals = true
			meal := asMap(mv)
			mealName, ok := matchMealName(str(meal, "name"))
			if !ok {
				continue
			}
			for _, cv := range toArray(meal["categories"]) {
				cat := asMap(cv)
				section := cleanText(str(cat, "name"))
				for _, iv := range toArray(cat["items"]) {
					if row, ok := sodexoItemRow(asMap(iv), date, mealName, section); ok {
						rows = append(rows, row)
					}
				}
			}
		}
	}
	if sawMeals {
		return rows
	}

	for _, fv := range fragments {
		data := sodexoFragmentData(fv)
		main := asMap(data["main"])
		for _, sv := range toArray(main["sections"]) {
			sec := asMap(sv)
			mealName, ok := matchMealName(firstStr(sec, "name", "title"))
			if !ok {
				continue
			}
			for _, gv := range toArray(sec["groups"]) {
				grp := asMap(gv)
				section := cleanText(str(grp, "name"))
				for _, iv := range toArray(grp["items"]) {
					if row, ok := sodexoItemRow(asMap(iv), date, mealName, section); ok {
						rows = append(rows, row)
					}
				}
			}
		}
	}
	return rows
}

// sodexoMenusRegion finds composition.subject.regions[] with id == "menus".
func sodexoMenusRegion(state map[string]any) map[string]any {
	subject := asMap(asMap(state["composition"])["subject"])
	for _, rv := range toArray(subject["regions"]) {
		region := asMap(rv)
		if str(region, "id") == "menus" {
			return region
		}
	}
	return nil
}

func sodexoFragmentData(fv any) map[string]any {
	frag := asMap(fv)
	if data := asMap(frag["data"]); data != nil {
		return data
	}
	return frag
}

func sodexoItemRow(item map[string]any, date string, meal models.Meal, section string) (models.MenuRow, bool) {
	name := cleanText(firstStr(item, "formalName", "name", "displayName"))
	if name == "" {
		return models.MenuRow{}, false
	}
	return models.MenuRow{
		DateServed:     date,
		Meal:           meal,
		DishName:       name,
		Section:        section,
		Description:    cleanText(str(item, "description")),
		Ingredients:    cleanText(str(item, "ingredients")),
		Allergens:      sodexoLabels(item["allergens"]),
		DietaryChoices: sodexoLabels(item["dietaryChoices"]),
		Nutrients:      FormatSodexoNutrients(item),
	}, true
}

// sodexoLabels accepts both bare strings and {name: ...} objects.
func sodexoLabels(v any) []string {
	var out []string
	for _, ev := range toArray(v) {
		var label string
		if s, ok := ev.(string); ok {
			label = s
		} else {
			label = firstStr(asMap(ev), "name", "label")
		}
		if label = cleanText(label); label != "" {
			out = append(out, label)
		}
	}
	return dedupStrings(out)
}

// sodexoMacros are the known scalar nutrition fields an item may carry
// directly when no structured nutrient block is present.
var sodexoMacros = []struct{ key, label string }{
	{"calories", "Calories"},
	{"caloriesFromFat", "Calories from Fat"},
	{"fat", "Fat"},
	{"saturatedFat", "Saturated Fat"},
	{"transFat", "Trans Fat"},
	{"polyunsaturatedFat", "Polyunsaturated Fat"},
	{"monounsaturatedFat", "Monounsaturated Fat"},
	{"cholesterol", "Cholesterol"},
	{"sodium", "Sodium"},
	{"potassium", "Potassium"},
	{"carbohydrates", "Carbohydrates"},
	{"dietaryFiber", "Dietary Fiber"},
	{"sugar", "Sugar"},
	{"addedSugar", "Added Sugar"},
	{"protein", "Protein"},
	{"vitaminA", "Vitamin A"},
	{"vitaminC", "Vitamin C"},
	{"vitaminD", "Vitamin D"},
	{"calcium", "Calcium"},
	{"iron", "Iron"},
	{"servingSize", "Serving Size"},
}

// FormatSodexoNutrients serializes an item's nutrition data into
// "Label: value" pairs joined by " | ". Four representations are handled in
// priority order: an array of label/value objects, a generic object map, a
// preformatted string, and finally synthesis from the known macro fields.
// Absent or empty values are dropped, never emitted as "Label: ".
func FormatSodexoNutrients(item map[string]any) string {
	switch n := item["nutrients"].(type) {
	case []any:
		var pairs []string
		for _, ev := range n {
			e := asMap(ev)
			label := cleanText(firstStr(e, "label", "name"))
			value := cleanText(str(e, "value"))
			if label != "" && value != "" {
				pairs = append(pairs, label+": "+value)
			}
		}
		return strings.Join(pairs, " | ")
	case map[string]any:
		keys := make([]string, 0, len(n))
		for k := range n {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var pairs []string
		for _, k := range keys {
			if v := cleanText(anyStr(n[k])); v != "" {
				pairs = append(pairs, cleanText(k)+": "+v)
			}
		}
		return strings.Join(pairs, " | ")
	case string:
		return cleanText(n)
	}

	var pairs []string
	for _, m := range sodexoMacros {
		if v := cleanText(str(item, m.key)); v != "" {
			pairs = append(pairs, m.label+": "+v)
		}
	}
	return strings.Join(pairs, " | ")
}
