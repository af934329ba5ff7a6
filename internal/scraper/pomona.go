package scraper

import (
	"strings"

	"dininghub/pkg/models"
)

// NormalizePomona converts the legacy Pomona feed into menu rows. The feed
// is XML converted to JSON: attribute keys are "@"-prefixed and repeated
// elements arrive as either arrays or singleton objects, so every nested
// list goes through toArray before iteration.
func NormalizePomona(doc map[string]any) []models.MenuRow {
	var rows []models.MenuRow

	exchange := asMap(doc["EatecExchange"])
	for _, mv := range toArray(exchange["menu"]) {
		menu := asMap(mv)
		if menu == nil {
			continue
		}

		recipes := toArray(asMap(menu["recipes"])["recipe"])
		if len(recipes) == 0 {
			recipes = toArray(menu["recipe"])
		}

		for _, rv := range recipes {
			rec := asMap(rv)
			if rec == nil {
				continue
			}

			// date/meal attributes appear on the recipe in newer feeds and
			// on the enclosing menu block in older ones
			served := attr(rec, "servedate")
			if served == "" {
				served = attr(menu, "servedate")
			}
			date, ok := isoFromServeDate(served)
			if !ok {
				continue
			}

			mealName := attr(rec, "mealperiodname")
			if mealName == "" {
				mealName = attr(menu, "mealperiodname")
			}

			name := cleanText(attr(rec, "shortName"))
			if name == "" {
				name = cleanText(attr(rec, "name"))
			}

			desc := cleanText(attr(rec, "description"))
			alt := cleanText(attr(rec, "alternatedescription"))
			if strings.EqualFold(alt, "n/a") {
				alt = ""
			}
			if alt != "" {
				desc = alt
			}

			if name == "" && desc == "" {
				continue
			}
			if name == "" {
				name = desc
			}

			rows = append(rows, models.MenuRow{
				DateServed:     date,
				Meal:           NormalizeMealName(mealName),
				DishName:       name,
				Section:        cleanText(attr(rec, "category")),
				Description:    desc,
				Ingredients:    cleanText(attr(rec, "ingredients")),
				Allergens:      pomonaFlags(rec, "allergens", "allergen"),
				DietaryChoices: pomonaFlags(rec, "dietaryChoices", "dietaryChoice"),
			})
		}
	}

	return uniqBy(rows, dedupKey)
}

// isoFromServeDate converts the feed's 8-digit YYYYMMDD into an ISO date by
// substring slicing; anything not exactly 8 characters is rejected.
func isoFromServeDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) != 8 {
		return "", false
	}
	return s[0:4] + "-" + s[4:6] + "-" + s[6:8], true
}

// pomonaFlags reads the nested dietaryChoice/allergen lists where each
// entry carries an "@id" label and a yes/no text flag. Only "yes"-flagged,
// non-empty labels are kept.
func pomonaFlags(rec map[string]any, wrapper, entry string) []string {
	entries := toArray(asMap(rec[wrapper])[entry])
	if len(entries) == 0 {
		entries = toArray(rec[entry])
	}

	var out []string
	for _, ev := range entries {
		e := asMap(ev)
		if e == nil {
			continue
		}
		flag := strings.ToLower(cleanText(firstStr(e, "#text", "value", "flag")))
		label := cleanText(str(e, "@id"))
		if flag == "yes" && label != "" {
			out = append(out, label)
		}
	}
	return dedupStrings(out)
}
