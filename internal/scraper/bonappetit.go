package scraper

import (
	"context"
	"log"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"dininghub/pkg/models"
)

// ScrapeBonAppetit fetches one cafe page per day in the window (the cafe
// URL gets the ISO date appended) and normalizes each day. Failed or
// unparseable days are logged and skipped.
func ScrapeBonAppetit(ctx context.Context, f *Fetcher, cafeURL string) []models.MenuRow {
	var rows []models.MenuRow
	for _, day := range dayWindow(5) {
		url := strings.TrimRight(cafeURL, "/") + "/" + day + "/"
		html, err := f.GetText(ctx, url)
		if err != nil {
			log.Printf("[bonappetit] %s: %v", day, err)
			continue
		}
		rows = append(rows, NormalizeBonAppetitDay(html, day)...)
	}
	return uniqBy(rows, dedupKey)
}

// NormalizeBonAppetitDay reads the two Bamco globals the page embeds:
// menu_items (item id -> item) and daily_menus (date -> dayparts). The
// daypart grouping is the primary path; when it yields nothing for the
// target date, fall back to scanning menu_items directly and inferring each
// item's meal from the page's meal <section> blocks or its raw station HTML.
func NormalizeBonAppetitDay(html, date string) []models.MenuRow {
	items := ExtractBamcoBlock(html, "menu_items")
	if items == nil {
		log.Printf("[bonappetit] %s: no menu_items block", date)
		return nil
	}
	daily := ExtractBamcoBlock(html, "daily_menus")

	rows := bonAppDayparts(daily, items, date)
	if len(rows) == 0 {
		rows = bonAppFallback(html, items, date)
	}
	return rows
}

func bonAppDayparts(daily, items map[string]any, date string) []models.MenuRow {
	day := asMap(daily[date])
	if day == nil {
		return nil
	}

	var rows []models.MenuRow
	for _, dpv := range toArray(day["dayparts"]) {
		// observed quirk: dayparts occasionally nests an array of arrays
		parts := []any{dpv}
		if inner, ok := dpv.([]any); ok {
			parts = inner
		}
		for _, pv := range parts {
			dp := asMap(pv)
			meal, ok := matchMealName(str(dp, "label"))
			if !ok {
				continue
			}
			for _, sv := range toArray(dp["stations"]) {
				st := asMap(sv)
				section := cleanText(stripTags(str(st, "label")))
				for _, idv := range toArray(st["items"]) {
					item := asMap(items[anyStr(idv)])
					if row, ok := bonAppItemRow(item, date, meal, section); ok {
						rows = append(rows, row)
					}
				}
			}
		}
	}
	return rows
}

// bonAppFallback places items on meals without the daypart grouping. An
// item's meal is inferred by (a) its label appearing inside one of the
// page's <section id="breakfast|lunch|dinner|late-night"> blocks, or (b) a
// literal marker like "@breakfast" in its raw station HTML. Items matching
// neither are dropped: they cannot be placed on any meal.
func bonAppFallback(html string, items map[string]any, date string) []models.MenuRow {
	sections := mealSectionText(html)

	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	mealOrder := []models.Meal{
		models.MealBreakfast, models.MealLunch, models.MealDinner, models.MealLateNight,
	}

	var rows []models.MenuRow
	for _, id := range ids {
		item := asMap(items[id])
		label := strings.ToLower(cleanText(str(item, "label")))
		if label == "" {
			continue
		}

		var meal models.Meal
		for _, m := range mealOrder {
			if text, ok := sections[m]; ok && strings.Contains(text, label) {
				meal = m
				break
			}
		}
		if meal == "" {
			meal = mealFromStation(strings.ToLower(str(item, "station")))
		}
		if meal == "" {
			continue
		}

		if row, ok := bonAppItemRow(item, date, meal, bonAppStation(item)); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

func mealFromStation(station string) models.Meal {
	switch {
	case strings.Contains(station, "@breakfast"):
		return models.MealBreakfast
	case strings.Contains(station, "late night"):
		return models.MealLateNight
	case strings.Contains(station, "@lunch"):
		return models.MealLunch
	case strings.Contains(station, "@dinner"):
		return models.MealDinner
	}
	return ""
}

// mealSectionText collects the lowercased text of the page's per-meal
// <section> blocks, keyed by meal.
func mealSectionText(html string) map[models.Meal]string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	ids := map[models.Meal]string{
		models.MealBreakfast: "breakfast",
		models.MealLunch:     "lunch",
		models.MealDinner:    "dinner",
		models.MealLateNight: "late-night",
	}
	out := make(map[models.Meal]string, len(ids))
	for meal, id := range ids {
		sel := doc.Find("section#" + id)
		if sel.Length() == 0 {
			continue
		}
		out[meal] = strings.ToLower(sel.Text())
	}
	return out
}

func bonAppItemRow(item map[string]any, date string, meal models.Meal, section string) (models.MenuRow, bool) {
	name := cleanText(str(item, "label"))
	if name == "" {
		return models.MenuRow{}, false
	}
	if section == "" {
		section = bonAppStation(item)
	}
	return models.MenuRow{
		DateServed:  date,
		Meal:        meal,
		DishName:    name,
		Section:     section,
		Description: cleanText(stripTags(str(item, "description"))),
		Tags:        bonAppTags(item),
	}, true
}

// bonAppStation cleans the raw station HTML into a section label.
func bonAppStation(item map[string]any) string {
	s := cleanText(stripTags(str(item, "station")))
	return strings.TrimPrefix(s, "@")
}

// bonAppTags unions the two icon representations seen on real payloads:
// cor_icon (id -> label, or an empty array when none) and ordered_cor_icon
// (id -> {label: ...}).
func bonAppTags(item map[string]any) []string {
	var out []string
	for _, v := range asMap(item["cor_icon"]) {
		if label := cleanText(anyStr(v)); label != "" {
			out = append(out, label)
		}
	}
	for _, v := range asMap(item["ordered_cor_icon"]) {
		if label := cleanText(str(asMap(v), "label")); label != "" {
			out = append(out, label)
		}
	}
	out = dedupStrings(out)
	sort.Strings(out)
	return out
}
