package scraper

import (
	"context"
	"fmt"
	"log"

	"dininghub/internal/store"
	"dininghub/pkg/models"
)

// Summary is the run report returned by the trigger endpoint: per-hall row
// counts for halls that completed, per-hall error strings for halls that
// did not.
type Summary struct {
	OK      bool              `json:"ok"`
	Results map[string]int    `json:"results"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// Runner drives the pipeline: fetch -> normalize -> dedup -> persist for
// each configured hall, sequentially.
type Runner struct {
	Store store.Store
	Fetch *Fetcher
	Halls []HallConfig
}

func NewRunner(st store.Store, halls []HallConfig) *Runner {
	return &Runner{Store: st, Fetch: NewFetcher(), Halls: halls}
}

// Run processes every hall in configuration order. One hall's failure is
// logged and recorded in the summary; it never aborts the rest of the run.
// A failed hall's previously persisted data is left as last written.
func (r *Runner) Run(ctx context.Context) Summary {
	sum := Summary{OK: true, Results: map[string]int{}, Errors: map[string]string{}}
	for _, hall := range r.Halls {
		n, err := r.runHall(ctx, hall)
		if err != nil {
			log.Printf("[scraper] hall %s failed: %v", hall.Key, err)
			sum.Errors[hall.Key] = err.Error()
			continue
		}
		sum.Results[hall.Key] = n
	}
	return sum
}

// runHall writes nothing until the hall's whole fetch/normalize phase has
// succeeded, so a hall either gets its full upsert sequence or none of it.
func (r *Runner) runHall(ctx context.Context, hall HallConfig) (int, error) {
	log.Printf("[scraper] scraping %s (%s)", hall.Key, hall.Source)

	rows, err := r.scrape(ctx, hall)
	if err != nil {
		return 0, err
	}
	rows = uniqBy(rows, dedupKey)
	log.Printf("[scraper] %s: %d unique rows", hall.Key, len(rows))

	hallID, err := r.Store.UpsertHall(ctx, models.Hall{Name: hall.Name, Campus: hall.Campus})
	if err != nil {
		return 0, err
	}

	dishIDs, err := r.Store.UpsertDishes(ctx, hallID, mergeDishes(rows))
	if err != nil {
		return 0, err
	}

	return r.Store.UpsertMenuItems(ctx, buildMenuItems(hallID, dishIDs, rows))
}

func (r *Runner) scrape(ctx context.Context, hall HallConfig) ([]models.MenuRow, error) {
	switch hall.Source {
	case SourcePomona:
		body, err := r.Fetch.GetText(ctx, hall.URL)
		if err != nil {
			return nil, err
		}
		// the feed body is sometimes wrapped in extra text around the JSON
		literal, ok := ExtractJSONObjectLiteral(body, "")
		if !ok {
			return nil, fmt.Errorf("pomona feed: no JSON object in body")
		}
		doc, ok := parseJSONish(literal)
		if !ok {
			return nil, fmt.Errorf("pomona feed: body did not parse")
		}
		return NormalizePomona(doc), nil
	case SourceSodexo:
		return ScrapeSodexo(ctx, r.Fetch, hall.URL), nil
	case SourceBonAppetit:
		return ScrapeBonAppetit(ctx, r.Fetch, hall.URL), nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", hall.Source)
	}
}
