package scraper

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Fetcher wraps the outbound HTTP client used for all upstream sources.
type Fetcher struct {
	client *resty.Client
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		client: resty.New().
			SetTimeout(20 * time.Second).
			SetHeader("User-Agent", "Mozilla/5.0 (compatible; dininghub-scraper/1.0)"),
	}
}

// GetText fetches a URL and returns its body. Every request carries a
// `_<millis>=` query parameter so upstream caches never serve content from a
// previous scheduled run.
func (f *Fetcher) GetText(ctx context.Context, url string) (string, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParam(fmt.Sprintf("_%d", time.Now().UnixMilli()), "").
		Get(url)
	if err != nil {
		return "", fmt.Errorf("get %s: %w", url, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("get %s: status %d", url, resp.StatusCode())
	}
	return resp.String(), nil
}

// dayWindow returns ISO dates for today through today+days inclusive.
func dayWindow(days int) []string {
	out := make([]string, 0, days+1)
	now := time.Now()
	for i := 0; i <= days; i++ {
		out = append(out, now.AddDate(0, 0, i).Format("2006-01-02"))
	}
	return out
}
