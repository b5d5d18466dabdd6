package collectors

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"insightiq/internal/collector"
	"insightiq/internal/domain"
)

const hackerNewsBaseURL = "https://hn.algolia.com/api/v1/search_by_date"

// HackerNews collects stories via the Algolia search API, emitting
// social-family rows. Needs no credentials.
type HackerNews struct {
	client      *collector.Client
	baseURL     string
	pages       int
	hitsPerPage int
}

// NewHackerNews wires the shared HTTP client; non-positive paging values
// fall back to 2 pages of 100 hits.
func NewHackerNews(client *collector.Client, pages, hitsPerPage int) *HackerNews {
	if pages <= 0 {
		pages = 2
	}
	if hitsPerPage <= 0 {
		hitsPerPage = 100
	}
	return &HackerNews{
		client:      client,
		baseURL:     hackerNewsBaseURL,
		pages:       pages,
		hitsPerPage: hitsPerPage,
	}
}

// Name identifies the adapter inside the registry.
func (h *HackerNews) Name() string {
	return "hackernews"
}

// Collect walks the paged story search newest-first.
func (h *HackerNews) Collect(ctx context.Context, req collector.Request) ([]collector.Row, error) {
	var rows []collector.Row

	for page := 0; page < h.pages; page++ {
		params := url.Values{}
		params.Set("query", req.Query)
		params.Set("tags", "story")
		params.Set("hitsPerPage", strconv.Itoa(h.hitsPerPage))
		params.Set("page", strconv.Itoa(page))

		var payload struct {
			Hits []map[string]any `json:"hits"`
		}
		if err := h.client.GetJSON(ctx, h.baseURL, params, nil, &payload); err != nil {
			// Earlier pages already collected are still worth keeping.
			if len(rows) > 0 {
				return rows, nil
			}
			return nil, err
		}

		for _, hit := range payload.Hits {
			if asTrimmedString(hit["url"]) == "" {
				hit["url"] = fmt.Sprintf("https://news.ycombinator.com/item?id=%s",
					asTrimmedString(hit["objectID"]))
			}
			rows = append(rows, collector.Row{
				Source: domain.SourceHackerNews,
				Family: collector.FamilySocial,
				Fields: hit,
			})
		}

		if len(payload.Hits) < h.hitsPerPage {
			break
		}
	}

	return rows, nil
}
