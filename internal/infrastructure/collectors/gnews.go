package collectors

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"insightiq/internal/collector"
	"insightiq/internal/domain"
)

const gnewsBaseURL = "https://gnews.io/api/v4/search"

// GNews collects articles from the GNews search API, emitting news-family
// rows.
type GNews struct {
	apiKey     string
	client     *collector.Client
	baseURL    string
	maxResults int
}

// NewGNews wires the API key and shared HTTP client.
func NewGNews(apiKey string, client *collector.Client) *GNews {
	return &GNews{
		apiKey:     apiKey,
		client:     client,
		baseURL:    gnewsBaseURL,
		maxResults: 100,
	}
}

// Name identifies the adapter inside the registry.
func (g *GNews) Name() string {
	return "gnews"
}

// Collect queries the search endpoint over the lookback window.
func (g *GNews) Collect(ctx context.Context, req collector.Request) ([]collector.Row, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("gnews api key not set")
	}

	params := url.Values{}
	params.Set("q", req.Query)
	params.Set("lang", "en")
	params.Set("max", strconv.Itoa(g.maxResults))
	params.Set("apikey", g.apiKey)
	params.Set("from", req.From().UTC().Format("2006-01-02"))

	var payload struct {
		Articles []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			URL         string `json:"url"`
			PublishedAt string `json:"publishedAt"`
			Source      struct {
				Name string `json:"name"`
			} `json:"source"`
		} `json:"articles"`
	}

	if err := g.client.GetJSON(ctx, g.baseURL, params, nil, &payload); err != nil {
		return nil, err
	}

	rows := make([]collector.Row, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		rows = append(rows, collector.Row{
			Source: domain.SourceGNews,
			Family: collector.FamilyNews,
			Fields: map[string]any{
				"title":        a.Title,
				"description":  a.Description,
				"url":          a.URL,
				"author":       a.Source.Name,
				"published_at": a.PublishedAt,
			},
		})
	}
	return rows, nil
}
