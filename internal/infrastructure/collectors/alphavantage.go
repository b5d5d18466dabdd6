package collectors

import (
	"context"
	"fmt"
	"net/url"

	"insightiq/internal/collector"
	"insightiq/internal/domain"
)

const alphaVantageBaseURL = "https://www.alphavantage.co/query"

// AlphaVantage collects articles from the NEWS_SENTIMENT endpoint. Rows
// carry the feed's pre-computed overall_sentiment_score, which the
// annotator passes through instead of rescoring.
type AlphaVantage struct {
	apiKey  string
	topics  string
	client  *collector.Client
	baseURL string
}

// NewAlphaVantage wires the API key and topic filter.
func NewAlphaVantage(apiKey, topics string, client *collector.Client) *AlphaVantage {
	if topics == "" {
		topics = "technology"
	}
	return &AlphaVantage{
		apiKey:  apiKey,
		topics:  topics,
		client:  client,
		baseURL: alphaVantageBaseURL,
	}
}

// Name identifies the adapter inside the registry.
func (a *AlphaVantage) Name() string {
	return "alphavantage"
}

// Collect fetches the latest scored articles for the configured topics.
func (a *AlphaVantage) Collect(ctx context.Context, req collector.Request) ([]collector.Row, error) {
	if a.apiKey == "" {
		return nil, fmt.Errorf("alpha vantage api key not set")
	}

	params := url.Values{}
	params.Set("function", "NEWS_SENTIMENT")
	params.Set("topics", a.topics)
	params.Set("apikey", a.apiKey)
	params.Set("limit", "200")
	params.Set("sort", "LATEST")

	var payload struct {
		Feed []map[string]any `json:"feed"`
		Note string           `json:"Note"`
	}
	if err := a.client.GetJSON(ctx, a.baseURL, params, nil, &payload); err != nil {
		return nil, err
	}
	if len(payload.Feed) == 0 && payload.Note != "" {
		return nil, fmt.Errorf("alpha vantage returned no feed: %s", payload.Note)
	}

	rows := make([]collector.Row, 0, len(payload.Feed))
	for _, item := range payload.Feed {
		rows = append(rows, collector.Row{
			Source: domain.SourceAlphaVantage,
			Family: collector.FamilyNews,
			Fields: item,
		})
	}
	return rows, nil
}
