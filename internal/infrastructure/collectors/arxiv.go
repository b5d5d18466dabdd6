package collectors

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"insightiq/internal/collector"
	"insightiq/internal/domain"
)

const (
	arxivBaseURL  = "https://arxiv.org"
	arxivPageSize = 200
)

var arxivDateExpr = regexp.MustCompile(`\d{1,2} [A-Za-z]{3} \d{4}`)

// ArxivCategory is one listing endpoint to scrape.
type ArxivCategory struct {
	Name string
	URL  string
}

// Arxiv scrapes category listing pages for recent papers, emitting
// news-family rows. The research feed has no query parameter; relevance
// is left to the downstream keyword filter.
type Arxiv struct {
	client     *collector.Client
	categories []ArxivCategory
	pageSize   int
}

// NewArxiv wires the shared HTTP client with the configured category
// listings.
func NewArxiv(client *collector.Client, categories []ArxivCategory) *Arxiv {
	return &Arxiv{
		client:     client,
		categories: categories,
		pageSize:   arxivPageSize,
	}
}

// Name identifies the adapter inside the registry.
func (a *Arxiv) Name() string {
	return "arxiv"
}

// Collect walks each category listing and keeps entries published inside
// the lookback window.
func (a *Arxiv) Collect(ctx context.Context, req collector.Request) ([]collector.Row, error) {
	if len(a.categories) == 0 {
		return nil, fmt.Errorf("no arxiv categories configured")
	}

	from := req.From().UTC().Truncate(24 * time.Hour)
	var rows []collector.Row
	seen := map[string]struct{}{}

	for _, cat := range a.categories {
		doc, err := a.fetchListing(ctx, cat.URL)
		if err != nil {
			// One broken category should not discard the others.
			if len(rows) > 0 {
				continue
			}
			return nil, fmt.Errorf("category %s: %w", cat.Name, err)
		}

		doc.Find("dl > dt").Each(func(_ int, dt *goquery.Selection) {
			entry, ok := parseListingEntry(dt, dt.Next())
			if !ok {
				return
			}
			if entry.published.Before(from) {
				return
			}
			if _, dup := seen[entry.url]; dup {
				return
			}
			seen[entry.url] = struct{}{}

			rows = append(rows, collector.Row{
				Source: domain.SourceArxiv,
				Family: collector.FamilyNews,
				Fields: map[string]any{
					"title":        entry.title,
					"summary":      entry.summary,
					"url":          entry.url,
					"published_at": entry.published,
					"category":     cat.Name,
				},
			})
		})
	}

	return rows, nil
}

func (a *Arxiv) fetchListing(ctx context.Context, listingURL string) (*goquery.Document, error) {
	params := url.Values{}
	params.Set("show", fmt.Sprint(a.pageSize))

	resp, err := a.client.Do(ctx, listingURL, params, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse listing: %w", err)
	}
	return doc, nil
}

type arxivEntry struct {
	title     string
	summary   string
	url       string
	published time.Time
}

func parseListingEntry(dt, dd *goquery.Selection) (arxivEntry, bool) {
	link := dt.Find(`a[href*="/abs/"]`).First()
	href, _ := link.Attr("href")
	if href == "" {
		return arxivEntry{}, false
	}
	if !strings.HasPrefix(href, "http") {
		href = arxivBaseURL + href
	}

	title := strings.TrimSpace(dd.Find(".list-title").First().Text())
	title = strings.TrimSpace(strings.TrimPrefix(title, "Title:"))

	summary := dd.Find("p.mathjax").First().Text()
	summary = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(summary), "Abstract:"))

	dateText := strings.TrimSpace(dd.Find(".list-date").First().Text())
	if dateText == "" {
		dateText = strings.TrimSpace(dd.Find(".list-dateline").First().Text())
	}

	published := time.Now().UTC()
	if match := arxivDateExpr.FindString(dateText); match != "" {
		if parsed, err := time.Parse("2 Jan 2006", match); err == nil {
			published = parsed.UTC()
		}
	}

	return arxivEntry{
		title:     title,
		summary:   summary,
		url:       href,
		published: published,
	}, true
}
