package processing

import (
	"regexp"
	"strings"

	"insightiq/internal/domain"
)

var (
	urlExpr        = regexp.MustCompile(`http\S+`)
	whitespaceExpr = regexp.MustCompile(`\s+`)
)

// CleanRecords strips embedded URLs from titles and bodies, collapses
// whitespace, and builds the combined clean column used by filtering,
// sentiment scoring, and the persisted table.
func CleanRecords(records []domain.Record) []domain.Record {
	for i := range records {
		records[i].Title = cleanText(records[i].Title)
		records[i].Text = cleanText(records[i].Text)
		records[i].Clean = records[i].Title + ". " + records[i].Text
	}
	return records
}

func cleanText(s string) string {
	s = urlExpr.ReplaceAllString(s, "")
	return strings.TrimSpace(whitespaceExpr.ReplaceAllString(s, " "))
}
