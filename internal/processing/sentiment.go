package processing

import (
	"strings"

	"github.com/jonreiter/govader"

	"insightiq/internal/domain"
)

// Annotator assigns a polarity score and label to each record using the
// VADER lexicon. A score already provided by the source is used
// unchanged; scoring never fails past this stage, empty or unscorable
// text defaults to neutral.
type Annotator struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewAnnotator builds the lexicon analyzer once; it is reused across
// records and runs.
func NewAnnotator() *Annotator {
	return &Annotator{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Annotate returns the record with sentiment fields set. The outcome is
// Defaulted when no score could be computed and neutral was assumed.
func (a *Annotator) Annotate(rec domain.Record) (domain.Record, Outcome) {
	score, outcome := a.score(rec)
	rec.SentimentScore = clamp(score, -1, 1)
	rec.Sentiment = domain.LabelFor(rec.SentimentScore)
	return rec, outcome
}

func (a *Annotator) score(rec domain.Record) (float64, Outcome) {
	if rec.UpstreamSentiment != nil {
		return *rec.UpstreamSentiment, OutcomeComputed
	}

	text := strings.TrimSpace(rec.Clean)
	if text == "" {
		text = strings.TrimSpace(rec.Title + " " + rec.Text)
	}
	if text == "" {
		return 0, OutcomeDefaulted
	}

	compound, ok := a.compound(text)
	if !ok {
		return 0, OutcomeDefaulted
	}
	return compound, OutcomeComputed
}

// compound isolates the lexicon analyzer; a panic inside it must not
// propagate past the annotation stage.
func (a *Annotator) compound(text string) (score float64, ok bool) {
	defer func() {
		if recover() != nil {
			score, ok = 0, false
		}
	}()
	return a.analyzer.PolarityScores(text).Compound, true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
