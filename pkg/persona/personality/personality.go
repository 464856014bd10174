// Package personality scores trait tags, communication style and coarse
// sentiment from lexical signals across an account's whole corpus.
package personality

import (
	"strings"
	"unicode/utf8"

	"github.com/cognicore/persona/pkg/persona/activity"
	"github.com/cognicore/persona/pkg/persona/taxonomy"
)

// Communication style labels.
const (
	StyleDetailed = "detailed/verbose"
	StyleBalanced = "balanced"
	StyleConcise  = "concise"
)

// Sentiment labels.
const (
	Positive = "positive"
	Negative = "negative"
	Neutral  = "neutral"
)

// Profile is the scorer output.
type Profile struct {
	// Traits is a set; order follows the trait table.
	Traits             []string `json:"traits"`
	CommunicationStyle string   `json:"communication_style"`
	Sentiment          string   `json:"sentiment"`
}

// Has reports whether trait was detected.
func (p Profile) Has(trait string) bool {
	for _, t := range p.Traits {
		if t == trait {
			return true
		}
	}
	return false
}

// Scorer holds the trait, sentiment and style tables.
type Scorer struct {
	traits    []taxonomy.Group
	sentiment taxonomy.Sentiment
	style     taxonomy.Style
}

// New creates a scorer from taxonomy tables.
func New(tax *taxonomy.Taxonomy) *Scorer {
	return &Scorer{
		traits:    tax.Traits,
		sentiment: tax.Sentiment,
		style:     tax.Style,
	}
}

// Score analyzes all records. Traits and sentiment look at the combined,
// lowercased comment bodies and post selftexts; style looks at comments only.
func (s *Scorer) Score(records []activity.Record) Profile {
	corpus := Corpus(records)

	prof := Profile{Traits: []string{}}
	for _, g := range s.traits {
		if containsAny(corpus, g.Keywords) {
			prof.Traits = append(prof.Traits, g.Name)
		}
	}

	prof.CommunicationStyle = s.Style(MeanCommentLength(records))
	prof.Sentiment = s.Sentiment(countPresent(corpus, s.sentiment.Positive), countPresent(corpus, s.sentiment.Negative))
	return prof
}

// Corpus joins comment bodies and post selftexts, comments first, with
// single spaces and lowercases the result.
func Corpus(records []activity.Record) string {
	parts := make([]string, 0, len(records))
	for _, r := range activity.Comments(records) {
		parts = append(parts, r.Text)
	}
	for _, r := range activity.Posts(records) {
		parts = append(parts, r.Text)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// MeanCommentLength is the mean comment length in characters; zero when
// there are no comments.
func MeanCommentLength(records []activity.Record) float64 {
	comments := activity.Comments(records)
	if len(comments) == 0 {
		return 0
	}
	total := 0
	for _, c := range comments {
		total += utf8.RuneCountInString(c.Text)
	}
	return float64(total) / float64(len(comments))
}

// Style buckets a mean comment length. Both thresholds are exclusive.
func (s *Scorer) Style(mean float64) string {
	switch {
	case mean > float64(s.style.DetailedAbove):
		return StyleDetailed
	case mean > float64(s.style.BalancedAbove):
		return StyleBalanced
	default:
		return StyleConcise
	}
}

// Sentiment labels positive and negative word counts; one side has to lead
// by more than the margin.
func (s *Scorer) Sentiment(pos, neg int) string {
	switch {
	case pos > neg+s.sentiment.Margin:
		return Positive
	case neg > pos+s.sentiment.Margin:
		return Negative
	default:
		return Neutral
	}
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// countPresent counts listed words that occur at least once.
func countPresent(text string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}
