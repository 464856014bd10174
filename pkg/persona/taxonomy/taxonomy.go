// Package taxonomy holds the lexical tables every analysis pass is driven by:
// interest categories, trait indicators, sentiment words, engagement markers
// and the goal/frustration phrase templates. Tables are plain data so they
// can be versioned in YAML and swapped in tests.
package taxonomy

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/persona/pkg/persona/internalerr"
)

// Taxonomy is the complete set of tables for one analysis run.
type Taxonomy struct {
	Version    string     `yaml:"version"`
	Interests  Interests  `yaml:"interests"`
	Traits     []Group    `yaml:"traits"`
	Sentiment  Sentiment  `yaml:"sentiment"`
	Style      Style      `yaml:"style"`
	Engagement Engagement `yaml:"engagement"`
	Phrases    Phrases    `yaml:"phrases"`
}

// Group is a named keyword list. Order inside a table matters wherever
// the first match wins.
type Group struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Interests configures the subreddit classifier.
type Interests struct {
	Top        int     `yaml:"top"`
	Fallback   string  `yaml:"fallback"`
	Categories []Group `yaml:"categories"`
}

// Sentiment configures the coarse sentiment label. A label is assigned only
// when one side's word count exceeds the other's by more than Margin.
type Sentiment struct {
	Positive []string `yaml:"positive"`
	Negative []string `yaml:"negative"`
	Margin   int      `yaml:"margin"`
}

// Style buckets mean comment length, in characters, into a label.
type Style struct {
	DetailedAbove int `yaml:"detailed_above"`
	BalancedAbove int `yaml:"balanced_above"`
}

// Engagement holds the per-comment markers of the behavior pass.
type Engagement struct {
	Question    string   `yaml:"question"`
	Opinion     []string `yaml:"opinion"`
	Information []string `yaml:"information"`
	Humor       []string `yaml:"humor"`
	Debate      []string `yaml:"debate"`
	TopHours    int      `yaml:"top_hours"`
}

// Phrases are the lead-ins that introduce a goal or frustration. The phrase
// itself runs from after the lead-in to the next '.', '?' or end of text.
type Phrases struct {
	Goals        []string `yaml:"goals"`
	Frustrations []string `yaml:"frustrations"`
	MinWords     int      `yaml:"min_words"`
}

// Load reads a taxonomy from a YAML file and validates it.
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and validates a YAML taxonomy. Sections omitted from the
// document keep the built-in defaults.
func Parse(data []byte) (*Taxonomy, error) {
	tax := Default()
	if err := yaml.Unmarshal(data, tax); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	tax.normalize()
	if err := tax.Validate(); err != nil {
		return nil, err
	}
	return tax, nil
}

// normalize lowercases every keyword; all matching runs on lowercased text.
func (t *Taxonomy) normalize() {
	lowerGroups(t.Interests.Categories)
	lowerGroups(t.Traits)
	lowerAll(t.Sentiment.Positive)
	lowerAll(t.Sentiment.Negative)
	lowerAll(t.Engagement.Opinion)
	lowerAll(t.Engagement.Information)
	lowerAll(t.Engagement.Humor)
	lowerAll(t.Engagement.Debate)
	lowerAll(t.Phrases.Goals)
	lowerAll(t.Phrases.Frustrations)
}

func lowerGroups(groups []Group) {
	for i := range groups {
		groups[i].Name = strings.ToLower(strings.TrimSpace(groups[i].Name))
		lowerAll(groups[i].Keywords)
	}
}

func lowerAll(words []string) {
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
}

// Validate rejects tables the analysis passes cannot run with.
func (t *Taxonomy) Validate() error {
	if err := validateGroups("interest category", t.Interests.Categories); err != nil {
		return err
	}
	if err := validateGroups("trait", t.Traits); err != nil {
		return err
	}
	if t.Interests.Top <= 0 {
		return invalid("interests.top must be > 0 (got %d)", t.Interests.Top)
	}
	if strings.TrimSpace(t.Interests.Fallback) == "" {
		return invalid("interests.fallback is required")
	}
	for _, c := range t.Interests.Categories {
		if c.Name == t.Interests.Fallback {
			return invalid("interest category %q shadows the fallback bucket", c.Name)
		}
	}
	if t.Sentiment.Margin < 0 {
		return invalid("sentiment.margin must be >= 0 (got %d)", t.Sentiment.Margin)
	}
	if t.Style.BalancedAbove < 0 || t.Style.DetailedAbove < t.Style.BalancedAbove {
		return invalid("style thresholds must satisfy 0 <= balanced_above <= detailed_above")
	}
	if t.Engagement.Question == "" {
		return invalid("engagement.question marker is required")
	}
	if t.Engagement.TopHours <= 0 {
		return invalid("engagement.top_hours must be > 0 (got %d)", t.Engagement.TopHours)
	}
	if t.Phrases.MinWords < 1 {
		return invalid("phrases.min_words must be >= 1 (got %d)", t.Phrases.MinWords)
	}
	for _, p := range append(append([]string{}, t.Phrases.Goals...), t.Phrases.Frustrations...) {
		if strings.TrimSpace(p) == "" {
			return invalid("empty phrase lead-in")
		}
		if _, err := CompilePhrase(p); err != nil {
			return invalid("phrase %q: %v", p, err)
		}
	}
	return nil
}

func validateGroups(kind string, groups []Group) error {
	seen := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		if g.Name == "" {
			return invalid("%s with empty name", kind)
		}
		if _, dup := seen[g.Name]; dup {
			return invalid("duplicate %s %q", kind, g.Name)
		}
		seen[g.Name] = struct{}{}
		if len(g.Keywords) == 0 {
			return invalid("%s %q has no keywords", kind, g.Name)
		}
		for _, kw := range g.Keywords {
			if kw == "" {
				return invalid("%s %q has an empty keyword", kind, g.Name)
			}
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", internalerr.ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// CompilePhrase builds the matcher for one lead-in. Submatch 1 is the phrase.
func CompilePhrase(leadIn string) (*regexp.Regexp, error) {
	return regexp.Compile(regexp.QuoteMeta(leadIn) + ` (.*?)(?:\.|\?|$)`)
}

// Marshal renders the taxonomy as YAML.
func (t *Taxonomy) Marshal() ([]byte, error) {
	return yaml.Marshal(t)
}
