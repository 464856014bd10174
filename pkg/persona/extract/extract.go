// Package extract pulls goal and frustration phrases out of activity text
// and keeps a citation for every match.
package extract

import (
	"io"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cognicore/persona/pkg/persona/activity"
	"github.com/cognicore/persona/pkg/persona/taxonomy"
)

// PassName identifies this pass in diagnostics.
const PassName = "extract"

// CitationType says which claim a citation supports.
type CitationType string

const (
	Goal        CitationType = "goal"
	Frustration CitationType = "frustration"
)

// Citation links one extracted phrase to the record it came from.
type Citation struct {
	Type   CitationType `json:"type"`
	Text   string       `json:"text"`
	Source string       `json:"source"`
}

// Result is the outcome of one extraction pass. Goals and Frustrations are
// unique phrases in first-seen order; Citations has one entry per match, so a
// phrase repeated across records is cited once per record.
type Result struct {
	Goals        []string
	Frustrations []string
	Citations    []Citation
	Diagnostics  []activity.Diagnostic
}

type matcher struct {
	kind CitationType
	re   *regexp.Regexp
}

// Extractor runs a fixed set of phrase templates over records.
type Extractor struct {
	matchers []matcher
	minWords int
	log      logrus.FieldLogger
}

// New compiles the goal and frustration lead-ins. A nil logger discards.
func New(phrases taxonomy.Phrases, log logrus.FieldLogger) (*Extractor, error) {
	e := &Extractor{minWords: phrases.MinWords, log: log}
	if e.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		e.log = l
	}
	if e.minWords < 1 {
		e.minWords = 1
	}

	add := func(kind CitationType, leadIns []string) error {
		for _, p := range leadIns {
			re, err := taxonomy.CompilePhrase(strings.ToLower(p))
			if err != nil {
				return err
			}
			e.matchers = append(e.matchers, matcher{kind: kind, re: re})
		}
		return nil
	}
	if err := add(Goal, phrases.Goals); err != nil {
		return nil, err
	}
	if err := add(Frustration, phrases.Frustrations); err != nil {
		return nil, err
	}
	return e, nil
}

// Extract scans every record in order. Invalid records are skipped and
// reported in the result's diagnostics; they never abort the pass.
func (e *Extractor) Extract(records []activity.Record) Result {
	res := Result{
		Goals:        []string{},
		Frustrations: []string{},
		Citations:    []Citation{},
	}
	seen := map[CitationType]map[string]struct{}{
		Goal:        {},
		Frustration: {},
	}

	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			res.Diagnostics = append(res.Diagnostics, activity.Diagnostic{Pass: PassName, RecordID: rec.ID, Err: err})
			e.log.WithFields(logrus.Fields{"pass": PassName, "record_id": rec.ID}).Warnf("skipping record: %v", err)
			continue
		}

		text := strings.ToLower(rec.Content())
		for _, m := range e.matchers {
			for _, sub := range m.re.FindAllStringSubmatch(text, -1) {
				phrase := strings.TrimSpace(sub[1])
				if !e.accept(phrase) {
					continue
				}
				res.Citations = append(res.Citations, Citation{Type: m.kind, Text: phrase, Source: rec.SourceURL})
				if _, dup := seen[m.kind][phrase]; dup {
					continue
				}
				seen[m.kind][phrase] = struct{}{}
				if m.kind == Goal {
					res.Goals = append(res.Goals, phrase)
				} else {
					res.Frustrations = append(res.Frustrations, phrase)
				}
			}
		}
	}

	return res
}

// accept keeps non-empty phrases of at least minWords words.
func (e *Extractor) accept(phrase string) bool {
	return phrase != "" && len(strings.Fields(phrase)) >= e.minWords
}
