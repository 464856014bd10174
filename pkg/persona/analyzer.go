package persona

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/persona/pkg/persona/activity"
	"github.com/cognicore/persona/pkg/persona/behavior"
	"github.com/cognicore/persona/pkg/persona/extract"
	"github.com/cognicore/persona/pkg/persona/interest"
	"github.com/cognicore/persona/pkg/persona/normalize"
	"github.com/cognicore/persona/pkg/persona/personality"
	"github.com/cognicore/persona/pkg/persona/taxonomy"
)

// Options configures an Analyzer.
type Options struct {
	// Taxonomy drives every pass; nil uses taxonomy.Default().
	Taxonomy *taxonomy.Taxonomy
	Logger   logrus.FieldLogger
	// Now is the clock used for account age; nil uses time.Now.
	Now func() time.Time
	// NormalizeInput applies the text normalizer to record titles and
	// bodies before analysis. Leave it off when the records were
	// normalized at fetch time.
	NormalizeInput bool
	// Sequential runs the passes one after another instead of concurrently.
	Sequential bool
}

// Analyzer turns one account's activity snapshot into a Persona.
type Analyzer struct {
	tax         *taxonomy.Taxonomy
	log         logrus.FieldLogger
	now         func() time.Time
	normalize   bool
	sequential  bool
	interests   *interest.Classifier
	personality *personality.Scorer
	extractor   *extract.Extractor
	behavior    *behavior.Aggregator
}

// New validates the taxonomy and builds the analysis passes from it.
func New(opts Options) (*Analyzer, error) {
	tax := opts.Taxonomy
	if tax == nil {
		tax = taxonomy.Default()
	}
	if err := tax.Validate(); err != nil {
		return nil, fmt.Errorf("taxonomy: %w", err)
	}

	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	ex, err := extract.New(tax.Phrases, log)
	if err != nil {
		return nil, fmt.Errorf("phrase patterns: %w", err)
	}

	return &Analyzer{
		tax:         tax,
		log:         log,
		now:         now,
		normalize:   opts.NormalizeInput,
		sequential:  opts.Sequential,
		interests:   interest.New(tax.Interests, log),
		personality: personality.New(tax),
		extractor:   ex,
		behavior:    behavior.New(tax.Engagement, log),
	}, nil
}

// Taxonomy returns the tables the analyzer was built with.
func (a *Analyzer) Taxonomy() *taxonomy.Taxonomy {
	return a.tax
}

// Analyze runs the four passes over the snapshot and synthesizes a Persona.
// Missing account metadata fails the run; malformed records are left out of
// the passes that cannot use them and reported in Persona.Diagnostics.
func (a *Analyzer) Analyze(ctx context.Context, snap activity.Snapshot) (*Persona, error) {
	if err := snap.Account.Validate(); err != nil {
		return nil, err
	}

	records := snap.Records
	if a.normalize {
		records = normalizeRecords(records)
	}

	log := a.log.WithField("user", snap.Account.Username)
	log.WithField("records", len(records)).Debug("analyzing activity")

	var p Passes
	passes := []func(){
		func() { p.Interests = a.interests.Classify(records) },
		func() { p.Personality = a.personality.Score(records) },
		func() { p.Extraction = a.extractor.Extract(records) },
		func() { p.Behavior = a.behavior.Aggregate(records) },
	}

	if a.sequential {
		for _, run := range passes {
			run()
		}
	} else {
		g, _ := errgroup.WithContext(ctx)
		for _, run := range passes {
			run := run
			g.Go(func() error {
				run()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := Synthesize(snap.Account, a.now(), a.tax.Version, p)
	if n := len(out.Diagnostics); n > 0 {
		log.WithField("skipped", n).Warn("some records were left out of one or more passes")
	}
	log.WithFields(logrus.Fields{
		"citations": len(out.Citations),
		"traits":    len(out.Personality.Traits),
	}).Info("persona synthesized")

	return out, nil
}

func normalizeRecords(records []activity.Record) []activity.Record {
	out := make([]activity.Record, len(records))
	for i, r := range records {
		r.Title = normalize.Text(r.Title)
		r.Text = normalize.Text(r.Text)
		out[i] = r
	}
	return out
}
