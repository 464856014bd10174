// Package interest ranks the communities an account is active in and files
// the top ones under a fixed, ordered set of interest categories.
package interest

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cognicore/persona/pkg/persona/activity"
	"github.com/cognicore/persona/pkg/persona/internalerr"
	"github.com/cognicore/persona/pkg/persona/taxonomy"
)

// PassName identifies this pass in diagnostics.
const PassName = "interest"

// Category is one bucket of the profile, in table order.
type Category struct {
	Name        string   `json:"name"`
	Communities []string `json:"communities"`
}

// Profile is the classifier output.
type Profile struct {
	// TopCommunities is ordered by descending mention count; equal counts
	// keep first-seen order.
	TopCommunities []string `json:"top_communities"`
	// Categories lists only non-empty buckets, in table order with the
	// fallback bucket last.
	Categories  []Category            `json:"categories"`
	Diagnostics []activity.Diagnostic `json:"-"`
}

// Lookup returns the communities filed under name.
func (p Profile) Lookup(name string) []string {
	for _, c := range p.Categories {
		if c.Name == name {
			return c.Communities
		}
	}
	return nil
}

// Classifier maps communities onto an ordered category table.
type Classifier struct {
	top        int
	fallback   string
	categories []taxonomy.Group
	log        logrus.FieldLogger
}

// New creates a classifier from the interests section of a taxonomy.
func New(cfg taxonomy.Interests, log logrus.FieldLogger) *Classifier {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Classifier{
		top:        cfg.Top,
		fallback:   cfg.Fallback,
		categories: cfg.Categories,
		log:        log,
	}
}

type communityCount struct {
	name  string
	count int
}

// Classify counts mentions per community over every record and categorizes
// the top communities.
func (c *Classifier) Classify(records []activity.Record) Profile {
	prof := Profile{TopCommunities: []string{}, Categories: []Category{}}

	index := make(map[string]int)
	var counts []communityCount
	for _, rec := range records {
		name := strings.ToLower(strings.TrimSpace(rec.Subreddit))
		if name == "" {
			err := fmt.Errorf("%w: record %s has no subreddit", internalerr.ErrInvalidRecord, rec.ID)
			prof.Diagnostics = append(prof.Diagnostics, activity.Diagnostic{Pass: PassName, RecordID: rec.ID, Err: err})
			c.log.WithFields(logrus.Fields{"pass": PassName, "record_id": rec.ID}).Warn("skipping record without subreddit")
			continue
		}
		if i, ok := index[name]; ok {
			counts[i].count++
			continue
		}
		index[name] = len(counts)
		counts = append(counts, communityCount{name: name, count: 1})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].count > counts[j].count
	})
	if len(counts) > c.top {
		counts = counts[:c.top]
	}

	buckets := make(map[string][]string)
	for _, cc := range counts {
		prof.TopCommunities = append(prof.TopCommunities, cc.name)
		cat := c.Categorize(cc.name)
		buckets[cat] = append(buckets[cat], cc.name)
	}

	for _, g := range c.categories {
		if subs, ok := buckets[g.Name]; ok {
			prof.Categories = append(prof.Categories, Category{Name: g.Name, Communities: subs})
		}
	}
	if subs, ok := buckets[c.fallback]; ok {
		prof.Categories = append(prof.Categories, Category{Name: c.fallback, Communities: subs})
	}

	return prof
}

// Categorize returns the first category with a keyword contained in the
// community name, or the fallback bucket.
func (c *Classifier) Categorize(community string) string {
	community = strings.ToLower(community)
	for _, g := range c.categories {
		for _, kw := range g.Keywords {
			if strings.Contains(community, kw) {
				return g.Name
			}
		}
	}
	return c.fallback
}
