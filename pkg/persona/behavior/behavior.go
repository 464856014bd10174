// Package behavior aggregates activity volume, content types, engagement
// style and active hours.
package behavior

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
const PassName = "behavior"

// PostTypes splits posts into self (text) and link submissions.
type PostTypes struct {
	Text int `json:"text"`
	Link int `json:"link"`
}

// Engagement counts comments per engagement pattern. A comment may count
// toward several patterns.
type Engagement struct {
	Questions          int `json:"questions"`
	Opinions           int `json:"opinions"`
	InformationSharing int `json:"information_sharing"`
	Humor              int `json:"humor"`
	Debate             int `json:"debate"`
}

// Profile is the aggregator output.
type Profile struct {
	PostFrequency    int                   `json:"post_frequency"`
	CommentFrequency int                   `json:"comment_frequency"`
	PostTypes        PostTypes             `json:"post_types"`
	Engagement       Engagement            `json:"engagement_patterns"`
	TopActiveTimes   []string              `json:"top_active_times"`
	Diagnostics      []activity.Diagnostic `json:"-"`
}

// Aggregator computes behavior profiles.
type Aggregator struct {
	markers taxonomy.Engagement
	log     logrus.FieldLogger
}

// New creates an aggregator from the engagement table.
func New(markers taxonomy.Engagement, log logrus.FieldLogger) *Aggregator {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Aggregator{markers: markers, log: log}
}

// Aggregate builds the behavior profile of a record set.
func (a *Aggregator) Aggregate(records []activity.Record) Profile {
	posts := activity.Posts(records)
	comments := activity.Comments(records)

	prof := Profile{
		PostFrequency:    len(posts),
		CommentFrequency: len(comments),
		TopActiveTimes:   []string{},
	}

	for _, p := range posts {
		if p.IsSelf {
			prof.PostTypes.Text++
		} else {
			prof.PostTypes.Link++
		}
	}

	hours := newHourCounter()
	for _, c := range comments {
		a.classify(strings.ToLower(c.Text), &prof.Engagement)

		if c.CreatedAt.IsZero() {
			err := fmt.Errorf("%w: comment %s has no timestamp", internalerr.ErrInvalidRecord, c.ID)
			prof.Diagnostics = append(prof.Diagnostics, activity.Diagnostic{Pass: PassName, RecordID: c.ID, Err: err})
			a.log.WithFields(logrus.Fields{"pass": PassName, "record_id": c.ID}).Warn("comment without timestamp left out of active hours")
			continue
		}
		hours.add(c.CreatedAt.UTC().Hour())
	}
	prof.TopActiveTimes = hours.top(a.markers.TopHours)

	return prof
}

func (a *Aggregator) classify(text string, e *Engagement) {
	if strings.Contains(text, a.markers.Question) {
		e.Questions++
	}
	if containsAny(text, a.markers.Opinion) {
		e.Opinions++
	}
	if containsAny(text, a.markers.Information) {
		e.InformationSharing++
	}
	if containsAny(text, a.markers.Humor) {
		e.Humor++
	}
	if containsAny(text, a.markers.Debate) {
		e.Debate++
	}
}

func containsAny(text string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// HourLabel formats an hour-of-day bucket, e.g. "5:00-6:00 UTC".
func HourLabel(hour int) string {
	return fmt.Sprintf("%d:00-%d:00 UTC", hour, hour+1)
}

// hourCounter counts hour buckets, remembering first-seen order.
type hourCounter struct {
	order  []int
	counts map[int]int
}

func newHourCounter() *hourCounter {
	return &hourCounter{counts: make(map[int]int)}
}

func (h *hourCounter) add(hour int) {
	if _, ok := h.counts[hour]; !ok {
		h.order = append(h.order, hour)
	}
	h.counts[hour]++
}

// top returns up to n non-empty bucket labels by descending count; equal
// counts keep first-seen order.
func (h *hourCounter) top(n int) []string {
	hours := append([]int(nil), h.order...)
	sort.SliceStable(hours, func(i, j int) bool {
		return h.counts[hours[i]] > h.counts[hours[j]]
	})
	if len(hours) > n {
		hours = hours[:n]
	}
	labels := make([]string, 0, len(hours))
	for _, hr := range hours {
		labels = append(labels, HourLabel(hr))
	}
	return labels
}
