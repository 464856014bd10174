// Package activity holds the normalized records an analysis run consumes.
package activity

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cognicore/persona/pkg/persona/internalerr"
)

// Kind distinguishes posts from comments.
type Kind string

const (
	KindPost    Kind = "post"
	KindComment Kind = "comment"
)

// Record is one post or comment after normalization.
//
// For posts Title and Text are the normalized title and selftext; for comments
// Title is empty and Text is the normalized body. Records are never mutated
// once built.
type Record struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
	Subreddit string    `json:"subreddit"`
	Score     int       `json:"score"`
	Title     string    `json:"title,omitempty"`
	Text      string    `json:"text"`
	SourceURL string    `json:"source_url"`
	IsSelf    bool      `json:"is_self,omitempty"`
}

// IsPost reports whether the record is a submission.
func (r Record) IsPost() bool { return r.Kind == KindPost }

// IsComment reports whether the record is a comment.
func (r Record) IsComment() bool { return r.Kind == KindComment }

// Content returns the text phrase extraction runs over: title and selftext
// joined by a single space for posts, the body for comments.
func (r Record) Content() string {
	if r.IsPost() {
		return r.Title + " " + r.Text
	}
	return r.Text
}

// Validate checks the fields every pass relies on.
func (r Record) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: id is required", internalerr.ErrInvalidRecord)
	}
	if r.Kind != KindPost && r.Kind != KindComment {
		return fmt.Errorf("%w: record %s has unknown kind %q", internalerr.ErrInvalidRecord, r.ID, r.Kind)
	}
	if strings.TrimSpace(r.SourceURL) == "" {
		return fmt.Errorf("%w: record %s has no source url", internalerr.ErrInvalidRecord, r.ID)
	}
	if !utf8.ValidString(r.Title) || !utf8.ValidString(r.Text) {
		return fmt.Errorf("%w: record %s has invalid utf-8 text", internalerr.ErrInvalidRecord, r.ID)
	}
	return nil
}

// Comments returns the comment records in input order.
func Comments(records []Record) []Record {
	return filter(records, KindComment)
}

// Posts returns the post records in input order.
func Posts(records []Record) []Record {
	return filter(records, KindPost)
}

func filter(records []Record, kind Kind) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}
