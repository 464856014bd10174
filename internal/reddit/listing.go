package reddit

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cognicore/persona/pkg/persona/activity"
	"github.com/cognicore/persona/pkg/persona/normalize"
)

const permalinkHost = "https://reddit.com"

// errMalformed marks a listing child that cannot become a record.
var errMalformed = errors.New("malformed listing item")

type aboutData struct {
	Name         string  `json:"name"`
	CreatedUTC   float64 `json:"created_utc"`
	CommentKarma int     `json:"comment_karma"`
	LinkKarma    int     `json:"link_karma"`
	IsMod        bool    `json:"is_mod"`
	IsGold       bool    `json:"is_gold"`
}

func (a aboutData) account() activity.Account {
	return activity.Account{
		Username:     a.Name,
		CreatedAt:    unixTime(a.CreatedUTC),
		CommentKarma: a.CommentKarma,
		LinkKarma:    a.LinkKarma,
		IsMod:        a.IsMod,
		IsGold:       a.IsGold,
	}
}

type listingPage struct {
	Data struct {
		After    string `json:"after"`
		Children []struct {
			Kind string          `json:"kind"`
			Data json.RawMessage `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type commentData struct {
	ID         string  `json:"id"`
	CreatedUTC float64 `json:"created_utc"`
	Subreddit  string  `json:"subreddit"`
	Score      int     `json:"score"`
	Body       string  `json:"body"`
	BodyHTML   string  `json:"body_html"`
	Permalink  string  `json:"permalink"`
}

type postData struct {
	ID           string  `json:"id"`
	CreatedUTC   float64 `json:"created_utc"`
	Subreddit    string  `json:"subreddit"`
	Score        int     `json:"score"`
	Title        string  `json:"title"`
	Selftext     string  `json:"selftext"`
	SelftextHTML string  `json:"selftext_html"`
	Permalink    string  `json:"permalink"`
	IsSelf       bool    `json:"is_self"`
}

func commentRecord(raw json.RawMessage) (activity.Record, error) {
	var d commentData
	if err := json.Unmarshal(raw, &d); err != nil {
		return activity.Record{}, fmt.Errorf("%w: %v", errMalformed, err)
	}
	rec := activity.Record{
		ID:        d.ID,
		Kind:      activity.KindComment,
		CreatedAt: unixTime(d.CreatedUTC),
		Subreddit: strings.ToLower(d.Subreddit),
		Score:     d.Score,
		Text:      bodyText(d.Body, d.BodyHTML),
		SourceURL: permalink(d.Permalink),
	}
	return rec, check(rec)
}

func postRecord(raw json.RawMessage) (activity.Record, error) {
	var d postData
	if err := json.Unmarshal(raw, &d); err != nil {
		return activity.Record{}, fmt.Errorf("%w: %v", errMalformed, err)
	}
	rec := activity.Record{
		ID:        d.ID,
		Kind:      activity.KindPost,
		CreatedAt: unixTime(d.CreatedUTC),
		Subreddit: strings.ToLower(d.Subreddit),
		Score:     d.Score,
		Title:     normalize.Text(d.Title),
		Text:      bodyText(d.Selftext, d.SelftextHTML),
		SourceURL: permalink(d.Permalink),
		IsSelf:    d.IsSelf,
	}
	return rec, check(rec)
}

func check(rec activity.Record) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	return nil
}

// bodyText prefers the markdown source. The rendered HTML is only used when
// the markdown field itself is blank; markdown that normalizes to nothing
// (code only, bare URLs) stays empty.
func bodyText(markdown, rendered string) string {
	if strings.TrimSpace(markdown) == "" {
		return normalize.HTMLBody(rendered)
	}
	return normalize.Text(markdown)
}

func permalink(p string) string {
	if p == "" {
		return ""
	}
	return permalinkHost + p
}

func unixTime(secs float64) time.Time {
	if secs <= 0 {
		return time.Time{}
	}
	whole, frac := math.Modf(secs)
	return time.Unix(int64(whole), int64(frac*1e9)).UTC()
}
