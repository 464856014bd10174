// Package reddit fetches an account's public profile and recent activity
// from Reddit's JSON endpoints and maps it onto activity records.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/cognicore/persona/internal/config"
	"github.com/cognicore/persona/pkg/persona/activity"
	"github.com/cognicore/persona/pkg/persona/internalerr"
)

// maxPageSize is the largest limit a listing endpoint honors.
const maxPageSize = 100

// Client calls Reddit's public JSON API. The zero value is not usable; build
// one with New.
type Client struct {
	BaseURL      string
	UserAgent    string
	CommentLimit int
	PostLimit    int
	MaxRetries   int

	HTTPClient *http.Client
	Limiter    *rate.Limiter
	Log        logrus.FieldLogger
}

// New builds a client from configuration. Requests are spaced to cfg.RPM.
func New(cfg config.RedditConfig, log logrus.FieldLogger) *Client {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Client{
		BaseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		UserAgent:    cfg.UserAgent,
		CommentLimit: cfg.CommentLimit,
		PostLimit:    cfg.PostLimit,
		MaxRetries:   cfg.MaxRetries,
		HTTPClient:   &http.Client{Timeout: cfg.Timeout},
		Limiter:      rate.NewLimiter(rate.Limit(float64(cfg.RPM)/60.0), 1),
		Log:          log.WithField("component", "reddit"),
	}
}

// FetchSnapshot loads the account and its recent activity: comments first,
// then posts, each most-recent-first. Account errors are fatal; a failed
// listing is logged and the snapshot keeps whatever was collected.
func (c *Client) FetchSnapshot(ctx context.Context, username string) (activity.Snapshot, error) {
	acct, err := c.About(ctx, username)
	if err != nil {
		return activity.Snapshot{}, err
	}

	comments, err := c.Comments(ctx, username)
	if err != nil {
		if ctx.Err() != nil {
			return activity.Snapshot{}, ctx.Err()
		}
		c.Log.WithError(err).WithField("user", username).Warn("fetch comments")
	}
	posts, err := c.Submissions(ctx, username)
	if err != nil {
		if ctx.Err() != nil {
			return activity.Snapshot{}, ctx.Err()
		}
		c.Log.WithError(err).WithField("user", username).Warn("fetch posts")
	}

	c.Log.WithFields(logrus.Fields{
		"user":     username,
		"comments": len(comments),
		"posts":    len(posts),
	}).Info("fetched activity")

	records := make([]activity.Record, 0, len(comments)+len(posts))
	records = append(records, comments...)
	records = append(records, posts...)
	return activity.Snapshot{Account: acct, Records: records}, nil
}

// About fetches profile metadata.
func (c *Client) About(ctx context.Context, username string) (activity.Account, error) {
	if username == "" {
		return activity.Account{}, fmt.Errorf("%w: empty username", internalerr.ErrInvalidInput)
	}

	var payload struct {
		Data aboutData `json:"data"`
	}
	if err := c.get(ctx, userPath(username, "about.json"), nil, &payload); err != nil {
		return activity.Account{}, fmt.Errorf("user %s: %w", username, err)
	}

	acct := payload.Data.account()
	if acct.Username == "" {
		acct.Username = username
	}
	return acct, nil
}

// Comments returns up to CommentLimit of the newest comments.
func (c *Client) Comments(ctx context.Context, username string) ([]activity.Record, error) {
	return c.listing(ctx, username, "comments.json", c.CommentLimit, commentRecord)
}

// Submissions returns up to PostLimit of the newest posts.
func (c *Client) Submissions(ctx context.Context, username string) ([]activity.Record, error) {
	return c.listing(ctx, username, "submitted.json", c.PostLimit, postRecord)
}

type mapFunc func(json.RawMessage) (activity.Record, error)

func (c *Client) listing(ctx context.Context, username, endpoint string, limit int, toRecord mapFunc) ([]activity.Record, error) {
	var (
		records []activity.Record
		after   string
	)
	for len(records) < limit {
		q := url.Values{}
		q.Set("sort", "new")
		q.Set("limit", strconv.Itoa(min(limit-len(records), maxPageSize)))
		if after != "" {
			q.Set("after", after)
		}

		var page listingPage
		if err := c.get(ctx, userPath(username, endpoint), q, &page); err != nil {
			return records, fmt.Errorf("%s for %s: %w", strings.TrimSuffix(endpoint, ".json"), username, err)
		}

		for _, child := range page.Data.Children {
			if len(records) == limit {
				break
			}
			rec, err := toRecord(child.Data)
			if err != nil {
				c.Log.WithError(err).WithField("endpoint", endpoint).Warn("skipping listing item")
				continue
			}
			records = append(records, rec)
		}

		after = page.Data.After
		if after == "" || len(page.Data.Children) == 0 {
			break
		}
	}
	return records, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("raw_json", "1")
	target := c.BaseURL + path + "?" + query.Encode()

	for attempt := 0; ; attempt++ {
		if c.Limiter != nil {
			if err := c.Limiter.Wait(ctx); err != nil {
				return err
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", c.UserAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient().Do(req)
		if err != nil {
			return err
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			wait := retryAfter(resp.Header.Get("Retry-After"))
			drain(resp)
			if attempt >= c.MaxRetries {
				return internalerr.ErrRateLimited
			}
			c.Log.WithFields(logrus.Fields{"attempt": attempt + 1, "wait": wait}).Warn("rate limited, retrying")
			if err := sleep(ctx, wait); err != nil {
				return err
			}
			continue
		case resp.StatusCode == http.StatusNotFound:
			drain(resp)
			return internalerr.ErrNotFound
		case resp.StatusCode == http.StatusForbidden:
			drain(resp)
			return fmt.Errorf("%w: profile is suspended or private", internalerr.ErrForbidden)
		case resp.StatusCode < 200 || resp.StatusCode > 299:
			drain(resp)
			return fmt.Errorf("reddit: unexpected status %s", resp.Status)
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 15 * time.Second}
}

func userPath(username, endpoint string) string {
	return "/user/" + url.PathEscape(username) + "/" + endpoint
}

// retryAfter reads a delay in seconds, defaulting to one second.
func retryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return time.Second
	}
	return time.Duration(secs) * time.Second
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
}
