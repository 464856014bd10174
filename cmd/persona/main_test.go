package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cognicore/persona/internal/config"
	"github.com/cognicore/persona/pkg/persona/activity"
	"github.com/cognicore/persona/pkg/persona/internalerr"
)

func writeFixture(t *testing.T, dir string) string {
	t.Helper()
	snap := activity.Snapshot{
		Account: activity.Account{
			Username:     "kojied",
			CreatedAt:    time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC),
			CommentKarma: 4321,
			LinkKarma:    12,
		},
		Records: []activity.Record{
			{ID: "c1", Kind: activity.KindComment, Subreddit: "python", CreatedAt: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
				Text: "I want to learn more about async code", SourceURL: "https://reddit.com/r/python/c1"},
			{ID: "p1", Kind: activity.KindPost, Subreddit: "fitness", CreatedAt: time.Date(2024, 1, 2, 18, 0, 0, 0, time.UTC),
				Title: "Any tips?", Text: "I hate when my gym is crowded every evening", SourceURL: "https://reddit.com/r/fitness/p1", IsSelf: true},
		},
	}
	path := filepath.Join(dir, "kojied.jsonl")
	if err := activity.WriteSnapshot(path, snap); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestRunFromSnapshot(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STORE_DIR", dir)
	input := writeFixture(t, dir)

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), options{inputPath: input, print: true}, strings.NewReader(""), &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	out := stdout.String()
	if !strings.Contains(out, "u/kojied") {
		t.Errorf("report missing username:\n%s", out)
	}
	if !strings.Contains(out, "4,321") {
		t.Errorf("report missing karma:\n%s", out)
	}

	saved := filepath.Join(dir, "kojied_persona.txt")
	if !strings.Contains(out, "Saved to: "+saved) {
		t.Errorf("expected saved location in output:\n%s", out)
	}
	data, err := os.ReadFile(saved)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(data), "learn more about async code") {
		t.Errorf("report missing goal citation:\n%s", data)
	}
}

func TestRunOutOverridesStoreDir(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "reports")
	input := writeFixture(t, dir)

	var stdout bytes.Buffer
	if err := run(context.Background(), options{inputPath: input, outDir: out}, nil, &stdout, &bytes.Buffer{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "kojied_persona.txt")); err != nil {
		t.Errorf("report not written to -out dir: %v", err)
	}
}

func redditServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/user/kojied/about.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{"name":"kojied","created_utc":1577836800,"comment_karma":10,"link_karma":2}}`)
	})
	mux.HandleFunc("/user/kojied/comments.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{"after":null,"children":[{"kind":"t1","data":{"id":"c1","created_utc":1700000000,
"subreddit":"golang","score":1,"body":"I'm trying to get better at generics","permalink":"/r/golang/c1/"}}]}}`)
	})
	mux.HandleFunc("/user/kojied/submitted.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{"after":null,"children":[]}}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRunFetchesAndDumps(t *testing.T) {
	dir := t.TempDir()
	srv := redditServer(t)
	t.Setenv("REDDIT_BASE_URL", srv.URL)
	t.Setenv("REDDIT_RPM", "6000")
	t.Setenv("STORE_DRIVER", config.DriverSQLite)
	t.Setenv("STORE_DIR", dir)

	dump := filepath.Join(dir, "dump.jsonl")
	var stdout bytes.Buffer
	err := run(context.Background(), options{user: "https://www.reddit.com/user/kojied/", dumpPath: dump}, nil, &stdout, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(stdout.String(), "Analyzing user: u/kojied") {
		t.Errorf("unexpected output:\n%s", stdout.String())
	}
	if !strings.Contains(stdout.String(), "Saved to: sqlite://") {
		t.Errorf("expected sqlite location:\n%s", stdout.String())
	}

	snap, err := activity.ReadSnapshot(dump)
	if err != nil {
		t.Fatalf("read dump: %v", err)
	}
	if snap.Account.Username != "kojied" || len(snap.Records) != 1 {
		t.Errorf("unexpected dump %+v", snap)
	}
}

func TestRunPromptsForUser(t *testing.T) {
	srv := redditServer(t)
	t.Setenv("REDDIT_BASE_URL", srv.URL)
	t.Setenv("REDDIT_RPM", "6000")
	t.Setenv("STORE_DRIVER", config.DriverMemory)

	var stdout bytes.Buffer
	err := run(context.Background(), options{}, strings.NewReader("u/kojied\n"), &stdout, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(stdout.String(), "Enter Reddit profile URL or username: ") {
		t.Errorf("expected prompt:\n%s", stdout.String())
	}
	if !strings.Contains(stdout.String(), "Saved to: memory://") {
		t.Errorf("expected memory location:\n%s", stdout.String())
	}
}

func TestRunEmptyUser(t *testing.T) {
	t.Setenv("STORE_DRIVER", config.DriverMemory)
	err := run(context.Background(), options{}, strings.NewReader("\n"), &bytes.Buffer{}, &bytes.Buffer{})
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRunUnknownUser(t *testing.T) {
	srv := redditServer(t)
	t.Setenv("REDDIT_BASE_URL", srv.URL)
	t.Setenv("REDDIT_RPM", "6000")
	t.Setenv("STORE_DRIVER", config.DriverMemory)

	err := run(context.Background(), options{user: "ghost"}, nil, &bytes.Buffer{}, &bytes.Buffer{})
	if !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRunBadTaxonomy(t *testing.T) {
	t.Setenv("STORE_DRIVER", config.DriverMemory)
	err := run(context.Background(), options{user: "x", taxonomyPath: filepath.Join(t.TempDir(), "missing.yaml")}, nil, &bytes.Buffer{}, &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected taxonomy load error")
	}
}

func TestOpenStoreDrivers(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	for _, driver := range []string{config.DriverFile, config.DriverSQLite, config.DriverMemory} {
		st, err := openStore(ctx, config.StoreConfig{Driver: driver, Dir: dir, DSN: "reports.db"})
		if err != nil {
			t.Fatalf("%s: %v", driver, err)
		}
		st.Close()
	}

	if _, err := openStore(ctx, config.StoreConfig{Driver: "redis"}); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
