// Package file stores persona reports as text files, one per user:
// <username>_persona.txt, with a small JSON sidecar holding the report ID
// and citations. Saving a user again replaces the previous report.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cognicore/persona/pkg/persona/internalerr"
	"github.com/cognicore/persona/pkg/persona/store"
)

const (
	reportSuffix = "_persona.txt"
	metaSuffix   = "_persona.json"
)

type fileStore struct {
	dir string
	ids *store.IDs
}

// Open returns a store writing into dir, creating it if needed.
func Open(dir string) (store.Store, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}
	return &fileStore{dir: dir, ids: store.NewIDs()}, nil
}

func (s *fileStore) Close() error { return nil }

// Save writes the report body and its sidecar.
func (s *fileStore) Save(ctx context.Context, r store.Report) (store.Report, error) {
	if err := checkUsername(r.Username); err != nil {
		return store.Report{}, err
	}
	if r.GeneratedAt.IsZero() {
		r.GeneratedAt = time.Now().UTC()
	}
	if r.ID == "" {
		r.ID = s.ids.New(r.GeneratedAt)
	}

	r.Location = filepath.Join(s.dir, r.Username+reportSuffix)
	if err := os.WriteFile(r.Location, []byte(r.Body), 0644); err != nil {
		return store.Report{}, fmt.Errorf("write report: %w", err)
	}

	meta, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return store.Report{}, err
	}
	if err := os.WriteFile(filepath.Join(s.dir, r.Username+metaSuffix), meta, 0644); err != nil {
		return store.Report{}, fmt.Errorf("write report metadata: %w", err)
	}
	return r, nil
}

// Get scans the sidecars for id.
func (s *fileStore) Get(ctx context.Context, id string) (store.Report, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*"+metaSuffix))
	if err != nil {
		return store.Report{}, err
	}
	for _, path := range matches {
		if err := ctx.Err(); err != nil {
			return store.Report{}, err
		}
		r, err := s.load(strings.TrimSuffix(filepath.Base(path), metaSuffix))
		if err != nil {
			return store.Report{}, err
		}
		if r.ID == id {
			return r, nil
		}
	}
	return store.Report{}, fmt.Errorf("report %s: %w", id, internalerr.ErrNotFound)
}

// Latest returns the report currently on disk for username.
func (s *fileStore) Latest(ctx context.Context, username string) (store.Report, error) {
	if err := checkUsername(username); err != nil {
		return store.Report{}, err
	}
	r, err := s.load(username)
	if errors.Is(err, fs.ErrNotExist) {
		return store.Report{}, fmt.Errorf("reports for %s: %w", username, internalerr.ErrNotFound)
	}
	return r, err
}

func (s *fileStore) load(username string) (store.Report, error) {
	meta, err := os.ReadFile(filepath.Join(s.dir, username+metaSuffix))
	if err != nil {
		return store.Report{}, err
	}
	var r store.Report
	if err := json.Unmarshal(meta, &r); err != nil {
		return store.Report{}, fmt.Errorf("decode %s metadata: %w", username, err)
	}
	r.Location = filepath.Join(s.dir, username+reportSuffix)
	body, err := os.ReadFile(r.Location)
	if err != nil {
		return store.Report{}, err
	}
	r.Body = string(body)
	return r, nil
}

func checkUsername(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: unusable username %q", internalerr.ErrInvalidInput, name)
	}
	return nil
}
