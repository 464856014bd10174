// Package store persists rendered persona reports.
package store

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/persona/pkg/persona/extract"
)

// Store is the persistence interface for persona reports.
type Store interface {
	Close() error

	// Save assigns an ID when r.ID is empty and stores the report. The
	// returned report carries the ID and, for file-backed stores, its
	// location.
	Save(ctx context.Context, r Report) (Report, error)
	// Get returns internalerr.ErrNotFound for unknown IDs.
	Get(ctx context.Context, id string) (Report, error)
	// Latest returns the most recently generated report for username.
	Latest(ctx context.Context, username string) (Report, error)
}

// Report is one rendered persona plus the citations backing it.
type Report struct {
	ID              string             `json:"id"`
	Username        string             `json:"username"`
	GeneratedAt     time.Time          `json:"generated_at"`
	TaxonomyVersion string             `json:"taxonomy_version"`
	Body            string             `json:"-"`
	Citations       []extract.Citation `json:"citations"`
	Location        string             `json:"-"`
}

// IDs hands out monotonic ULIDs; safe for concurrent use.
type IDs struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewIDs creates an ID generator.
func NewIDs() *IDs {
	return &IDs{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// New returns a ULID whose timestamp is t.
func (g *IDs) New(t time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), g.entropy).String()
}
