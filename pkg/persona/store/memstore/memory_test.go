package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cognicore/persona/pkg/persona/extract"
	"github.com/cognicore/persona/pkg/persona/internalerr"
	"github.com/cognicore/persona/pkg/persona/store"
)

var _ store.Store = (*Store)(nil)

func TestSaveAndGet(t *testing.T) {
	ctx := context.Background()
	s := New()

	saved, err := s.Save(ctx, store.Report{
		Username:    "alice",
		GeneratedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Body:        "report body",
		Citations:   []extract.Citation{{Type: extract.Goal, Text: "run a marathon someday", Source: "u1"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if saved.ID == "" {
		t.Fatal("expected an assigned id")
	}

	got, err := s.Get(ctx, saved.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Body != "report body" || len(got.Citations) != 1 {
		t.Errorf("unexpected report %+v", got)
	}

	got.Citations[0].Text = "mutated"
	again, _ := s.Get(ctx, saved.ID)
	if again.Citations[0].Text != "run a marathon someday" {
		t.Error("store should hand out copies")
	}
}

func TestLatest(t *testing.T) {
	ctx := context.Background()
	s := New()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	newer, _ := s.Save(ctx, store.Report{Username: "bob", GeneratedAt: base.Add(time.Hour), Body: "new"})
	s.Save(ctx, store.Report{Username: "bob", GeneratedAt: base, Body: "old"})

	got, err := s.Latest(ctx, "bob")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != newer.ID {
		t.Errorf("latest = %s, want %s", got.ID, newer.ID)
	}
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	s := New()
	if _, err := s.Get(ctx, "missing"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("Get: expected ErrNotFound, got %v", err)
	}
	if _, err := s.Latest(ctx, "nobody"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("Latest: expected ErrNotFound, got %v", err)
	}
}

func TestSaveRequiresUsername(t *testing.T) {
	if _, err := New().Save(context.Background(), store.Report{}); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
