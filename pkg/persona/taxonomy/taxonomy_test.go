package taxonomy

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/cognicore/persona/pkg/persona/internalerr"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default taxonomy should validate: %v", err)
	}
}

func TestDefaultReturnsCopies(t *testing.T) {
	a := Default()
	a.Interests.Categories[0].Keywords[0] = "mutated"
	b := Default()
	if b.Interests.Categories[0].Keywords[0] != "programming" {
		t.Error("Default should not share state between calls")
	}
}

func TestShippedConfigMatchesDefault(t *testing.T) {
	tax, err := Load("../../../configs/taxonomy.yaml")
	if err != nil {
		t.Fatalf("load shipped taxonomy: %v", err)
	}
	if !reflect.DeepEqual(tax, Default()) {
		t.Error("configs/taxonomy.yaml drifted from the built-in defaults")
	}
}

func TestParsePartialOverride(t *testing.T) {
	content := `
version: "test"
interests:
  top: 3
  categories:
    - name: Cooking
      keywords: [Recipes, cooking]
`
	tax, err := Parse([]byte(content))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tax.Version != "test" {
		t.Errorf("version = %q", tax.Version)
	}
	if tax.Interests.Top != 3 {
		t.Errorf("top = %d, want 3", tax.Interests.Top)
	}
	if tax.Interests.Fallback != "other" {
		t.Errorf("fallback should keep default, got %q", tax.Interests.Fallback)
	}
	if len(tax.Interests.Categories) != 1 {
		t.Fatalf("categories should be replaced, got %d", len(tax.Interests.Categories))
	}
	cat := tax.Interests.Categories[0]
	if cat.Name != "cooking" || cat.Keywords[0] != "recipes" {
		t.Errorf("category should be lowercased, got %+v", cat)
	}
	if len(tax.Traits) != 6 {
		t.Errorf("traits should keep defaults, got %d", len(tax.Traits))
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed yaml", "interests: [unclosed\n"},
		{"zero top", "interests:\n  top: 0\n"},
		{"duplicate category", "interests:\n  categories:\n    - {name: a, keywords: [x]}\n    - {name: a, keywords: [y]}\n"},
		{"category without keywords", "interests:\n  categories:\n    - {name: a, keywords: []}\n"},
		{"category shadows fallback", "interests:\n  categories:\n    - {name: other, keywords: [x]}\n"},
		{"negative margin", "sentiment:\n  margin: -1\n"},
		{"inverted style", "style:\n  detailed_above: 50\n  balanced_above: 100\n"},
		{"empty lead-in", "phrases:\n  goals: [\"\"]\n"},
		{"zero min words", "phrases:\n  min_words: 0\n"},
		{"no question marker", "engagement:\n  question: \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content))
			if !errors.Is(err, internalerr.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	if _, err := Load("/nonexistent/taxonomy.yaml"); err == nil {
		t.Error("should error on non-existent file")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := Default().Marshal()
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "tax.yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	tax, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reflect.DeepEqual(tax, Default()) {
		t.Error("marshalled default should reload unchanged")
	}
}

func TestCompilePhrase(t *testing.T) {
	re, err := CompilePhrase("i'm trying to")
	if err != nil {
		t.Fatal(err)
	}
	m := re.FindStringSubmatch("so i'm trying to fix my bike. it broke")
	if len(m) != 2 || m[1] != "fix my bike" {
		t.Errorf("unexpected match %q", m)
	}
}
