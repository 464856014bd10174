package activity

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/cognicore/persona/pkg/persona/internalerr"
)

func TestRecordContent(t *testing.T) {
	post := Record{Kind: KindPost, Title: "my title", Text: "body text"}
	if got := post.Content(); got != "my title body text" {
		t.Errorf("post content = %q", got)
	}

	comment := Record{Kind: KindComment, Title: "ignored", Text: "hello there"}
	if got := comment.Content(); got != "hello there" {
		t.Errorf("comment content = %q", got)
	}
}

func TestRecordValidate(t *testing.T) {
	valid := Record{ID: "c1", Kind: KindComment, SourceURL: "https://reddit.com/r/x/1", Text: "ok"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}

	tests := []struct {
		name string
		mod  func(r *Record)
	}{
		{"missing id", func(r *Record) { r.ID = "" }},
		{"unknown kind", func(r *Record) { r.Kind = "poll" }},
		{"missing source", func(r *Record) { r.SourceURL = " " }},
		{"bad utf8", func(r *Record) { r.Text = string([]byte{0xff, 0xfe}) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mod(&r)
			err := r.Validate()
			if !errors.Is(err, internalerr.ErrInvalidRecord) {
				t.Errorf("expected ErrInvalidRecord, got %v", err)
			}
		})
	}
}

func TestCommentsAndPostsKeepOrder(t *testing.T) {
	records := []Record{
		{ID: "c1", Kind: KindComment},
		{ID: "p1", Kind: KindPost},
		{ID: "c2", Kind: KindComment},
	}
	comments := Comments(records)
	if len(comments) != 2 || comments[0].ID != "c1" || comments[1].ID != "c2" {
		t.Errorf("unexpected comments: %+v", comments)
	}
	posts := Posts(records)
	if len(posts) != 1 || posts[0].ID != "p1" {
		t.Errorf("unexpected posts: %+v", posts)
	}
}

func TestAccountValidate(t *testing.T) {
	acct := Account{Username: "spez", CreatedAt: time.Date(2005, 6, 6, 0, 0, 0, 0, time.UTC)}
	if err := acct.Validate(); err != nil {
		t.Fatalf("valid account rejected: %v", err)
	}

	acct.CreatedAt = time.Time{}
	if err := acct.Validate(); !errors.Is(err, internalerr.ErrMissingMetadata) {
		t.Errorf("expected ErrMissingMetadata, got %v", err)
	}
}

func TestSnapshotJSONLRoundTrip(t *testing.T) {
	created := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	snap := Snapshot{
		Account: Account{Username: "someone", CreatedAt: created, CommentKarma: 1200},
		Records: []Record{
			{ID: "c1", Kind: KindComment, CreatedAt: created, Subreddit: "golang", Text: "hi", SourceURL: "https://reddit.com/c1"},
			{ID: "p1", Kind: KindPost, CreatedAt: created, Subreddit: "golang", Title: "t", SourceURL: "https://reddit.com/p1", IsSelf: true},
		},
	}

	path := filepath.Join(t.TempDir(), "snap.jsonl")
	if err := WriteSnapshot(path, snap); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadSnapshot(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if got.Account.Username != "someone" || !got.Account.CreatedAt.Equal(created) {
		t.Errorf("account mismatch: %+v", got.Account)
	}
	if len(got.Records) != 2 || got.Records[1].ID != "p1" || !got.Records[1].IsSelf {
		t.Errorf("records mismatch: %+v", got.Records)
	}
}

func TestReadJSONLRequiresAccount(t *testing.T) {
	input := `{"record":{"id":"c1","kind":"comment","text":"x","source_url":"u"}}` + "\n"
	_, err := ReadJSONL(bytes.NewBufferString(input))
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestReadJSONLMalformedLine(t *testing.T) {
	_, err := ReadJSONL(bytes.NewBufferString("{not json\n"))
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
