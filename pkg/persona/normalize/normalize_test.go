package normalize

import "testing"

func TestText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain", "hello world", "hello world"},
		{"markdown link", "see [the docs](https://go.dev/doc) now", "see the docs now"},
		{"fenced code", "before ```\nfmt.Println(1)\n``` after", "before after"},
		{"inline code", "run `go build` first", "run first"},
		{"entity", "fish &amp; chips &#39;", "fish chips"},
		{"bare url", "go to https://example.com/x?y=1 please", "go to please"},
		{"newlines", "line one\n\n\nline two", "line one line two"},
		{"whitespace", "  lots   of\t\tspace  ", "lots of space"},
		{"only whitespace", " \n\t ", ""},
		{"unclosed code", "a `b c", "a `b c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(tt.input); got != tt.want {
				t.Errorf("Text(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTextIdempotent(t *testing.T) {
	inputs := []string{
		"I want to [learn go](http://go.dev) this year.\n\nIt's `fun`.",
		"[[x](y)](z)",
		"&am&amp;p; nested entity",
		"```a``` `b` http://c d\te",
		"already normalized text",
	}
	for _, in := range inputs {
		once := Text(in)
		twice := Text(once)
		if once != twice {
			t.Errorf("not a fixed point: %q -> %q -> %q", in, once, twice)
		}
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"paragraph", "<p>Hello world</p>", "Hello world"},
		{"nested", "<p><strong>Bold</strong> and <em>italic</em></p>", "Bold and italic"},
		{"blocks", "<div><p>Hello</p><p>World</p></div>", "Hello World"},
		{"plain", "No HTML here", "No HTML here"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(StripHTML(tt.input)); got != tt.want {
				t.Errorf("StripHTML(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestHTMLBody(t *testing.T) {
	rendered := `<div class="md"><p>I want to learn &amp; grow</p></div>`
	if got := HTMLBody(rendered); got != "I want to learn & grow" {
		t.Errorf("HTMLBody = %q", got)
	}
	literal := `<div class="md"><p>wrap it in &lt;b&gt; tags</p></div>`
	if got := HTMLBody(literal); got != "wrap it in <b> tags" {
		t.Errorf("escaped markup should stay text, got %q", got)
	}
	if HTMLBody("") != "" {
		t.Error("empty body should stay empty")
	}
}
