// Package normalize turns raw Reddit markdown into plain, comparable text.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	markdownLink = regexp.MustCompile(`\[(.*?)\]\(.*?\)`)
	fencedCode   = regexp.MustCompile("(?s)`{3}.*?`{3}")
	inlineCode   = regexp.MustCompile("`.*?`")
	charEntity   = regexp.MustCompile(`&[#\w]+;`)
	bareURL      = regexp.MustCompile(`http\S+`)
	newlines     = regexp.MustCompile(`\n+`)
	spaces       = regexp.MustCompile(`\s+`)
)

// Text strips markdown links, code, character entities and URLs from s and
// collapses whitespace. The rules are reapplied until the text stops
// changing, so Text(Text(s)) == Text(s) even for nested markup.
func Text(s string) string {
	if s == "" {
		return ""
	}
	for {
		next := pass(s)
		if next == s {
			return next
		}
		s = next
	}
}

func pass(s string) string {
	s = markdownLink.ReplaceAllString(s, "$1")
	s = fencedCode.ReplaceAllString(s, "")
	s = inlineCode.ReplaceAllString(s, "")
	s = charEntity.ReplaceAllString(s, "")
	s = bareURL.ReplaceAllString(s, "")
	s = newlines.ReplaceAllString(s, " ")
	s = spaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// blockElements get a separating space so adjacent paragraphs don't fuse.
var blockElements = map[string]struct{}{
	"p": {}, "div": {}, "br": {}, "li": {}, "blockquote": {}, "pre": {},
	"h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {}, "tr": {}, "td": {},
}

// StripHTML extracts the text content of an HTML fragment. It is used for
// records that only carry a rendered body. Unparseable input is returned as is.
func StripHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
		if n.Type == html.ElementNode {
			if _, ok := blockElements[n.Data]; ok {
				buf.WriteByte(' ')
			}
		}
	}
	extractText(doc)

	return strings.TrimSpace(buf.String())
}

// HTMLBody returns the normalized text of a rendered HTML body, as Reddit
// sends it in *_html fields with raw_json=1. Entities are decoded once, by
// the parser, so escaped markup in the text stays text.
func HTMLBody(rendered string) string {
	if rendered == "" {
		return ""
	}
	return Text(StripHTML(rendered))
}
