package parsing

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var htmlTagPattern = regexp.MustCompile(`<\s*/?\s*[a-zA-Z][a-zA-Z0-9]*(?:\s[^>]*)?/?>`)

// blockSelectors end a sentence when converted to text.
const blockSelectors = "p, li, div, br, h1, h2, h3, h4, h5, h6, tr, section, article, blockquote"

// LooksLikeHTML reports whether text contains markup tags.
func LooksLikeHTML(text string) bool {
	return htmlTagPattern.MatchString(text)
}

// HTMLToText converts an HTML job description into plain text. Block elements become
// sentence breaks so that list items are segmented as separate sentences.
func HTMLToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript, nav, footer").Remove()
	doc.Find(blockSelectors).Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml(". ")
	})

	return cleanWhitespace(doc.Text()), nil
}

// PlainText returns text unchanged unless it contains markup, in which case the markup is
// stripped. Malformed markup falls back to the original text.
func PlainText(text string) string {
	if !LooksLikeHTML(text) {
		return text
	}
	plain, err := HTMLToText(text)
	if err != nil {
		return text
	}
	return plain
}

// cleanWhitespace collapses runs of whitespace into single spaces.
func cleanWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
