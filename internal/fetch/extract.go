package fetch

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/profile-optimizer/internal/types"
)

// ErrNoContent is returned when a page has no readable posting text.
var ErrNoContent = errors.New("page has no readable content")

const (
	maxTitleRunes       = 300
	maxDescriptionRunes = 50000
)

// ExtractJobPosting parses a posting page into a JobContext. The description is the main
// content text with navigation, forms and legal boilerplate removed.
func ExtractJobPosting(html string, platform Platform) (*types.JobContext, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	job := &types.JobContext{
		Title:   truncateRunes(firstNonEmpty(metaContent(doc, "og:title"), doc.Find("h1").First().Text(), doc.Find("title").First().Text()), maxTitleRunes),
		Company: truncateRunes(metaContent(doc, "og:site_name"), maxTitleRunes),
	}

	doc.Find("nav, footer, header, script, style, noscript, .ad, .advertisement, .sidebar").Remove()
	doc.Find(strings.Join(PlatformNoiseSelectors(platform), ", ")).Remove()

	content := doc.Find("body")
	for _, selector := range PlatformContentSelectors(platform) {
		if selection := doc.Find(selector); selection.Length() > 0 {
			content = selection.First()
			break
		}
	}

	job.Description = truncateRunes(cleanWhitespace(content.Text()), maxDescriptionRunes)
	if job.Description == "" {
		return nil, ErrNoContent
	}
	return job, nil
}

func metaContent(doc *goquery.Document, property string) string {
	value, _ := doc.Find(fmt.Sprintf("meta[property='%s']", property)).First().Attr("content")
	return value
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.Join(strings.Fields(v), " "); v != "" {
			return v
		}
	}
	return ""
}

// cleanWhitespace trims every line and drops blank ones.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
