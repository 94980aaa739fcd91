package fetch

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultContentSelectors is the prioritized list of main-content containers
// tried by the extractor. The first selector with a match wins; the page body
// is the fallback when none match.
var DefaultContentSelectors = []string{
	"article",
	"main",
	".entry-content",
	".post-content",
	".article-content",
}

// strippedSelectors matches subtrees removed before reading text. These carry
// chrome, boilerplate or executable content, never article prose.
const strippedSelectors = "script, style, nav, noscript, iframe, form"

// ExtractMainText locates the main content region of a rendered page and
// returns its cleaned text. It is a pure function of the HTML and the
// selector list.
func ExtractMainText(html string, selectors []string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	content := doc.Find("body")
	for _, selector := range selectors {
		if match := doc.Find(selector); match.Length() > 0 {
			content = match.First()
			break
		}
	}

	content.Find(strippedSelectors).Remove()

	return CleanText(content.Text()), nil
}

// CleanText collapses rendering whitespace without altering content order:
// each line is trimmed, empty lines are dropped, and the remainder is
// rejoined with single newlines.
func CleanText(raw string) string {
	lines := strings.Split(raw, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
