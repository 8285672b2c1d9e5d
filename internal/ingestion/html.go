package ingestion

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	noiseSelector = "nav, footer, header, aside, script, style, noscript, form, iframe, " +
		".ad, .advertisement, .ads, .sidebar, .cookie-banner, .popup, .newsletter, .related-posts"
	blockSelector = "h1, h2, h3, h4, h5, h6, p, li, td, blockquote, figcaption"
)

// contentSelectors are tried in order; the body is the last resort.
var contentSelectors = []string{
	"article",
	"main",
	".entry-content",
	".post-content",
	".article-body",
	"#content",
	".content",
}

// HTMLToText extracts the readable text of an HTML article. Headings become
// markdown headings and list items become bullets, each on its own line, so
// heading-delimited reviews stay recognisable.
func HTMLToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(noiseSelector).Remove()

	var root *goquery.Selection
	for _, selector := range contentSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			root = sel.First()
			break
		}
	}
	if root == nil {
		root = doc.Find("body")
	}

	var b strings.Builder
	root.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		// nested blocks are emitted by their innermost element
		if s.Find(blockSelector).Length() > 0 {
			return
		}
		text := strings.Join(strings.Fields(s.Text()), " ")
		if text == "" {
			return
		}
		switch tag := goquery.NodeName(s); tag {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			b.WriteString("\n" + strings.Repeat("#", int(tag[1]-'0')) + " " + text + "\n")
		case "li":
			b.WriteString("- " + text + "\n")
		default:
			b.WriteString(text + "\n\n")
		}
	})

	if b.Len() == 0 {
		// markup without block elements
		return root.Text(), nil
	}
	return b.String(), nil
}
