package ingest

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobmatch-engine/internal/textutil"
)

// StripHTML returns the visible text of an HTML fragment. Plain text passes
// through with whitespace collapsed.
func StripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return textutil.CleanText(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return textutil.CleanText(s)
	}
	doc.Find("script, style").Remove()
	doc.Find("br, p, li, div").Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml(" ")
	})
	return textutil.CleanText(doc.Text())
}
