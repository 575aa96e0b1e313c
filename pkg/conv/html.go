package conv

import (
	"html"
	"strings"

	"github.com/inbucket/html2text"
	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// StripTags removes all markup and decodes entities.
func StripTags(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// HTMLToText flattens an HTML fragment into a single line of plain text.
func HTMLToText(s string) string {
	text, err := html2text.FromString(s, html2text.Options{OmitLinks: true, TextOnly: true})
	if err != nil {
		return StripTags(s)
	}
	return strings.Join(strings.Fields(text), " ")
}
