package searchbox

import (
	"html"
	"regexp"
	"strings"
)

const highlightOpen = `<span class="nivo-search-highlight">`

// Highlight HTML-escapes text and wraps every case-insensitive occurrence
// of query in a highlight span. Matching runs on the raw text, so the
// query can never match inside an entity produced by escaping.
func Highlight(text, query string) string {
	if text == "" {
		return ""
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return html.EscapeString(text)
	}

	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(query))
	if err != nil {
		return html.EscapeString(text)
	}

	var b strings.Builder
	last := 0
	for _, m := range re.FindAllStringIndex(text, -1) {
		b.WriteString(html.EscapeString(text[last:m[0]]))
		b.WriteString(highlightOpen)
		b.WriteString(html.EscapeString(text[m[0]:m[1]]))
		b.WriteString("</span>")
		last = m[1]
	}
	b.WriteString(html.EscapeString(text[last:]))
	return b.String()
}
