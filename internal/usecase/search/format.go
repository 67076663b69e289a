package search

import (
	"html"
	"regexp"
	"strings"

	"github.com/kailas-cloud/nivosearch/internal/domain/catalog"
	"github.com/kailas-cloud/nivosearch/internal/domain/search/result"
	"github.com/kailas-cloud/nivosearch/internal/domain/settings"
)

// DefaultDescriptionWords is the short description length in words.
const DefaultDescriptionWords = 15

const moreMarker = "…"

var (
	tagRe    = regexp.MustCompile(`(?s)<[^>]*>`)
	scriptRe = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
)

// format shapes ranked matches and terms into the display response.
func format(matches []result.Match, cats, tags []catalog.Term, s settings.Settings, words int) result.Response {
	resp := result.Response{
		Categories: formatTerms(cats, ""),
		Tags:       formatTerms(tags, "tag"),
		Products:   make([]result.Product, 0, len(matches)),
		Settings:   applied(s),
	}
	for _, m := range matches {
		p := m.Product
		out := result.Product{
			ID:    p.ID,
			Title: p.Title,
			URL:   p.Permalink,
			Price: p.PriceHTML,
		}
		if s.Display.ShowImage {
			out.Image = p.ImageURL
		}
		if s.Display.ShowSKU {
			out.SKU = p.SKU
		}
		if s.Display.ShowDescription {
			out.ShortDescription = trimWords(p.Excerpt, words)
		}
		resp.Products = append(resp.Products, out)
	}
	return resp
}

func formatTerms(terms []catalog.Term, typ string) []result.Term {
	out := make([]result.Term, 0, len(terms))
	for _, t := range terms {
		out = append(out, result.Term{ID: t.ID, Title: t.Name, URL: t.URL, Count: t.Count, Type: typ})
	}
	return out
}

func applied(s settings.Settings) result.Applied {
	return result.Applied{
		ShowImages:      boolInt(s.Display.ShowImage),
		ShowPrice:       boolInt(s.Display.ShowPrice),
		ShowSKU:         boolInt(s.Display.ShowSKU),
		ShowDescription: boolInt(s.Display.ShowDescription),
		MinChars:        s.MinChars,
		Delay:           s.Delay,
		Limit:           s.Limit,
		ResultsPadding:  s.StyleInt(settings.KeyResultsPadding, 10),
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// trimWords strips markup and keeps the first n words, appending an
// ellipsis when text was cut.
func trimWords(text string, n int) string {
	if n <= 0 {
		n = DefaultDescriptionWords
	}
	text = scriptRe.ReplaceAllString(text, "")
	text = tagRe.ReplaceAllString(text, " ")
	text = html.UnescapeString(text)
	words := strings.Fields(text)
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ") + moreMarker
}
