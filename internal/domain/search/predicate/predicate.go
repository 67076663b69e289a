// Package predicate turns a query text and merged settings into a storage
// neutral description of the product and term lookups to run.
package predicate

import (
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/nivosearch/internal/domain"
	"github.com/kailas-cloud/nivosearch/internal/domain/catalog"
	"github.com/kailas-cloud/nivosearch/internal/domain/settings"
)

// EscapeChar is the LIKE escape character the executor must declare.
const EscapeChar = '!'

// Fixed product constraints.
const (
	ProductPostType = "product"
	PublishStatus   = "publish"
)

// DefaultTermLimit caps each taxonomy lookup.
const DefaultTermLimit = 5

// TermQuery is one independent taxonomy lookup.
type TermQuery struct {
	Taxonomy catalog.Taxonomy
	// Pattern is an escaped LIKE pattern, matched case-insensitively.
	Pattern string
	Limit   int
}

// Predicate describes the product search and its companion term lookups.
type Predicate struct {
	// Query is the trimmed query text used for ranking.
	Query string
	// Pattern is the escaped "%query%" LIKE pattern.
	Pattern string
	// Fields are OR-ed; never empty.
	Fields            []settings.Field
	PostType          string
	Status            string
	ExcludedIDs       []int64
	ExcludeOutOfStock bool
	Limit             int
	Terms             []TermQuery
}

// HasField reports whether f participates in the OR group.
func (p Predicate) HasField(f settings.Field) bool {
	for _, x := range p.Fields {
		if x == f {
			return true
		}
	}
	return false
}

// Option tunes planning.
type Option func(*options)

type options struct {
	termLimit int
}

// WithTermLimit overrides the per-taxonomy cap. Non-positive values are ignored.
func WithTermLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.termLimit = n
		}
	}
}

// Plan validates the query length and builds the predicate.
func Plan(query string, s settings.Settings, opts ...Option) (Predicate, error) {
	o := options{termLimit: DefaultTermLimit}
	for _, fn := range opts {
		fn(&o)
	}

	q := strings.TrimSpace(query)
	minChars := s.MinChars
	if minChars < settings.MinMinChars {
		minChars = settings.MinMinChars
	}
	if utf8.RuneCountInString(q) < minChars {
		return Predicate{}, domain.NewQueryTooShort(minChars)
	}

	fields := append([]settings.Field(nil), s.Fields...)
	if len(fields) == 0 {
		fields = []settings.Field{settings.FieldTitle}
	}
	limit := s.Limit
	if limit < settings.MinLimit {
		limit = settings.MinLimit
	}

	pattern := "%" + EscapeLike(q) + "%"
	p := Predicate{
		Query:             q,
		Pattern:           pattern,
		Fields:            fields,
		PostType:          ProductPostType,
		Status:            PublishStatus,
		ExcludedIDs:       append([]int64(nil), s.ExcludedIDs...),
		ExcludeOutOfStock: s.ExcludeOutOfStock,
		Limit:             limit,
	}
	if s.IncludeCategories {
		p.Terms = append(p.Terms, TermQuery{Taxonomy: catalog.Categories, Pattern: pattern, Limit: o.termLimit})
	}
	if s.IncludeTags {
		p.Terms = append(p.Terms, TermQuery{Taxonomy: catalog.Tags, Pattern: pattern, Limit: o.termLimit})
	}
	return p, nil
}

// EscapeLike escapes the escape character and the LIKE wildcards so the
// text is matched literally.
func EscapeLike(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case EscapeChar, '%', '_':
			b.WriteRune(EscapeChar)
		}
		b.WriteRune(r)
	}
	return b.String()
}
