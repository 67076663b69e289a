package search

import (
	"sort"
	"strings"

	"github.com/kailas-cloud/nivosearch/internal/domain/catalog"
	"github.com/kailas-cloud/nivosearch/internal/domain/search/result"
)

// Relevance weights. Title rules are mutually exclusive, as are SKU rules;
// a title rule and a SKU rule add up.
const (
	scoreTitleExact    = 100
	scoreTitlePrefix   = 50
	scoreTitleContains = 20
	scoreSKUExact      = 80
	scoreSKUContains   = 30
)

// rank scores products against the trimmed query and orders them by score,
// keeping catalog order for ties.
func rank(products []catalog.Product, query string, skuEnabled bool) []result.Match {
	q := strings.ToLower(strings.TrimSpace(query))
	matches := make([]result.Match, len(products))
	for i, p := range products {
		matches[i] = result.Match{Product: p, Score: score(p, q, skuEnabled)}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

func score(p catalog.Product, q string, skuEnabled bool) int {
	if q == "" {
		return 0
	}
	s := 0
	title := strings.ToLower(strings.TrimSpace(p.Title))
	switch {
	case title == q:
		s += scoreTitleExact
	case strings.HasPrefix(title, q):
		s += scoreTitlePrefix
	case strings.Contains(title, q):
		s += scoreTitleContains
	}

	if skuEnabled && p.SKU != "" {
		sku := strings.ToLower(strings.TrimSpace(p.SKU))
		switch {
		case sku == q:
			s += scoreSKUExact
		case strings.Contains(sku, q):
			s += scoreSKUContains
		}
	}
	return s
}
