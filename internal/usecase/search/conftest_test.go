package search

import (
	"context"
	"sync"

	"github.com/kailas-cloud/nivosearch/internal/domain/catalog"
	"github.com/kailas-cloud/nivosearch/internal/domain/search/predicate"
	"github.com/kailas-cloud/nivosearch/internal/domain/search/result"
	"github.com/kailas-cloud/nivosearch/internal/domain/settings"
)

type mockResolver struct {
	settings     settings.Settings
	err          error
	gotPresetID  int64
	gotOverrides settings.Layer
}

func (m *mockResolver) Resolve(_ context.Context, presetID int64, overrides settings.Layer) (settings.Settings, error) {
	m.gotPresetID = presetID
	m.gotOverrides = overrides
	return m.settings, m.err
}

// mockCatalog records calls; term lookups run concurrently with the product query.
type mockCatalog struct {
	mu         sync.Mutex
	products   []catalog.Product
	total      int
	productErr error
	terms      map[catalog.Taxonomy][]catalog.Term
	termErr    error

	productCalls int
	lastPred     predicate.Predicate
	termQueries  []predicate.TermQuery
}

func (m *mockCatalog) SearchProducts(_ context.Context, p predicate.Predicate) ([]catalog.Product, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.productCalls++
	m.lastPred = p
	if m.productErr != nil {
		return nil, 0, m.productErr
	}
	out := append([]catalog.Product(nil), m.products...)
	return out, m.total, nil
}

func (m *mockCatalog) LookupTerms(_ context.Context, q predicate.TermQuery) ([]catalog.Term, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.termQueries = append(m.termQueries, q)
	if m.termErr != nil {
		return nil, m.termErr
	}
	return m.terms[q.Taxonomy], nil
}

func (m *mockCatalog) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.productCalls + len(m.termQueries)
}

func defaultSettings() settings.Settings {
	return settings.Resolve(settings.Defaults(), nil, nil, nil)
}

func resultWithProducts(n int) result.Response {
	return result.Response{Products: make([]result.Product, n)}
}
