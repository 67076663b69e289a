package search

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/nivosearch/internal/domain"
	"github.com/kailas-cloud/nivosearch/internal/domain/catalog"
	"github.com/kailas-cloud/nivosearch/internal/domain/search/predicate"
	"github.com/kailas-cloud/nivosearch/internal/metrics"
)

func queryObservations(t *testing.T, label string) uint64 {
	t.Helper()
	m, ok := metrics.CatalogQueryDuration.WithLabelValues(label).(prometheus.Metric)
	if !ok {
		t.Fatalf("observer for %q is not a metric", label)
	}
	var out dto.Metric
	if err := m.Write(&out); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return out.GetHistogram().GetSampleCount()
}

func TestInstrumentedCatalog_ObservesQueries(t *testing.T) {
	inner := &mockCatalog{
		products: []catalog.Product{{ID: 1, Title: "Shirt"}, {ID: 2, Title: "Shirt XL"}},
		total:    2,
		terms: map[catalog.Taxonomy][]catalog.Term{
			catalog.Tags: {{ID: 4, Name: "summer"}},
		},
	}
	cat := NewInstrumentedCatalog(inner, nil)

	beforeProducts := queryObservations(t, "products")
	beforeTags := queryObservations(t, string(catalog.Tags))

	products, total, err := cat.SearchProducts(context.Background(), predicate.Predicate{Query: "shirt"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 2 || total != 2 {
		t.Errorf("got %d products, total %d", len(products), total)
	}
	terms, err := cat.LookupTerms(context.Background(), predicate.TermQuery{Taxonomy: catalog.Tags})
	if err != nil || len(terms) != 1 {
		t.Fatalf("LookupTerms = %v, %v", terms, err)
	}

	if got := queryObservations(t, "products") - beforeProducts; got != 1 {
		t.Errorf("products observations = %d, want 1", got)
	}
	if got := queryObservations(t, string(catalog.Tags)) - beforeTags; got != 1 {
		t.Errorf("product_tag observations = %d, want 1", got)
	}
}

func TestInstrumentedCatalog_ErrorsPassThrough(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	productErr := errors.Join(domain.ErrCatalogUnavailable, errors.New("connection refused"))
	termErr := errors.New("term table locked")
	inner := &mockCatalog{productErr: productErr, termErr: termErr}
	cat := NewInstrumentedCatalog(inner, zap.New(core))

	beforeCats := queryObservations(t, string(catalog.Categories))

	_, _, err := cat.SearchProducts(context.Background(), predicate.Predicate{})
	if err != productErr { //nolint:errorlint // identity check
		t.Errorf("SearchProducts error = %v, want the inner error unchanged", err)
	}
	if !errors.Is(err, domain.ErrCatalogUnavailable) {
		t.Error("expected ErrCatalogUnavailable to survive")
	}
	if logs.FilterMessage("Product query failed").Len() != 1 {
		t.Errorf("expected one error log, got %v", logs.All())
	}

	_, err = cat.LookupTerms(context.Background(), predicate.TermQuery{Taxonomy: catalog.Categories})
	if err != termErr { //nolint:errorlint // identity check
		t.Errorf("LookupTerms error = %v, want the inner error unchanged", err)
	}
	if got := queryObservations(t, string(catalog.Categories)) - beforeCats; got != 1 {
		t.Errorf("product_cat observations = %d, want 1", got)
	}
}
