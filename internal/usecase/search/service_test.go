package search

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/kailas-cloud/nivosearch/internal/db"
	"github.com/kailas-cloud/nivosearch/internal/domain"
	"github.com/kailas-cloud/nivosearch/internal/domain/catalog"
	"github.com/kailas-cloud/nivosearch/internal/domain/search/request"
	"github.com/kailas-cloud/nivosearch/internal/domain/settings"
)

func newRequest(t *testing.T, q string, preset int64, ov settings.Layer) *request.Request {
	t.Helper()
	req, err := request.New(q, preset, ov)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return &req
}

func TestSearch_RankedScenario(t *testing.T) {
	cat := &mockCatalog{
		products: []catalog.Product{
			{ID: 1, Title: "Blue Shirt Long", Permalink: "/product/blue/"},
			{ID: 2, Title: "Shirt", Permalink: "/product/shirt/"},
		},
		total: 2,
	}
	svc := New(&mockResolver{settings: defaultSettings()}, cat)

	resp, err := svc.Search(context.Background(), newRequest(t, "shirt", 0, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Products) != 2 || resp.Products[0].Title != "Shirt" || resp.Products[1].Title != "Blue Shirt Long" {
		t.Errorf("products = %+v", resp.Products)
	}
	if resp.Total != 2 {
		t.Errorf("Total = %d, want 2", resp.Total)
	}
}

func TestSearch_QueryTooShortSkipsCatalog(t *testing.T) {
	s := defaultSettings()
	s.MinChars = 3
	cat := &mockCatalog{}
	svc := New(&mockResolver{settings: s}, cat)

	_, err := svc.Search(context.Background(), newRequest(t, "sh", 0, nil))
	if !errors.Is(err, domain.ErrQueryTooShort) {
		t.Fatalf("expected ErrQueryTooShort, got %v", err)
	}
	var tooShort *domain.QueryTooShortError
	if !errors.As(err, &tooShort) || tooShort.MinLength != 3 {
		t.Errorf("expected MinLength 3, got %v", err)
	}
	if cat.calls() != 0 {
		t.Errorf("catalog called %d times", cat.calls())
	}
}

func TestSearch_Disabled(t *testing.T) {
	s := defaultSettings()
	s.Enabled = false
	cat := &mockCatalog{}
	svc := New(&mockResolver{settings: s}, cat)

	_, err := svc.Search(context.Background(), newRequest(t, "shirt", 0, nil))
	if !errors.Is(err, domain.ErrSearchDisabled) {
		t.Fatalf("expected ErrSearchDisabled, got %v", err)
	}
	if cat.calls() != 0 {
		t.Error("catalog must not be queried when disabled")
	}
}

func TestSearch_ResolveError(t *testing.T) {
	svc := New(&mockResolver{err: errors.New("redis down")}, &mockCatalog{})
	_, err := svc.Search(context.Background(), newRequest(t, "shirt", 0, nil))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestSearch_PassesPresetAndOverrides(t *testing.T) {
	res := &mockResolver{settings: defaultSettings()}
	svc := New(res, &mockCatalog{})

	_, err := svc.Search(context.Background(), newRequest(t, "shirt", 12, settings.Layer{"limit": "3"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.gotPresetID != 12 || res.gotOverrides["limit"] != "3" {
		t.Errorf("resolver got preset=%d overrides=%v", res.gotPresetID, res.gotOverrides)
	}
}

func TestSearch_ExclusionsNeverLeak(t *testing.T) {
	s := defaultSettings()
	s.ExcludedIDs = []int64{2}
	s.ExcludeOutOfStock = true
	cat := &mockCatalog{products: []catalog.Product{
		{ID: 1, Title: "Shirt", StockStatus: catalog.StockInStock},
		{ID: 2, Title: "Shirt excluded", StockStatus: catalog.StockInStock},
		{ID: 3, Title: "Shirt sold out", StockStatus: catalog.StockOutOfStock},
	}}
	svc := New(&mockResolver{settings: s}, cat)

	resp, err := svc.Search(context.Background(), newRequest(t, "shirt", 0, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Products) != 1 || resp.Products[0].ID != 1 {
		t.Errorf("products = %+v, want only id 1", resp.Products)
	}
	if !cat.lastPred.ExcludeOutOfStock || len(cat.lastPred.ExcludedIDs) != 1 {
		t.Errorf("predicate missing exclusions: %+v", cat.lastPred)
	}
}

func TestSearch_TermsAndTermFailure(t *testing.T) {
	s := defaultSettings()
	s.IncludeCategories = true
	s.IncludeTags = true
	cat := &mockCatalog{
		terms: map[catalog.Taxonomy][]catalog.Term{
			catalog.Categories: {{ID: 7, Name: "Shirts"}},
			catalog.Tags:       {{ID: 8, Name: "shirt-sale"}},
		},
	}
	svc := New(&mockResolver{settings: s}, cat, WithTermLimit(3))

	resp, err := svc.Search(context.Background(), newRequest(t, "shirt", 0, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Categories) != 1 || len(resp.Tags) != 1 || resp.Tags[0].Type != "tag" {
		t.Errorf("categories=%+v tags=%+v", resp.Categories, resp.Tags)
	}
	for _, q := range cat.termQueries {
		if q.Limit != 3 {
			t.Errorf("term limit = %d, want 3", q.Limit)
		}
	}

	cat.termErr = errors.New("boom")
	resp, err = svc.Search(context.Background(), newRequest(t, "shirt", 0, nil))
	if err != nil {
		t.Fatalf("term failure must not fail search: %v", err)
	}
	if len(resp.Categories) != 0 || len(resp.Tags) != 0 {
		t.Error("expected empty term sections after failure")
	}
}

func TestSearch_TermsSkippedWhenDisabled(t *testing.T) {
	cat := &mockCatalog{}
	svc := New(&mockResolver{settings: defaultSettings()}, cat)
	if _, err := svc.Search(context.Background(), newRequest(t, "shirt", 0, nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cat.termQueries) != 0 {
		t.Errorf("term lookups = %d, want 0", len(cat.termQueries))
	}
}

func TestSearch_CatalogUnavailable(t *testing.T) {
	cat := &mockCatalog{
		productErr: fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable,
			&db.Error{Op: db.OpSelectProducts, Err: errors.New("conn refused")}),
	}
	svc := New(&mockResolver{settings: defaultSettings()}, cat)

	_, err := svc.Search(context.Background(), newRequest(t, "shirt", 0, nil))
	if !errors.Is(err, domain.ErrCatalogUnavailable) {
		t.Fatalf("expected ErrCatalogUnavailable, got %v", err)
	}
}

func TestSearch_SKUFieldEnablesSKURanking(t *testing.T) {
	s := defaultSettings()
	s.Fields = []settings.Field{settings.FieldTitle, settings.FieldSKU}
	cat := &mockCatalog{products: []catalog.Product{
		{ID: 1, Title: "Widget", SKU: "AB12-X"},
		{ID: 2, Title: "Gadget", SKU: "ab12"},
	}}
	svc := New(&mockResolver{settings: s}, cat)

	resp, err := svc.Search(context.Background(), newRequest(t, "ab12", 0, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Products[0].ID != 2 {
		t.Errorf("first = %d, want 2", resp.Products[0].ID)
	}
}

func TestOutcome(t *testing.T) {
	if got := outcome(resultWithProducts(0), nil); got != "empty" {
		t.Errorf("outcome = %q, want empty", got)
	}
	if got := outcome(resultWithProducts(1), nil); got != "ok" {
		t.Errorf("outcome = %q, want ok", got)
	}
	if got := outcome(resultWithProducts(0), domain.NewQueryTooShort(2)); got != "too_short" {
		t.Errorf("outcome = %q, want too_short", got)
	}
	if got := outcome(resultWithProducts(0), errors.New("x")); got != "error" {
		t.Errorf("outcome = %q, want error", got)
	}
}
