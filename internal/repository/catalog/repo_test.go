package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/nivosearch/internal/db/sqldb"
	"github.com/kailas-cloud/nivosearch/internal/domain"
	"github.com/kailas-cloud/nivosearch/internal/domain/catalog"
	"github.com/kailas-cloud/nivosearch/internal/domain/search/predicate"
	"github.com/kailas-cloud/nivosearch/internal/domain/settings"
)

const fixturesYAML = `
products:
  - id: 10
    title: Blue Shirt Long
    slug: blue-shirt-long
    excerpt: A long sleeved blue shirt
    sku: BSL-1
    regular_price: "25"
  - id: 11
    title: Shirt
    slug: shirt
    sku: SH-1
    regular_price: "20"
    sale_price: "15"
    image: https://shop.test/wp-content/uploads/shirt.jpg
  - id: 12
    title: Red Hoodie
    slug: red-hoodie
    content: Warm and 100% cotton
    sku: shirt
    regular_price: "40"
    stock_status: outofstock
  - id: 13
    title: Draft Shirt
    slug: draft-shirt
    status: draft
  - id: 14
    title: Shirt_Pack
    slug: shirt-pack
terms:
  - id: 100
    name: Shirts
    slug: shirts
    taxonomy: product_cat
    count: 3
  - id: 101
    name: Empty Shirts
    slug: empty-shirts
    taxonomy: product_cat
    count: 0
  - id: 102
    name: shirt-sale
    slug: shirt-sale
    taxonomy: product_tag
    count: 1
`

func setupTestRepo(t *testing.T) *Repo {
	t.Helper()
	ctx := context.Background()

	conn, err := sqldb.Open(ctx, sqldb.Config{Driver: sqldb.DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, CreateSchema(ctx, conn, "wp_"))
	fx, err := LoadFixtures(strings.NewReader(fixturesYAML))
	require.NoError(t, err)
	require.NoError(t, Seed(ctx, conn, "wp_", fx))

	repo, err := New(conn, Config{
		TablePrefix: "wp_",
		SiteURL:     "https://shop.test/",
		Currency:    Currency{Symbol: "$", Position: PosLeft, Decimals: 2, Locale: "en-US"},
	})
	require.NoError(t, err)
	return repo
}

func plan(t *testing.T, q string, mutate func(*settings.Settings)) predicate.Predicate {
	t.Helper()
	s := settings.Resolve(settings.Defaults(), nil, nil, nil)
	if mutate != nil {
		mutate(&s)
	}
	p, err := predicate.Plan(q, s)
	require.NoError(t, err)
	return p
}

func ids(products []catalog.Product) []int64 {
	out := make([]int64, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestNew_InvalidPrefix(t *testing.T) {
	_, err := New(nil, Config{TablePrefix: "wp; DROP"})
	require.Error(t, err)
}

func TestSearchProducts_TitleOnly(t *testing.T) {
	repo := setupTestRepo(t)

	products, total, err := repo.SearchProducts(context.Background(), plan(t, "shirt", nil))
	require.NoError(t, err)

	// published only, newest first
	assert.Equal(t, []int64{14, 11, 10}, ids(products))
	assert.Equal(t, 3, total)
}

func TestSearchProducts_Hydration(t *testing.T) {
	repo := setupTestRepo(t)

	products, _, err := repo.SearchProducts(context.Background(), plan(t, "shirt", nil))
	require.NoError(t, err)

	var shirt catalog.Product
	for _, p := range products {
		if p.ID == 11 {
			shirt = p
		}
	}
	assert.Equal(t, "SH-1", shirt.SKU)
	assert.Equal(t, "https://shop.test/product/shirt/", shirt.Permalink)
	assert.Equal(t, "https://shop.test/wp-content/uploads/shirt.jpg", shirt.ImageURL)
	assert.Contains(t, shirt.PriceHTML, "<del")
	assert.Contains(t, shirt.PriceHTML, "15.00")
	assert.Equal(t, catalog.StockInStock, shirt.StockStatus)
}

func TestSearchProducts_SKUAndContent(t *testing.T) {
	repo := setupTestRepo(t)

	p := plan(t, "shirt", func(s *settings.Settings) {
		s.Fields = []settings.Field{settings.FieldTitle, settings.FieldSKU}
	})
	products, total, err := repo.SearchProducts(context.Background(), p)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{10, 11, 12, 14}, ids(products))
	assert.Equal(t, 4, total)

	p = plan(t, "cotton", func(s *settings.Settings) {
		s.Fields = []settings.Field{settings.FieldContent}
	})
	products, _, err = repo.SearchProducts(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, []int64{12}, ids(products))
}

func TestSearchProducts_Distinct(t *testing.T) {
	repo := setupTestRepo(t)

	// several products match on more than one field; each appears once.
	p := plan(t, "sh", func(s *settings.Settings) {
		s.Fields = []settings.Field{settings.FieldTitle, settings.FieldSKU, settings.FieldExcerpt}
	})
	products, total, err := repo.SearchProducts(context.Background(), p)
	require.NoError(t, err)

	seen := map[int64]bool{}
	for _, pr := range products {
		assert.False(t, seen[pr.ID], "duplicate product %d", pr.ID)
		seen[pr.ID] = true
	}
	assert.Equal(t, len(products), total)
}

func TestSearchProducts_ExcludeOutOfStock(t *testing.T) {
	repo := setupTestRepo(t)

	p := plan(t, "hoodie", func(s *settings.Settings) { s.ExcludeOutOfStock = true })
	products, total, err := repo.SearchProducts(context.Background(), p)
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.Equal(t, 0, total)

	p = plan(t, "hoodie", nil)
	products, _, err = repo.SearchProducts(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, []int64{12}, ids(products))
	assert.Equal(t, catalog.StockOutOfStock, products[0].StockStatus)
}

func TestSearchProducts_ExcludedIDs(t *testing.T) {
	repo := setupTestRepo(t)

	p := plan(t, "shirt", func(s *settings.Settings) { s.ExcludedIDs = []int64{11, 14} })
	products, total, err := repo.SearchProducts(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, []int64{10}, ids(products))
	assert.Equal(t, 1, total)
}

func TestSearchProducts_LimitKeepsTotal(t *testing.T) {
	repo := setupTestRepo(t)

	p := plan(t, "shirt", func(s *settings.Settings) { s.Limit = 1 })
	products, total, err := repo.SearchProducts(context.Background(), p)
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, 3, total)
}

func TestSearchProducts_WildcardsAreLiteral(t *testing.T) {
	repo := setupTestRepo(t)

	products, _, err := repo.SearchProducts(context.Background(), plan(t, "t_p", nil))
	require.NoError(t, err)
	assert.Equal(t, []int64{14}, ids(products), "underscore must not match any single char")

	p := plan(t, "100%", func(s *settings.Settings) { s.Fields = []settings.Field{settings.FieldContent} })
	products, _, err = repo.SearchProducts(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, []int64{12}, ids(products))

	products, _, err = repo.SearchProducts(context.Background(), plan(t, "%%", nil))
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestSearchProducts_NoMatch(t *testing.T) {
	repo := setupTestRepo(t)

	products, total, err := repo.SearchProducts(context.Background(), plan(t, "zzz", nil))
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
	assert.Equal(t, 0, total)
}

func TestLookupTerms(t *testing.T) {
	repo := setupTestRepo(t)

	cats, err := repo.LookupTerms(context.Background(), predicate.TermQuery{
		Taxonomy: catalog.Categories, Pattern: "%SHIRT%", Limit: 5,
	})
	require.NoError(t, err)
	require.Len(t, cats, 1, "empty terms are hidden")
	assert.Equal(t, "Shirts", cats[0].Name)
	assert.Equal(t, 3, cats[0].Count)
	assert.Equal(t, "https://shop.test/product-category/shirts/", cats[0].URL)

	tags, err := repo.LookupTerms(context.Background(), predicate.TermQuery{
		Taxonomy: catalog.Tags, Pattern: "%shirt%", Limit: 5,
	})
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "https://shop.test/product-tag/shirt-sale/", tags[0].URL)

	none, err := repo.LookupTerms(context.Background(), predicate.TermQuery{
		Taxonomy: catalog.Tags, Pattern: "%nothing%", Limit: 5,
	})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestSearchProducts_CatalogUnavailable(t *testing.T) {
	repo := setupTestRepo(t)
	require.NoError(t, repo.db.Close())

	_, _, err := repo.SearchProducts(context.Background(), plan(t, "shirt", nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCatalogUnavailable))

	_, err = repo.LookupTerms(context.Background(), predicate.TermQuery{Taxonomy: catalog.Tags, Pattern: "%a%", Limit: 5})
	assert.True(t, errors.Is(err, domain.ErrCatalogUnavailable))
}

func TestLoadFixtures_UnknownField(t *testing.T) {
	_, err := LoadFixtures(strings.NewReader("products:\n  - colour: red\n"))
	require.Error(t, err)
}
