// Package catalog holds the read-only shapes of store entries returned by
// the catalog executor.
package catalog

// Stock statuses used by the store.
const (
	StockInStock    = "instock"
	StockOutOfStock = "outofstock"
	StockBackorder  = "onbackorder"
)

// Taxonomy names a product term vocabulary.
type Taxonomy string

// Product taxonomies searched alongside products.
const (
	Categories Taxonomy = "product_cat"
	Tags       Taxonomy = "product_tag"
)

// Product is a published catalog product.
type Product struct {
	ID          int64
	Title       string
	Slug        string
	SKU         string
	Content     string
	Excerpt     string
	Permalink   string
	ImageURL    string
	PriceHTML   string
	StockStatus string
}

// Term is a category or tag.
type Term struct {
	ID       int64
	Name     string
	Slug     string
	Taxonomy Taxonomy
	URL      string
	Count    int
}
