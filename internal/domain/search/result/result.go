// Package result holds ranked matches and the display-ready response.
package result

import "github.com/kailas-cloud/nivosearch/internal/domain/catalog"

// Match is a product with its request-local relevance score.
type Match struct {
	Product catalog.Product
	Score   int
}

// Product is one formatted product row. Optional fields are empty when
// hidden by the display settings.
type Product struct {
	ID               int64
	Title            string
	URL              string
	Image            string
	Price            string
	SKU              string
	ShortDescription string
}

// Term is one formatted category or tag.
type Term struct {
	ID    int64
	Title string
	URL   string
	Count int
	// Type is "tag" for tags and empty for categories.
	Type string
}

// Applied is the settings subset echoed for client-side display toggling.
type Applied struct {
	ShowImages      int
	ShowPrice       int
	ShowSKU         int
	ShowDescription int
	MinChars        int
	Delay           int
	Limit           int
	ResultsPadding  int
}

// Response is the full result of one search. Slices are never nil.
type Response struct {
	Categories []Term
	Tags       []Term
	Products   []Product
	Settings   Applied
	Total      int
}
