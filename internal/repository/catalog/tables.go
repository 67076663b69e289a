package catalog

// tables holds the prefixed WordPress table names.
type tables struct {
	posts        string
	postmeta     string
	terms        string
	termTaxonomy string
}

func newTables(prefix string) tables {
	return tables{
		posts:        prefix + "posts",
		postmeta:     prefix + "postmeta",
		terms:        prefix + "terms",
		termTaxonomy: prefix + "term_taxonomy",
	}
}

// Meta keys read for products.
const (
	metaSKU          = "_sku"
	metaPrice        = "_price"
	metaRegularPrice = "_regular_price"
	metaSalePrice    = "_sale_price"
	metaStockStatus  = "_stock_status"
	metaThumbnailID  = "_thumbnail_id"
)

var productMetaKeys = []string{
	metaSKU, metaPrice, metaRegularPrice, metaSalePrice, metaStockStatus, metaThumbnailID,
}
