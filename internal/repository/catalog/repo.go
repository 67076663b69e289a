package catalog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/kailas-cloud/nivosearch/internal/db"
	"github.com/kailas-cloud/nivosearch/internal/domain"
	"github.com/kailas-cloud/nivosearch/internal/domain/catalog"
	"github.com/kailas-cloud/nivosearch/internal/domain/search/predicate"
)

var prefixRe = regexp.MustCompile(`^[A-Za-z0-9_]*$`)

// Config describes the catalog schema and link layout.
type Config struct {
	TablePrefix string
	SiteURL     string
	Currency    Currency
}

// Repo is the read-only catalog executor.
type Repo struct {
	db      *sqlx.DB
	tables  tables
	siteURL string
	price   *PriceFormatter
}

// New creates a catalog repository.
func New(conn *sqlx.DB, cfg Config) (*Repo, error) {
	if !prefixRe.MatchString(cfg.TablePrefix) {
		return nil, fmt.Errorf("invalid table prefix %q", cfg.TablePrefix)
	}
	return &Repo{
		db:      conn,
		tables:  newTables(cfg.TablePrefix),
		siteURL: strings.TrimRight(cfg.SiteURL, "/"),
		price:   NewPriceFormatter(cfg.Currency),
	}, nil
}

// Ping checks catalog connectivity.
func (r *Repo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// SearchProducts runs the product predicate and returns at most p.Limit
// products in catalog order plus the unlimited match count.
func (r *Repo) SearchProducts(ctx context.Context, p predicate.Predicate) ([]catalog.Product, int, error) {
	q, args, err := r.tables.selectProducts(p)
	if err != nil {
		return nil, 0, unavailable(db.OpSelectProducts, err)
	}
	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), args...); err != nil {
		return nil, 0, unavailable(db.OpSelectProducts, err)
	}

	cq, cargs, err := r.tables.countProducts(p)
	if err != nil {
		return nil, 0, unavailable(db.OpCountProducts, err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(cq), cargs...); err != nil {
		return nil, 0, unavailable(db.OpCountProducts, err)
	}

	if len(rows) == 0 {
		return []catalog.Product{}, total, nil
	}
	products, err := r.hydrate(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// hydrate attaches meta values, price markup, permalinks and thumbnails.
func (r *Repo) hydrate(ctx context.Context, rows []productRow) ([]catalog.Product, error) {
	ids := make([]int64, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	q, args, err := r.tables.selectMeta(ids)
	if err != nil {
		return nil, unavailable(db.OpSelectProducts, err)
	}
	var metas []metaRow
	if err := r.db.SelectContext(ctx, &metas, r.db.Rebind(q), args...); err != nil {
		return nil, unavailable(db.OpSelectProducts, err)
	}
	meta := make(map[int64]map[string]string, len(rows))
	for _, m := range metas {
		if meta[m.PostID] == nil {
			meta[m.PostID] = map[string]string{}
		}
		meta[m.PostID][m.Key] = m.Value.String
	}

	images, err := r.thumbnails(ctx, meta)
	if err != nil {
		return nil, err
	}

	out := make([]catalog.Product, len(rows))
	for i, row := range rows {
		m := meta[row.ID]
		out[i] = catalog.Product{
			ID:          row.ID,
			Title:       row.Title,
			Slug:        row.Slug,
			SKU:         m[metaSKU],
			Content:     row.Content,
			Excerpt:     row.Excerpt,
			Permalink:   r.productURL(row.ID, row.Slug),
			ImageURL:    images[row.ID],
			PriceHTML:   r.price.HTML(m[metaPrice], m[metaRegularPrice], m[metaSalePrice]),
			StockStatus: stockStatus(m[metaStockStatus]),
		}
	}
	return out, nil
}

// thumbnails resolves product id to image URL through the attachment posts.
func (r *Repo) thumbnails(ctx context.Context, meta map[int64]map[string]string) (map[int64]string, error) {
	byAttachment := map[int64][]int64{}
	var attIDs []int64
	for pid, m := range meta {
		aid, err := strconv.ParseInt(m[metaThumbnailID], 10, 64)
		if err != nil || aid <= 0 {
			continue
		}
		if _, seen := byAttachment[aid]; !seen {
			attIDs = append(attIDs, aid)
		}
		byAttachment[aid] = append(byAttachment[aid], pid)
	}
	out := make(map[int64]string, len(meta))
	if len(attIDs) == 0 {
		return out, nil
	}

	q, args, err := r.tables.selectAttachments(attIDs)
	if err != nil {
		return nil, unavailable(db.OpSelectProducts, err)
	}
	var atts []attachmentRow
	if err := r.db.SelectContext(ctx, &atts, r.db.Rebind(q), args...); err != nil {
		return nil, unavailable(db.OpSelectProducts, err)
	}
	for _, a := range atts {
		for _, pid := range byAttachment[a.ID] {
			out[pid] = a.GUID
		}
	}
	return out, nil
}

// LookupTerms runs one taxonomy lookup. Zero rows is an empty slice.
func (r *Repo) LookupTerms(ctx context.Context, q predicate.TermQuery) ([]catalog.Term, error) {
	sql, args := r.tables.selectTerms(q)
	var rows []termRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(sql), args...); err != nil {
		return nil, unavailable(db.OpSelectTerms, err)
	}
	out := make([]catalog.Term, len(rows))
	for i, row := range rows {
		tax := catalog.Taxonomy(row.Taxonomy)
		out[i] = catalog.Term{
			ID:       row.ID,
			Name:     row.Name,
			Slug:     row.Slug,
			Taxonomy: tax,
			URL:      r.termURL(tax, row.Slug),
			Count:    row.Count,
		}
	}
	return out, nil
}

func (r *Repo) productURL(id int64, slug string) string {
	if slug == "" {
		return r.siteURL + "/?p=" + strconv.FormatInt(id, 10)
	}
	return r.siteURL + "/product/" + slug + "/"
}

func (r *Repo) termURL(tax catalog.Taxonomy, slug string) string {
	base := "/product-category/"
	if tax == catalog.Tags {
		base = "/product-tag/"
	}
	return r.siteURL + base + slug + "/"
}

func stockStatus(v string) string {
	if v == "" {
		return catalog.StockInStock
	}
	return v
}

// unavailable hides driver errors behind the catalog sentinel while keeping
// the operation for logs. Cancellation is passed through unchanged.
func unavailable(op string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, &db.Error{Op: op, Err: err})
}
