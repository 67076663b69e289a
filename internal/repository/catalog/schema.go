package catalog

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/nivosearch/internal/domain/catalog"
	"github.com/kailas-cloud/nivosearch/internal/domain/search/predicate"
)

// attachmentIDOffset keeps seeded attachment ids clear of product ids.
const attachmentIDOffset = 1_000_000

// Fixtures is a development catalog loaded from YAML.
type Fixtures struct {
	Products []FixtureProduct `yaml:"products"`
	Terms    []FixtureTerm    `yaml:"terms"`
}

// FixtureProduct is one seeded product.
type FixtureProduct struct {
	ID           int64  `yaml:"id"`
	Title        string `yaml:"title"`
	Slug         string `yaml:"slug"`
	Content      string `yaml:"content"`
	Excerpt      string `yaml:"excerpt"`
	SKU          string `yaml:"sku"`
	Price        string `yaml:"price"`
	RegularPrice string `yaml:"regular_price"`
	SalePrice    string `yaml:"sale_price"`
	StockStatus  string `yaml:"stock_status"`
	Status       string `yaml:"status"`
	Image        string `yaml:"image"`
	Date         string `yaml:"date"`
}

// FixtureTerm is one seeded category or tag.
type FixtureTerm struct {
	ID       int64  `yaml:"id"`
	Name     string `yaml:"name"`
	Slug     string `yaml:"slug"`
	Taxonomy string `yaml:"taxonomy"`
	Count    int    `yaml:"count"`
}

// LoadFixtures decodes a fixtures document, rejecting unknown fields.
func LoadFixtures(r io.Reader) (Fixtures, error) {
	var f Fixtures
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return Fixtures{}, fmt.Errorf("decode fixtures: %w", err)
	}
	return f, nil
}

// CreateSchema creates the subset of the store schema the executor reads.
// Intended for SQLite development databases and tests.
func CreateSchema(ctx context.Context, conn *sqlx.DB, prefix string) error {
	if !prefixRe.MatchString(prefix) {
		return fmt.Errorf("invalid table prefix %q", prefix)
	}
	t := newTables(prefix)
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ` + t.posts + ` (
			ID INTEGER PRIMARY KEY,
			post_title TEXT NOT NULL DEFAULT '',
			post_name TEXT NOT NULL DEFAULT '',
			post_content TEXT NOT NULL DEFAULT '',
			post_excerpt TEXT NOT NULL DEFAULT '',
			post_status TEXT NOT NULL DEFAULT 'publish',
			post_type TEXT NOT NULL DEFAULT 'post',
			post_date DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			guid TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS ` + t.postmeta + ` (
			meta_id INTEGER PRIMARY KEY AUTOINCREMENT,
			post_id INTEGER NOT NULL,
			meta_key TEXT,
			meta_value TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS ` + prefix + `postmeta_post_key ON ` + t.postmeta + ` (post_id, meta_key)`,
		`CREATE TABLE IF NOT EXISTS ` + t.terms + ` (
			term_id INTEGER PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			slug TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS ` + t.termTaxonomy + ` (
			term_taxonomy_id INTEGER PRIMARY KEY AUTOINCREMENT,
			term_id INTEGER NOT NULL,
			taxonomy TEXT NOT NULL,
			count INTEGER NOT NULL DEFAULT 0
		)`,
	}
	for _, s := range stmts {
		if _, err := conn.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// Seed inserts fixtures in one transaction.
func Seed(ctx context.Context, conn *sqlx.DB, prefix string, f Fixtures) error {
	if !prefixRe.MatchString(prefix) {
		return fmt.Errorf("invalid table prefix %q", prefix)
	}
	t := newTables(prefix)
	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, p := range f.Products {
		if err := seedProduct(ctx, tx, t, p, base.Add(time.Duration(i)*time.Minute)); err != nil {
			return fmt.Errorf("seed product %q: %w", p.Title, err)
		}
	}
	for _, term := range f.Terms {
		if err := seedTerm(ctx, tx, t, term); err != nil {
			return fmt.Errorf("seed term %q: %w", term.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func seedProduct(ctx context.Context, tx *sqlx.Tx, t tables, p FixtureProduct, fallbackDate time.Time) error {
	status := p.Status
	if status == "" {
		status = predicate.PublishStatus
	}
	date := p.Date
	if date == "" {
		date = fallbackDate.Format("2006-01-02 15:04:05")
	}
	var id any
	if p.ID > 0 {
		id = p.ID
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO `+t.posts+
		` (ID, post_title, post_name, post_content, post_excerpt, post_status, post_type, post_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		id, p.Title, p.Slug, p.Content, p.Excerpt, status, predicate.ProductPostType, date)
	if err != nil {
		return err
	}
	pid, err := res.LastInsertId()
	if err != nil {
		return err
	}

	meta := map[string]string{
		metaSKU:          p.SKU,
		metaPrice:        p.Price,
		metaRegularPrice: p.RegularPrice,
		metaSalePrice:    p.SalePrice,
		metaStockStatus:  p.StockStatus,
	}
	if meta[metaStockStatus] == "" {
		meta[metaStockStatus] = catalog.StockInStock
	}
	if meta[metaPrice] == "" {
		meta[metaPrice] = p.SalePrice
		if meta[metaPrice] == "" {
			meta[metaPrice] = p.RegularPrice
		}
	}

	if p.Image != "" {
		aid := pid + attachmentIDOffset
		if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO `+t.posts+
			` (ID, post_title, post_status, post_type, guid, post_date) VALUES (?, ?, 'inherit', 'attachment', ?, ?)`),
			aid, p.Title, p.Image, date); err != nil {
			return err
		}
		meta[metaThumbnailID] = strconv.FormatInt(aid, 10)
	}

	for k, v := range meta {
		if v == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO `+t.postmeta+
			` (post_id, meta_key, meta_value) VALUES (?, ?, ?)`), pid, k, v); err != nil {
			return err
		}
	}
	return nil
}

func seedTerm(ctx context.Context, tx *sqlx.Tx, t tables, term FixtureTerm) error {
	var id any
	if term.ID > 0 {
		id = term.ID
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO `+t.terms+` (term_id, name, slug) VALUES (?, ?, ?)`),
		id, term.Name, term.Slug)
	if err != nil {
		return err
	}
	tid, err := res.LastInsertId()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, tx.Rebind(`INSERT INTO `+t.termTaxonomy+` (term_id, taxonomy, count) VALUES (?, ?, ?)`),
		tid, term.Taxonomy, term.Count)
	return err
}
