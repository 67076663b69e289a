package catalog

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/kailas-cloud/nivosearch/internal/domain/catalog"
	"github.com/kailas-cloud/nivosearch/internal/domain/search/predicate"
	"github.com/kailas-cloud/nivosearch/internal/domain/settings"
)

var escapeClause = fmt.Sprintf(" ESCAPE '%c'", predicate.EscapeChar)

// productWhere renders the FROM and WHERE clauses shared by the select and
// the count. The OR group covers the enabled fields; the SKU join is only
// added when SKU is searched.
func (t tables) productWhere(p predicate.Predicate) (string, []any, error) {
	var b strings.Builder
	var args []any

	fmt.Fprintf(&b, " FROM %s p", t.posts)
	if p.HasField(settings.FieldSKU) {
		fmt.Fprintf(&b, " LEFT JOIN %s sku ON sku.post_id = p.ID AND sku.meta_key = '%s'", t.postmeta, metaSKU)
	}
	if p.ExcludeOutOfStock {
		fmt.Fprintf(&b, " LEFT JOIN %s stock ON stock.post_id = p.ID AND stock.meta_key = '%s'", t.postmeta, metaStockStatus)
	}

	b.WriteString(" WHERE p.post_type = ? AND p.post_status = ?")
	args = append(args, p.PostType, p.Status)

	conds := make([]string, 0, len(p.Fields))
	for _, f := range p.Fields {
		col, ok := fieldColumn(f)
		if !ok {
			continue
		}
		conds = append(conds, col+" LIKE ?"+escapeClause)
		args = append(args, p.Pattern)
	}
	if len(conds) == 0 {
		conds = append(conds, "p.post_title LIKE ?"+escapeClause)
		args = append(args, p.Pattern)
	}
	b.WriteString(" AND (" + strings.Join(conds, " OR ") + ")")

	if p.ExcludeOutOfStock {
		b.WriteString(" AND (stock.meta_value IS NULL OR stock.meta_value <> ?)")
		args = append(args, catalog.StockOutOfStock)
	}

	if len(p.ExcludedIDs) > 0 {
		b.WriteString(" AND p.ID NOT IN (?)")
		args = append(args, p.ExcludedIDs)
		q, expanded, err := sqlx.In(b.String(), args...)
		if err != nil {
			return "", nil, fmt.Errorf("expand exclusions: %w", err)
		}
		return q, expanded, nil
	}
	return b.String(), args, nil
}

func fieldColumn(f settings.Field) (string, bool) {
	switch f {
	case settings.FieldTitle:
		return "p.post_title", true
	case settings.FieldContent:
		return "p.post_content", true
	case settings.FieldExcerpt:
		return "p.post_excerpt", true
	case settings.FieldSKU:
		return "sku.meta_value", true
	}
	return "", false
}

// selectProducts returns the deduplicated, limited product query in
// catalog order (newest first).
func (t tables) selectProducts(p predicate.Predicate) (string, []any, error) {
	where, args, err := t.productWhere(p)
	if err != nil {
		return "", nil, err
	}
	q := "SELECT DISTINCT p.ID, p.post_title, p.post_name, p.post_content, p.post_excerpt, p.post_date" +
		where + " ORDER BY p.post_date DESC, p.ID DESC LIMIT ?"
	return q, append(args, p.Limit), nil
}

func (t tables) countProducts(p predicate.Predicate) (string, []any, error) {
	where, args, err := t.productWhere(p)
	if err != nil {
		return "", nil, err
	}
	return "SELECT COUNT(DISTINCT p.ID)" + where, args, nil
}

func (t tables) selectMeta(ids []int64) (string, []any, error) {
	q := fmt.Sprintf("SELECT post_id, meta_key, meta_value FROM %s WHERE post_id IN (?) AND meta_key IN (?)", t.postmeta)
	return sqlx.In(q, ids, productMetaKeys)
}

func (t tables) selectAttachments(ids []int64) (string, []any, error) {
	q := fmt.Sprintf("SELECT ID, guid FROM %s WHERE ID IN (?) AND post_type = 'attachment'", t.posts)
	return sqlx.In(q, ids)
}

// selectTerms matches names case-insensitively and skips empty terms.
func (t tables) selectTerms(q predicate.TermQuery) (string, []any) {
	sql := fmt.Sprintf("SELECT t.term_id, t.name, t.slug, tt.taxonomy, tt.count FROM %s t"+
		" JOIN %s tt ON tt.term_id = t.term_id"+
		" WHERE tt.taxonomy = ? AND LOWER(t.name) LIKE LOWER(?)%s AND tt.count > 0"+
		" ORDER BY t.name ASC LIMIT ?", t.terms, t.termTaxonomy, escapeClause)
	return sql, []any{string(q.Taxonomy), q.Pattern, q.Limit}
}
