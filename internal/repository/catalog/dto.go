package catalog

import "database/sql"

type productRow struct {
	ID       int64  `db:"ID"`
	Title    string `db:"post_title"`
	Slug     string `db:"post_name"`
	Content  string `db:"post_content"`
	Excerpt  string `db:"post_excerpt"`
	PostDate string `db:"post_date"`
}

type metaRow struct {
	PostID int64          `db:"post_id"`
	Key    string         `db:"meta_key"`
	Value  sql.NullString `db:"meta_value"`
}

type attachmentRow struct {
	ID   int64  `db:"ID"`
	GUID string `db:"guid"`
}

type termRow struct {
	ID       int64  `db:"term_id"`
	Name     string `db:"name"`
	Slug     string `db:"slug"`
	Taxonomy string `db:"taxonomy"`
	Count    int    `db:"count"`
}
