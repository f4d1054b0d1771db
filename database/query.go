package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Pagination defaults for post listings.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// postColumns is the allow-list of filterable/sortable/selectable post
// fields, keyed by their JSON names. Query parameters naming anything else
// are ignored rather than interpreted as database operators.
var postColumns = map[string]string{
	"title":     "title",
	"slug":      "slug",
	"content":   "content",
	"image":     "image",
	"published": "published",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// PostColumn maps a JSON field name to its column, reporting whether the
// field is allow-listed.
func PostColumn(name string) (string, bool) {
	col, ok := postColumns[name]
	return col, ok
}

// SortField is a single ORDER BY term.
type SortField struct {
	Column string
	Desc   bool
}

// PostQuery is the typed filter a post listing runs with. Every field is
// explicit; there is no pass-through of raw query-string keys into the
// database.
type PostQuery struct {
	CategoryIn []uuid.UUID
	AuthorIn   []uuid.UUID
	Slug       string
	Published  *bool
	Tag        string

	CreatedGT  *time.Time
	CreatedGTE *time.Time
	CreatedLT  *time.Time
	CreatedLTE *time.Time

	Select []string // column names, already mapped through PostColumn
	Sort   []SortField

	Page  int
	Limit int
}

// Window returns the sanitized page/limit pair.
func (q PostQuery) Window() (page, limit int) {
	page, limit = q.Page, q.Limit
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	return page, limit
}

// applyFilters adds the WHERE clauses for the query. Used as a gorm scope
// for both the count and the page fetch.
func (q PostQuery) applyFilters(tx *gorm.DB) *gorm.DB {
	switch len(q.CategoryIn) {
	case 0:
	case 1:
		tx = tx.Where("category_id = ?", q.CategoryIn[0])
	default:
		tx = tx.Where("category_id IN ?", q.CategoryIn)
	}

	switch len(q.AuthorIn) {
	case 0:
	case 1:
		tx = tx.Where("user_id = ?", q.AuthorIn[0])
	default:
		tx = tx.Where("user_id IN ?", q.AuthorIn)
	}

	if q.Slug != "" {
		tx = tx.Where("slug = ?", q.Slug)
	}
	if q.Published != nil {
		tx = tx.Where("published = ?", *q.Published)
	}
	if q.Tag != "" {
		tx = jsonArrayContains(tx, "tags", q.Tag)
	}

	if q.CreatedGT != nil {
		tx = tx.Where("created_at > ?", *q.CreatedGT)
	}
	if q.CreatedGTE != nil {
		tx = tx.Where("created_at >= ?", *q.CreatedGTE)
	}
	if q.CreatedLT != nil {
		tx = tx.Where("created_at < ?", *q.CreatedLT)
	}
	if q.CreatedLTE != nil {
		tx = tx.Where("created_at <= ?", *q.CreatedLTE)
	}

	return tx
}

// jsonArrayContains builds a dialect-aware membership test for a JSON
// string-array column.
func jsonArrayContains(tx *gorm.DB, column, value string) *gorm.DB {
	switch tx.Dialector.Name() {
	case "postgres":
		return tx.Where(column+"::jsonb @> to_jsonb(?::text)", value)
	default: // sqlite
		return tx.Where("EXISTS (SELECT 1 FROM json_each("+column+") WHERE json_each.value = ?)", value)
	}
}

// selectColumns returns the SELECT list, or nil for all columns. The id
// and foreign keys are always included so preloads keep working.
func (q PostQuery) selectColumns() []string {
	if len(q.Select) == 0 {
		return nil
	}
	cols := []string{"id", "user_id", "category_id"}
	for _, col := range q.Select {
		if col == "id" || col == "user_id" || col == "category_id" {
			continue
		}
		cols = append(cols, col)
	}
	return cols
}

// orderClauses returns the ORDER BY terms, defaulting to newest first.
func (q PostQuery) orderClauses() []string {
	if len(q.Sort) == 0 {
		return []string{"created_at DESC"}
	}
	clauses := make([]string, 0, len(q.Sort))
	for _, s := range q.Sort {
		if s.Desc {
			clauses = append(clauses, s.Column+" DESC")
		} else {
			clauses = append(clauses, s.Column+" ASC")
		}
	}
	return clauses
}
