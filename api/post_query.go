package api

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rpupo63/blog-platform-backend/database"
)

// parsePostQuery translates listing query parameters into the typed filter
// the repository runs. Only allow-listed fields and comparison suffixes
// are honored; unknown keys and unparsable values are dropped instead of
// being passed to the database.
//
// Supported parameters:
//
//	select=title,slug            field selection
//	sort=-createdAt,title        order, '-' prefix for descending
//	page=2&limit=10              pagination window
//	published=true               equality filters
//	category=<uuid>&user=<uuid>  (comma-separated lists mean IN)
//	slug=hello-world
//	tag=golang                   tag membership
//	createdAt[gte]=2026-01-01    createdAt comparisons (gt|gte|lt|lte)
func parsePostQuery(values url.Values) database.PostQuery {
	var q database.PostQuery

	q.Page, _ = strconv.Atoi(values.Get("page"))
	q.Limit, _ = strconv.Atoi(values.Get("limit"))

	for _, name := range splitList(values.Get("select")) {
		if col, ok := database.PostColumn(name); ok {
			q.Select = append(q.Select, col)
		}
	}

	for _, name := range splitList(values.Get("sort")) {
		desc := strings.HasPrefix(name, "-")
		name = strings.TrimPrefix(name, "-")
		if col, ok := database.PostColumn(name); ok {
			q.Sort = append(q.Sort, database.SortField{Column: col, Desc: desc})
		}
	}

	if raw := values.Get("published"); raw != "" {
		if published, err := strconv.ParseBool(raw); err == nil {
			q.Published = &published
		}
	}

	q.CategoryIn = parseIDList(values, "category")
	q.AuthorIn = parseIDList(values, "user")
	q.Slug = values.Get("slug")
	q.Tag = values.Get("tag")

	q.CreatedGT = parseTimeParam(values, "createdAt[gt]")
	q.CreatedGTE = parseTimeParam(values, "createdAt[gte]")
	q.CreatedLT = parseTimeParam(values, "createdAt[lt]")
	q.CreatedLTE = parseTimeParam(values, "createdAt[lte]")

	return q
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseIDList reads key and key[in] as uuid lists; bad values are dropped.
func parseIDList(values url.Values, key string) []uuid.UUID {
	raw := values.Get(key)
	if raw == "" {
		raw = values.Get(key + "[in]")
	}
	var ids []uuid.UUID
	for _, part := range splitList(raw) {
		if id, err := uuid.Parse(part); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// parseTimeParam accepts RFC 3339 timestamps or bare dates.
func parseTimeParam(values url.Values, key string) *time.Time {
	raw := values.Get(key)
	if raw == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t
	}
	return nil
}
