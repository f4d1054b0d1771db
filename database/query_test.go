package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindowDefaults(t *testing.T) {
	tests := []struct {
		name      string
		query     PostQuery
		wantPage  int
		wantLimit int
	}{
		{"zero values", PostQuery{}, DefaultPage, DefaultLimit},
		{"negative values", PostQuery{Page: -1, Limit: -5}, DefaultPage, DefaultLimit},
		{"explicit values", PostQuery{Page: 3, Limit: 25}, 3, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit := tt.query.Window()
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestPostColumnAllowList(t *testing.T) {
	col, ok := PostColumn("createdAt")
	assert.True(t, ok)
	assert.Equal(t, "created_at", col)

	col, ok = PostColumn("title")
	assert.True(t, ok)
	assert.Equal(t, "title", col)

	// anything outside the allow-list is rejected, never passed through
	_, ok = PostColumn("password")
	assert.False(t, ok)
	_, ok = PostColumn("1; DROP TABLE posts")
	assert.False(t, ok)
}

func TestOrderClauses(t *testing.T) {
	assert.Equal(t, []string{"created_at DESC"}, PostQuery{}.orderClauses())

	q := PostQuery{Sort: []SortField{
		{Column: "created_at", Desc: true},
		{Column: "title"},
	}}
	assert.Equal(t, []string{"created_at DESC", "title ASC"}, q.orderClauses())
}

func TestSelectColumnsKeepForeignKeys(t *testing.T) {
	assert.Nil(t, PostQuery{}.selectColumns())

	q := PostQuery{Select: []string{"title", "slug", "id"}}
	assert.Equal(t, []string{"id", "user_id", "category_id", "title", "slug"}, q.selectColumns())
}
