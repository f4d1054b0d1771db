package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/blog-platform-backend/models"
)

type listEnvelope struct {
	Success    bool `json:"success"`
	Count      int  `json:"count"`
	Pagination struct {
		Next *PageWindow `json:"next"`
		Prev *PageWindow `json:"prev"`
	} `json:"pagination"`
	Data []models.Post `json:"data"`
}

func TestListPostsPagination(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "Alice", "alice@example.com")
	category := env.createCategory(t, token, "Tech")

	for i := 0; i < 12; i++ {
		env.createPost(t, token, fmt.Sprintf("Post Number %d", i), category.ID)
	}

	t.Run("first page has next only", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/api/posts", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp listEnvelope
		decodeBody(t, rec, &resp)
		assert.Equal(t, 10, resp.Count)
		assert.Len(t, resp.Data, 10)
		require.NotNil(t, resp.Pagination.Next)
		assert.Equal(t, PageWindow{Page: 2, Limit: 10}, *resp.Pagination.Next)
		assert.Nil(t, resp.Pagination.Prev)
	})

	t.Run("last page has prev only", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/api/posts?page=2", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp listEnvelope
		decodeBody(t, rec, &resp)
		assert.Equal(t, 2, resp.Count)
		assert.Nil(t, resp.Pagination.Next)
		require.NotNil(t, resp.Pagination.Prev)
		assert.Equal(t, PageWindow{Page: 1, Limit: 10}, *resp.Pagination.Prev)
	})

	t.Run("custom limit", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/api/posts?page=2&limit=5", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp listEnvelope
		decodeBody(t, rec, &resp)
		assert.Len(t, resp.Data, 5)
		require.NotNil(t, resp.Pagination.Next)
		assert.Equal(t, PageWindow{Page: 3, Limit: 5}, *resp.Pagination.Next)
		require.NotNil(t, resp.Pagination.Prev)
		assert.Equal(t, PageWindow{Page: 1, Limit: 5}, *resp.Pagination.Prev)
	})
}

func TestListPostsFilters(t *testing.T) {
	env := newTestEnv(t)
	aliceToken, aliceID := env.register(t, "Alice", "alice@example.com")
	bobToken, _ := env.register(t, "Bob", "bob@example.com")
	tech := env.createCategory(t, aliceToken, "Tech")
	life := env.createCategory(t, aliceToken, "Life")

	env.createPost(t, aliceToken, "Go Notes", tech.ID)
	env.createPost(t, bobToken, "Channel Patterns", tech.ID)
	env.createPost(t, aliceToken, "Sourdough", life.ID)

	t.Run("by category", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/api/posts?category="+tech.ID.String(), "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp listEnvelope
		decodeBody(t, rec, &resp)
		assert.Equal(t, 2, resp.Count)
	})

	t.Run("by author", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/api/posts?user="+aliceID.String(), "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp listEnvelope
		decodeBody(t, rec, &resp)
		assert.Equal(t, 2, resp.Count)
	})

	t.Run("by slug", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/api/posts?slug=sourdough", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp listEnvelope
		decodeBody(t, rec, &resp)
		require.Equal(t, 1, resp.Count)
		assert.Equal(t, "Sourdough", resp.Data[0].Title)
	})

	t.Run("sort by title", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/api/posts?sort=title", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp listEnvelope
		decodeBody(t, rec, &resp)
		require.Len(t, resp.Data, 3)
		assert.Equal(t, "Channel Patterns", resp.Data[0].Title)
		assert.Equal(t, "Sourdough", resp.Data[2].Title)
	})

	t.Run("select subset of fields", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/api/posts?select=title,slug", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp listEnvelope
		decodeBody(t, rec, &resp)
		require.Len(t, resp.Data, 3)
		assert.NotEmpty(t, resp.Data[0].Title)
		assert.Empty(t, resp.Data[0].Content)
		// relations survive field selection
		assert.NotNil(t, resp.Data[0].User)
	})

	t.Run("unknown filter keys are ignored", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/api/posts?bogus=1&sort=nope", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp listEnvelope
		decodeBody(t, rec, &resp)
		assert.Equal(t, 3, resp.Count)
	})
}
