package api

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/blog-platform-backend/models"
)

func TestCreateCategory(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.register(t, "Alice", "alice@example.com")

	rec := env.request(t, http.MethodPost, "/api/categories", token, map[string]string{
		"name":        "Web Development",
		"description": "frameworks and friends",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Data models.Category `json:"data"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, "Web Development", resp.Data.Name)
	assert.Equal(t, "web-development", resp.Data.Slug)
	assert.Equal(t, userID, resp.Data.UserID)
	require.NotNil(t, resp.Data.Description)
	assert.Equal(t, "frameworks and friends", *resp.Data.Description)
}

func TestCreateCategoryDuplicate(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "Alice", "alice@example.com")
	env.createCategory(t, token, "Tech")

	rec := env.request(t, http.MethodPost, "/api/categories", token, map[string]string{"name": "Tech"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Name already exists", failureMessage(t, rec))
}

func TestCreateCategoryValidation(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "Alice", "alice@example.com")

	rec := env.request(t, http.MethodPost, "/api/categories", token, map[string]string{"name": ""})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Name is required", failureMessage(t, rec))
}

func TestListAndGetCategories(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "Alice", "alice@example.com")
	tech := env.createCategory(t, token, "Tech")
	env.createCategory(t, token, "Life")

	t.Run("list", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/api/categories", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Count int               `json:"count"`
			Data  []models.Category `json:"data"`
		}
		decodeBody(t, rec, &resp)
		assert.Equal(t, 2, resp.Count)
		assert.Len(t, resp.Data, 2)
	})

	t.Run("get", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/api/categories/"+tech.ID.String(), "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data models.Category `json:"data"`
		}
		decodeBody(t, rec, &resp)
		assert.Equal(t, tech.ID, resp.Data.ID)
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/api/categories/"+uuid.New().String(), "", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Category not found", failureMessage(t, rec))
	})

	t.Run("malformed id", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/api/categories/nope", "", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Resource not found", failureMessage(t, rec))
	})
}

func TestUpdateCategoryOwnership(t *testing.T) {
	env := newTestEnv(t)
	aliceToken, _ := env.register(t, "Alice", "alice@example.com")
	bobToken, _ := env.register(t, "Bob", "bob@example.com")
	category := env.createCategory(t, aliceToken, "Tech")
	path := "/api/categories/" + category.ID.String()

	rec := env.request(t, http.MethodPut, path, bobToken, map[string]string{"name": "Hijacked"})
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Not authorized to update this category", failureMessage(t, rec))

	rec = env.request(t, http.MethodPut, path, aliceToken, map[string]string{"name": "Technology"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data models.Category `json:"data"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, "Technology", resp.Data.Name)
	assert.Equal(t, "technology", resp.Data.Slug)
}

func TestDeleteCategoryOwnership(t *testing.T) {
	env := newTestEnv(t)
	aliceToken, _ := env.register(t, "Alice", "alice@example.com")
	bobToken, _ := env.register(t, "Bob", "bob@example.com")
	adminToken, adminID := env.register(t, "Admin", "admin@example.com")
	env.promoteToAdmin(t, adminID)

	category := env.createCategory(t, aliceToken, "Tech")
	path := "/api/categories/" + category.ID.String()

	rec := env.request(t, http.MethodDelete, path, bobToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Not authorized to delete this category", failureMessage(t, rec))

	rec = env.request(t, http.MethodDelete, path, adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.request(t, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
