package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rpupo63/blog-platform-backend/auth"
	"github.com/rpupo63/blog-platform-backend/database"
	"github.com/rpupo63/blog-platform-backend/models"
)

const testMaxUpload = 4096

// testEnv wires the full route surface over a throwaway in-memory
// database, so handler tests exercise the same middleware chain as
// production.
type testEnv struct {
	router    *chi.Mux
	db        database.Database
	tokens    auth.TokenSource
	uploadDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(gdb))

	db := database.New(gdb)
	tokens := auth.NewTokenSource("test-secret", time.Hour)
	uploadDir := t.TempDir()

	handlers := initializeHandlers(db, tokens, uploadDir, testMaxUpload, true)
	mw := newAuthMiddleware(tokens, db.UserRepo(), true)

	router := chi.NewRouter()
	setupRoutes(router, handlers, mw, uploadDir, time.Now())

	return &testEnv{router: router, db: db, tokens: tokens, uploadDir: uploadDir}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

// failureMessage extracts the message from an error envelope.
func failureMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	decodeBody(t, rec, &resp)
	require.False(t, resp.Success)
	return resp.Message
}

// register creates an account through the API and returns its token and id.
func (e *testEnv) register(t *testing.T, name, email string) (string, uuid.UUID) {
	t.Helper()

	rec := e.request(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Token string      `json:"token"`
		Data  models.User `json:"data"`
	}
	decodeBody(t, rec, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token, resp.Data.ID
}

// promoteToAdmin flips a user's role directly in storage.
func (e *testEnv) promoteToAdmin(t *testing.T, userID uuid.UUID) {
	t.Helper()

	user, err := e.db.UserRepo().FindByID(userID)
	require.NoError(t, err)
	user.Role = models.RoleAdmin
	require.NoError(t, e.db.UserRepo().Update(user))
}

func (e *testEnv) createCategory(t *testing.T, token, name string) models.Category {
	t.Helper()

	rec := e.request(t, http.MethodPost, "/api/categories", token, map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Data models.Category `json:"data"`
	}
	decodeBody(t, rec, &resp)
	return resp.Data
}

func (e *testEnv) createPost(t *testing.T, token, title string, categoryID uuid.UUID) models.Post {
	t.Helper()

	rec := e.request(t, http.MethodPost, "/api/posts", token, map[string]any{
		"title":    title,
		"content":  "content long enough for " + title,
		"category": categoryID.String(),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Data models.Post `json:"data"`
	}
	decodeBody(t, rec, &resp)
	return resp.Data
}
