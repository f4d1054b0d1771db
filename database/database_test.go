package database

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rpupo63/blog-platform-backend/models"
)

// newTestDB opens a throwaway in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	user := &models.User{
		Name:     name,
		Email:    fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
		Password: "irrelevant-hash",
	}
	require.NoError(t, NewUserRepo(db).Add(user))
	return user
}

func seedCategory(t *testing.T, db *gorm.DB, userID uuid.UUID, name string) *models.Category {
	t.Helper()

	category := &models.Category{Name: name, UserID: userID}
	require.NoError(t, NewCategoryRepo(db).Add(category))
	return category
}

func seedPost(t *testing.T, db *gorm.DB, userID, categoryID uuid.UUID, title string, createdAt time.Time, published bool, tags ...string) *models.Post {
	t.Helper()

	if tags == nil {
		tags = []string{}
	}
	post := &models.Post{
		Title:      title,
		Content:    "content for " + title,
		UserID:     userID,
		CategoryID: categoryID,
		Published:  published,
		Tags:       datatypes.JSONSlice[string](tags),
		CreatedAt:  createdAt,
	}
	require.NoError(t, NewPostRepo(db).Add(post))
	return post
}

// TestMigrate guards the schema against DDL that only one dialect
// accepts; the whole suite runs on the sqlite driver.
func TestMigrate(t *testing.T) {
	db := newTestDB(t)

	for _, table := range []string{"users", "categories", "posts", "comments", "likes"} {
		assert.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}
}

// TestPublishedRoundTrip pins the unpublished case: a bool column with a
// column default would silently swallow false on insert.
func TestPublishedRoundTrip(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "alice")
	category := seedCategory(t, db, author.ID, "Tech")
	repo := NewPostRepo(db)

	draft := seedPost(t, db, author.ID, category.ID, "Draft", time.Now(), false)

	found, err := repo.FindByID(draft.ID)
	require.NoError(t, err)
	assert.False(t, found.Published)
}
