package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestConstructorsWrapSentinels(t *testing.T) {
	tests := []struct {
		err      *ApiErr
		sentinel error
		status   int
	}{
		{NewNotFoundError("Post not found"), ErrNotFound, http.StatusNotFound},
		{NewBadRequestError("bad"), ErrBadRequest, http.StatusBadRequest},
		{NewUnauthorizedError("nope"), ErrUnauthorized, http.StatusUnauthorized},
		{NewForbiddenError("nope"), ErrForbidden, http.StatusForbidden},
		{NewInternalError("boom"), ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.err.StatusCode)
		assert.True(t, errors.Is(tt.err, tt.sentinel))
	}
}

func TestSentinelPredicates(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFoundError("Post not found")))
	assert.True(t, IsUnauthorized(NewUnauthorizedError("Invalid credentials")))
	assert.True(t, IsForbidden(NewForbiddenError("Not authorized to update this post")))
	assert.True(t, IsDuplicate(FromDatabase("create", "email", gorm.ErrDuplicatedKey)))

	wrapped := fmt.Errorf("handler context: %w", NewForbiddenError("nope"))
	assert.True(t, IsForbidden(wrapped))
	assert.False(t, IsUnauthorized(wrapped))
	assert.False(t, IsNotFound(errors.New("plain")))
}

func TestMessageStripsSentinel(t *testing.T) {
	assert.Equal(t, "Post not found", Message(NewNotFoundError("Post not found")))
	assert.Equal(t, "Invalid credentials", Message(NewUnauthorizedError("Invalid credentials")))
	assert.Equal(t, "Server Error", Message(errors.New("raw driver error")))
}

func TestMessageSeesWrappedApiErr(t *testing.T) {
	wrapped := fmt.Errorf("handler context: %w", NewForbiddenError("Not authorized to update this post"))
	assert.Equal(t, "Not authorized to update this post", Message(wrapped))
}

func TestNewValidationErrorJoinsMessages(t *testing.T) {
	err := NewValidationError("Title is required", "Content is required")
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "Title is required, Content is required", Message(err))
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestFromDatabaseNotFound(t *testing.T) {
	err := FromDatabase("find", "post", gorm.ErrRecordNotFound)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.Equal(t, "Post not found", Message(err))
	assert.True(t, IsNotFound(err))
}

func TestFromDatabaseDuplicate(t *testing.T) {
	tests := []struct {
		name   string
		cause  error
		entity string
		want   string
		field  string
	}{
		{
			name:   "translated gorm error",
			cause:  gorm.ErrDuplicatedKey,
			entity: "email",
			want:   "Email already exists",
			field:  "email",
		},
		{
			name:   "sqlite message",
			cause:  errors.New("UNIQUE constraint failed: categories.name"),
			entity: "category",
			want:   "Name already exists",
			field:  "name",
		},
		{
			name:   "postgres message",
			cause:  errors.New(`ERROR: duplicate key value violates unique constraint "idx_posts_slug" (SQLSTATE 23505)`),
			entity: "post",
			want:   "Slug already exists",
			field:  "slug",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromDatabase("create", tt.entity, tt.cause)
			require.NotNil(t, err)
			assert.Equal(t, http.StatusBadRequest, err.StatusCode)
			assert.Equal(t, tt.want, Message(err))
			assert.Equal(t, tt.field, err.Field)
			assert.True(t, IsDuplicate(err))
		})
	}
}

func TestFromDatabaseUnknownErrorIsInternal(t *testing.T) {
	cause := errors.New("connection refused")
	err := FromDatabase("find", "post", cause)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusInternalServerError, err.StatusCode)
	assert.Equal(t, "failed to find post", Message(err))
	assert.ErrorIs(t, err, ErrInternal)
	assert.Contains(t, err.GetFullError(), "connection refused")
}

func TestFromDatabaseNilCause(t *testing.T) {
	assert.Nil(t, FromDatabase("find", "post", nil))
}
