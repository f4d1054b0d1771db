// Package client is a typed wrapper over the REST surface. It holds the
// session token issued at login and attaches it to every request; callers
// manage the session explicitly through SetToken/ClearToken instead of a
// global store.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rpupo63/blog-platform-backend/models"
)

// APIError is a failure envelope returned by the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client talks to a blog platform server. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// New returns a client for the server at baseURL (without the /api
// prefix).
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken installs a session token for subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken drops the session.
func (c *Client) ClearToken() {
	c.SetToken("")
}

// Token returns the current session token, if any.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// do issues a JSON request and decodes the response envelope into out.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var failure struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(respBody, &failure)
		if failure.Message == "" {
			failure.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: failure.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Health checks the liveness endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil)
}

// --- auth ---

// AuthResult is the outcome of register, login, and password updates.
type AuthResult struct {
	Token string      `json:"token"`
	User  models.User `json:"data"`
}

// Register creates an account and installs the returned token.
func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var result AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &result); err != nil {
		return nil, err
	}
	c.SetToken(result.Token)
	return &result, nil
}

// Login authenticates and installs the returned token.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	var result AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &result); err != nil {
		return nil, err
	}
	c.SetToken(result.Token)
	return &result, nil
}

// Logout tells the server goodbye and clears the local session.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodGet, "/api/auth/logout", nil, nil)
	c.ClearToken()
	return err
}

// Me returns the authenticated user's record.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var envelope struct {
		Data models.User `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// UserDetails are the mutable profile fields; nil fields are untouched.
type UserDetails struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
	Bio      *string `json:"bio,omitempty"`
	Location *string `json:"location,omitempty"`
	Website  *string `json:"website,omitempty"`
}

// UpdateDetails applies a partial profile update.
func (c *Client) UpdateDetails(ctx context.Context, details UserDetails) (*models.User, error) {
	var envelope struct {
		Data models.User `json:"data"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/auth/updatedetails", details, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// UpdatePassword rotates the password and installs the fresh token.
func (c *Client) UpdatePassword(ctx context.Context, currentPassword, newPassword string) (*AuthResult, error) {
	body := map[string]string{"currentPassword": currentPassword, "newPassword": newPassword}
	var result AuthResult
	if err := c.do(ctx, http.MethodPut, "/api/auth/updatepassword", body, &result); err != nil {
		return nil, err
	}
	c.SetToken(result.Token)
	return &result, nil
}

// --- posts ---

// PostInput is the request body for creating and updating posts.
type PostInput struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Category  string   `json:"category"`
	Image     string   `json:"image,omitempty"`
	Published *bool    `json:"published,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// ListPostsOptions mirror the listing query parameters. Zero values are
// omitted.
type ListPostsOptions struct {
	Select    []string
	Sort      []string
	Page      int
	Limit     int
	Published *bool
	Category  string
	User      string
	Slug      string
	Tag       string
}

func (o ListPostsOptions) query() string {
	values := url.Values{}
	if len(o.Select) > 0 {
		values.Set("select", strings.Join(o.Select, ","))
	}
	if len(o.Sort) > 0 {
		values.Set("sort", strings.Join(o.Sort, ","))
	}
	if o.Page > 0 {
		values.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		values.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Published != nil {
		values.Set("published", strconv.FormatBool(*o.Published))
	}
	if o.Category != "" {
		values.Set("category", o.Category)
	}
	if o.User != "" {
		values.Set("user", o.User)
	}
	if o.Slug != "" {
		values.Set("slug", o.Slug)
	}
	if o.Tag != "" {
		values.Set("tag", o.Tag)
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}

// PageWindow points at a neighboring page.
type PageWindow struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// PostPage is one page of a post listing.
type PostPage struct {
	Count int           `json:"count"`
	Next  *PageWindow   `json:"-"`
	Prev  *PageWindow   `json:"-"`
	Posts []models.Post `json:"data"`
}

// ListPosts fetches one page of posts.
func (c *Client) ListPosts(ctx context.Context, opts ListPostsOptions) (*PostPage, error) {
	var envelope struct {
		Count      int `json:"count"`
		Pagination struct {
			Next *PageWindow `json:"next"`
			Prev *PageWindow `json:"prev"`
		} `json:"pagination"`
		Data []models.Post `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/posts"+opts.query(), nil, &envelope); err != nil {
		return nil, err
	}
	return &PostPage{
		Count: envelope.Count,
		Next:  envelope.Pagination.Next,
		Prev:  envelope.Pagination.Prev,
		Posts: envelope.Data,
	}, nil
}

// GetPost fetches a single post.
func (c *Client) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var envelope struct {
		Data models.Post `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/posts/"+id.String(), nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// CreatePost creates a post authored by the session user.
func (c *Client) CreatePost(ctx context.Context, input PostInput) (*models.Post, error) {
	var envelope struct {
		Data models.Post `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/posts", input, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// UpdatePost updates a post.
func (c *Client) UpdatePost(ctx context.Context, id uuid.UUID, input PostInput) (*models.Post, error) {
	var envelope struct {
		Data models.Post `json:"data"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/posts/"+id.String(), input, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// DeletePost deletes a post.
func (c *Client) DeletePost(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/posts/"+id.String(), nil, nil)
}

// UploadPostImage uploads an image for a post and returns the stored
// filename.
func (c *Client) UploadPostImage(ctx context.Context, id uuid.UUID, filename string, file io.Reader) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/api/posts/"+id.String()+"/image", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var envelope struct {
		Data string `json:"data"`
	}
	if err := c.send(req, &envelope); err != nil {
		return "", err
	}
	return envelope.Data, nil
}

// AddComment appends a comment to a post.
func (c *Client) AddComment(ctx context.Context, postID uuid.UUID, text string) (*models.Comment, error) {
	var envelope struct {
		Data models.Comment `json:"data"`
	}
	body := map[string]string{"text": text}
	if err := c.do(ctx, http.MethodPost, "/api/posts/"+postID.String()+"/comments", body, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// DeleteComment removes a comment from a post.
func (c *Client) DeleteComment(ctx context.Context, postID, commentID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/posts/"+postID.String()+"/comments/"+commentID.String(), nil, nil)
}

// LikePost likes a post and returns the updated like list.
func (c *Client) LikePost(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	var envelope struct {
		Data []uuid.UUID `json:"data"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/posts/"+id.String()+"/like", nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// UnlikePost removes the session user's like and returns the updated list.
func (c *Client) UnlikePost(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	var envelope struct {
		Data []uuid.UUID `json:"data"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/posts/"+id.String()+"/unlike", nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// --- categories ---

// CategoryInput is the request body for creating and updating categories.
type CategoryInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// ListCategories fetches all categories.
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var envelope struct {
		Data []models.Category `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// GetCategory fetches a single category.
func (c *Client) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var envelope struct {
		Data models.Category `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/categories/"+id.String(), nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// CreateCategory creates a category.
func (c *Client) CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error) {
	var envelope struct {
		Data models.Category `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/categories", input, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// UpdateCategory updates a category.
func (c *Client) UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*models.Category, error) {
	var envelope struct {
		Data models.Category `json:"data"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/categories/"+id.String(), input, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// DeleteCategory deletes a category.
func (c *Client) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/categories/"+id.String(), nil, nil)
}
