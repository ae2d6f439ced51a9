package server

import (
	"fmt"
	"net/http"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	app, srv, db := setupTestServer(t)
	user := createTestUser(t, db, "author", "author@example.com", "password123")

	req := jsonRequest(http.MethodPost, "/api/posts/", map[string]any{
		"title":   "My Post",
		"content": "Some content",
	})
	req.Header.Set("Authorization", authHeader(t, srv, user.ID, user.Username))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var got models.Post
	decodeBody(t, resp, &got)
	assert.NotZero(t, got.ID)
	assert.Equal(t, "My Post", got.Title)
	assert.Equal(t, user.ID, got.UserID)
	assert.Equal(t, user.Username, got.User.Username)
}

func TestCreatePost_Validation(t *testing.T) {
	app, srv, db := setupTestServer(t)
	user := createTestUser(t, db, "author", "author@example.com", "password123")

	req := jsonRequest(http.MethodPost, "/api/posts/", map[string]any{"title": "No content"})
	req.Header.Set("Authorization", authHeader(t, srv, user.ID, user.Username))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetPost(t *testing.T) {
	app, _, db := setupTestServer(t)
	_, posts, _ := seedBlog(t, db)

	resp, err := app.Test(jsonRequest(http.MethodGet, fmt.Sprintf("/api/posts/%d", posts[0].ID), nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got models.Post
	decodeBody(t, resp, &got)
	assert.Equal(t, posts[0].Title, got.Title)
	assert.NotEmpty(t, got.User.Username)
}

func TestGetPost_NotFound(t *testing.T) {
	app, _, db := setupTestServer(t)
	seedBlog(t, db)

	resp, err := app.Test(jsonRequest(http.MethodGet, "/api/posts/99999", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdatePost_OwnerOnly(t *testing.T) {
	app, srv, db := setupTestServer(t)
	users, posts, _ := seedBlog(t, db)

	// posts[0] belongs to users[0]; users[1] may not touch it.
	req := jsonRequest(http.MethodPut, fmt.Sprintf("/api/posts/%d", posts[0].ID),
		map[string]any{"title": "Hijacked"})
	req.Header.Set("Authorization", authHeader(t, srv, users[1].ID, users[1].Username))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The owner succeeds.
	req = jsonRequest(http.MethodPut, fmt.Sprintf("/api/posts/%d", posts[0].ID),
		map[string]any{"title": "Renamed"})
	req.Header.Set("Authorization", authHeader(t, srv, users[0].ID, users[0].Username))

	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var stored models.Post
	require.NoError(t, db.First(&stored, posts[0].ID).Error)
	assert.Equal(t, "Renamed", stored.Title)
}

func TestDeletePost_OwnerOnly(t *testing.T) {
	app, srv, db := setupTestServer(t)
	users, posts, _ := seedBlog(t, db)

	req := jsonRequest(http.MethodDelete, fmt.Sprintf("/api/posts/%d", posts[1].ID), nil)
	req.Header.Set("Authorization", authHeader(t, srv, users[0].ID, users[0].Username))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	req = jsonRequest(http.MethodDelete, fmt.Sprintf("/api/posts/%d", posts[1].ID), nil)
	req.Header.Set("Authorization", authHeader(t, srv, users[1].ID, users[1].Username))

	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Where("id = ?", posts[1].ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSearchPosts(t *testing.T) {
	app, _, db := setupTestServer(t)
	seedBlog(t, db)

	resp, err := app.Test(jsonRequest(http.MethodGet, "/api/posts/search?q=First", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got []models.Post
	decodeBody(t, resp, &got)
	require.Len(t, got, 1)
	assert.Equal(t, "First Post", got[0].Title)

	// Missing query is a client error.
	resp, err = app.Test(jsonRequest(http.MethodGet, "/api/posts/search", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetPosts_Pagination(t *testing.T) {
	app, _, db := setupTestServer(t)
	seedBlog(t, db)

	resp, err := app.Test(jsonRequest(http.MethodGet, "/api/posts/?limit=1", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got []models.Post
	decodeBody(t, resp, &got)
	assert.Len(t, got, 1)
}
