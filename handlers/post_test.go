package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"devlink/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestHasLike(t *testing.T) {
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	likes := []models.Like{{UserID: alice}}

	assert.True(t, hasLike(likes, alice))
	assert.False(t, hasLike(likes, bob))
	assert.False(t, hasLike(nil, alice))
}

func TestFindComment(t *testing.T) {
	first := models.Comment{ID: primitive.NewObjectID(), Text: "first"}
	second := models.Comment{ID: primitive.NewObjectID(), Text: "second"}
	comments := []models.Comment{second, first}

	found := findComment(comments, first.ID)
	require.NotNil(t, found)
	assert.Equal(t, "first", found.Text)

	assert.Nil(t, findComment(comments, primitive.NewObjectID()))
	assert.Nil(t, findComment(nil, first.ID))
}

func TestCommentOrderingNewestFirst(t *testing.T) {
	// Mirrors the $position: 0 prepend the handlers issue.
	var comments []models.Comment
	for _, text := range []string{"first", "second", "third"} {
		entry := models.Comment{ID: primitive.NewObjectID(), Text: text, Date: time.Now()}
		comments = append([]models.Comment{entry}, comments...)
	}

	require.Len(t, comments, 3)
	assert.Equal(t, "third", comments[0].Text)
	assert.Equal(t, "first", comments[2].Text)
}

func TestCreatePostValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestHandler()

	router := gin.New()
	router.POST("/api/posts", asSubject(primitive.NewObjectID()), h.CreatePost)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeErrors(t, w)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "Text is required", body.Errors[0].Msg)
}

func TestCreatePostRequiresIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestHandler()

	router := gin.New()
	router.POST("/api/posts", h.CreatePost)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(`{"text":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAddCommentValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestHandler()

	router := gin.New()
	router.POST("/api/posts/comment/:postId", asSubject(primitive.NewObjectID()), h.AddComment)

	w := httptest.NewRecorder()
	target := "/api/posts/comment/" + primitive.NewObjectID().Hex()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLikePostRejectsMalformedID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestHandler()

	router := gin.New()
	router.PUT("/api/posts/like/:postId", asSubject(primitive.NewObjectID()), h.LikePost)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/posts/like/nope", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decodeErrors(t, w)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "Post not found", body.Errors[0].Msg)
}
