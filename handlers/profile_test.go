package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSplitSkills(t *testing.T) {
	assert.Equal(t, []string{"go", "sql", "linux"}, splitSkills("go, sql, linux"))
	assert.Equal(t, []string{"go"}, splitSkills("go"))
	assert.Equal(t, []string{"go", "sql"}, splitSkills("  go ,sql  "))
}

func TestBuildProfileSetRequiredOnly(t *testing.T) {
	userID := primitive.NewObjectID()
	set := buildProfileSet(userID, ProfileRequest{
		Status: "Developer",
		Skills: "go, sql, linux",
	})

	assert.Equal(t, userID, set["user"])
	assert.Equal(t, "Developer", set["status"])
	assert.Equal(t, []string{"go", "sql", "linux"}, set["skills"])

	// Absent fields stay out of the update document entirely
	_, hasCompany := set["company"]
	assert.False(t, hasCompany)
	_, hasSocial := set["social"]
	assert.False(t, hasSocial)
}

func TestBuildProfileSetOptionalFields(t *testing.T) {
	set := buildProfileSet(primitive.NewObjectID(), ProfileRequest{
		Status:   "Developer",
		Skills:   "go",
		Company:  "Acme",
		Website:  "https://acme.test",
		Bio:      "hello",
		Location: "Berlin",
	})

	assert.Equal(t, "Acme", set["company"])
	assert.Equal(t, "https://acme.test", set["website"])
	assert.Equal(t, "hello", set["bio"])
	assert.Equal(t, "Berlin", set["location"])
}

func TestBuildProfileSetNestsSocialOnlyWhenPresent(t *testing.T) {
	set := buildProfileSet(primitive.NewObjectID(), ProfileRequest{
		Status:  "Developer",
		Skills:  "go",
		Youtube: "https://youtube.test/alice",
	})

	social, ok := set["social"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, "https://youtube.test/alice", social["youtube"])
	_, hasTwitter := social["twitter"]
	assert.False(t, hasTwitter)
}

func TestUpsertProfileValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestHandler()

	router := gin.New()
	router.POST("/api/profile", asSubject(primitive.NewObjectID()), h.UpsertProfile)

	// Missing both status and skills: two envelope entries, storage untouched.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/profile", strings.NewReader(`{"company":"Acme"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeErrors(t, w)
	assert.Len(t, body.Errors, 2)
}

func TestAddExperienceValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestHandler()

	router := gin.New()
	router.PUT("/api/profile/experience", asSubject(primitive.NewObjectID()), h.AddExperience)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/profile/experience", strings.NewReader(`{"title":"Engineer"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeErrors(t, w)
	// company and from are both required
	assert.Len(t, body.Errors, 2)
}

func TestDeleteExperienceRejectsMalformedID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestHandler()

	router := gin.New()
	router.DELETE("/api/profile/experience/:experienceId", asSubject(primitive.NewObjectID()), h.DeleteExperience)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/profile/experience/not-an-id", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decodeErrors(t, w)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "Experience not found", body.Errors[0].Msg)
}
