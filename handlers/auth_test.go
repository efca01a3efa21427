package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestHandler()

	router := gin.New()
	router.POST("/api/users", h.Register)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing name", `{"email":"a@x.com","password":"secret1"}`, "Name is required"},
		{"bad email", `{"name":"Alice","email":"nope","password":"secret1"}`, "Please include a valid email"},
		{"short password", `{"name":"Alice","email":"a@x.com","password":"abc"}`, "Password must be at least 6 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			body := decodeErrors(t, w)
			require.Len(t, body.Errors, 1)
			assert.Equal(t, tt.want, body.Errors[0].Msg)
		})
	}
}

func TestRegisterRejectsNonJSONBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestHandler()

	router := gin.New()
	router.POST("/api/users", h.Register)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeErrors(t, w)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "Invalid request body", body.Errors[0].Msg)
}

func TestLoginValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestHandler()

	router := gin.New()
	router.POST("/api/auth", h.Login)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth", strings.NewReader(`{"email":"a@x.com"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeErrors(t, w)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "Password is required", body.Errors[0].Msg)
}
