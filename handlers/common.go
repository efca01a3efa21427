package handlers

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"devlink/auth"
	"devlink/config"
	"devlink/database"
	"devlink/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const requestTimeout = 10 * time.Second

// Handler carries the collections, token service and config every endpoint
// needs. Constructed once in main, no package-level state.
type Handler struct {
	cfg    *config.Config
	tokens *auth.TokenService
	db     *database.Collections
}

func New(cfg *config.Config, tokens *auth.TokenService, db *database.Collections) *Handler {
	return &Handler{cfg: cfg, tokens: tokens, db: db}
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// errorItem is the single element shape of the error envelope. Every error
// body this API produces is {"errors": [{"msg": ...}]}.
type errorItem struct {
	Msg string `json:"msg"`
}

func respondError(c *gin.Context, status int, msgs ...string) {
	items := make([]errorItem, 0, len(msgs))
	for _, msg := range msgs {
		items = append(items, errorItem{Msg: msg})
	}
	c.JSON(status, gin.H{"errors": items})
}

// serverError logs the underlying cause and answers with a detail-free 500.
func serverError(c *gin.Context, op string, err error) {
	log.Printf("%s error: %v", op, err)
	respondError(c, http.StatusInternalServerError, "Server error")
}

// respondBindingError turns gin binding failures into the envelope, with one
// message per failed field.
func respondBindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	respondError(c, http.StatusBadRequest, msgs...)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Please include a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// subjectID recovers the authenticated user id the middleware stored on the
// context.
func (h *Handler) subjectID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Token is invalid")
		return primitive.NilObjectID, false
	}
	return id, true
}

// gravatarURL derives the avatar deterministically from the email. Content
// addressed, no network call.
func gravatarURL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	hash := md5.Sum([]byte(normalized))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=200&r=pg&d=mm", hash)
}
