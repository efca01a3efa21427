package handlers

import (
	"net/http"
	"time"

	"devlink/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// Register creates a user and hands back a token straight away.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	var existing models.User
	err := h.db.Users.FindOne(ctx, bson.M{"email": req.Email}).Decode(&existing)
	if err == nil {
		respondError(c, http.StatusBadRequest, "Email is already taken")
		return
	}
	if err != mongo.ErrNoDocuments {
		serverError(c, "Register", err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		serverError(c, "Register", err)
		return
	}

	user := models.User{
		ID:       primitive.NewObjectID(),
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Avatar:   gravatarURL(req.Email),
		Date:     time.Now(),
	}

	if _, err := h.db.Users.InsertOne(ctx, user); err != nil {
		// The unique email index catches a concurrent registration that
		// slipped past the read above.
		if mongo.IsDuplicateKeyError(err) {
			respondError(c, http.StatusBadRequest, "Email is already taken")
			return
		}
		serverError(c, "Register", err)
		return
	}

	token, err := h.tokens.Issue(user.ID.Hex())
	if err != nil {
		serverError(c, "Register", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
