package handlers

import (
	"net/http"

	"devlink/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates by email and password. Unknown email and wrong
// password answer with the same message so the two cases are
// indistinguishable from outside.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	var user models.User
	err := h.db.Users.FindOne(ctx, bson.M{"email": req.Email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		respondError(c, http.StatusBadRequest, "Invalid Credentials")
		return
	}
	if err != nil {
		serverError(c, "Login", err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid Credentials")
		return
	}

	token, err := h.tokens.Issue(user.ID.Hex())
	if err != nil {
		serverError(c, "Login", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// GetCurrentUser returns the authenticated user's record, password hash
// excluded by the model's json tags.
func (h *Handler) GetCurrentUser(c *gin.Context) {
	userID, ok := h.subjectID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	var user models.User
	err := h.db.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		serverError(c, "GetCurrentUser", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
