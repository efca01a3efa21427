package handlers

import (
	"net/http"
	"time"

	"devlink/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CreatePostRequest struct {
	Text string `json:"text" binding:"required"`
}

type CommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// hasLike reports whether the user already has a like on the post.
func hasLike(likes []models.Like, userID primitive.ObjectID) bool {
	for _, like := range likes {
		if like.UserID == userID {
			return true
		}
	}
	return false
}

// findComment locates an embedded comment by id.
func findComment(comments []models.Comment, id primitive.ObjectID) *models.Comment {
	for i := range comments {
		if comments[i].ID == id {
			return &comments[i]
		}
	}
	return nil
}

// CreatePost snapshots the author's current name and avatar into the post.
// Profile edits after this point do not touch it.
func (h *Handler) CreatePost(c *gin.Context) {
	userID, ok := h.subjectID(c)
	if !ok {
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
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
		serverError(c, "CreatePost", err)
		return
	}

	post := models.Post{
		ID:       primitive.NewObjectID(),
		UserID:   userID,
		Text:     req.Text,
		Name:     user.Name,
		Avatar:   user.Avatar,
		Likes:    []models.Like{},
		Comments: []models.Comment{},
		Date:     time.Now(),
	}

	if _, err := h.db.Posts.InsertOne(ctx, post); err != nil {
		serverError(c, "CreatePost", err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// GetPosts returns every post, newest first.
func (h *Handler) GetPosts(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := h.db.Posts.Find(ctx, bson.M{}, opts)
	if err != nil {
		serverError(c, "GetPosts", err)
		return
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		serverError(c, "GetPosts", err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) GetPost(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Post not found")
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	var post models.Post
	err = h.db.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		respondError(c, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		serverError(c, "GetPost", err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// DeletePost removes a post. Only the author may do so.
func (h *Handler) DeletePost(c *gin.Context) {
	userID, ok := h.subjectID(c)
	if !ok {
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Post not found")
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	var post models.Post
	err = h.db.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		respondError(c, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		serverError(c, "DeletePost", err)
		return
	}

	if post.UserID != userID {
		respondError(c, http.StatusUnauthorized, "User not authorized")
		return
	}

	if _, err := h.db.Posts.DeleteOne(ctx, bson.M{"_id": postID}); err != nil {
		serverError(c, "DeletePost", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Post removed"})
}

// LikePost prepends a like. The write is guarded by a likes.user $ne filter,
// so at most one like per user per post holds even under concurrent requests.
func (h *Handler) LikePost(c *gin.Context) {
	userID, ok := h.subjectID(c)
	if !ok {
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Post not found")
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	var post models.Post
	err = h.db.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		respondError(c, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		serverError(c, "LikePost", err)
		return
	}

	if hasLike(post.Likes, userID) {
		respondError(c, http.StatusBadRequest, "Post already liked")
		return
	}

	// The likes.user guard makes the prepend a no-op if a concurrent request
	// got its like in after the read above, keeping at most one like per
	// user per post.
	filter := bson.M{"_id": postID, "likes.user": bson.M{"$ne": userID}}
	update := bson.M{
		"$push": bson.M{"likes": bson.M{"$each": bson.A{models.Like{UserID: userID}}, "$position": 0}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	err = h.db.Posts.FindOneAndUpdate(ctx, filter, update, opts).Decode(&post)
	if err == mongo.ErrNoDocuments {
		// Either a concurrent request got its like in first, or the post
		// itself was deleted between the read and the write.
		switch err := h.db.Posts.FindOne(ctx, bson.M{"_id": postID}).Err(); err {
		case nil:
			respondError(c, http.StatusBadRequest, "Post already liked")
		case mongo.ErrNoDocuments:
			respondError(c, http.StatusNotFound, "Post not found")
		default:
			serverError(c, "LikePost", err)
		}
		return
	}
	if err != nil {
		serverError(c, "LikePost", err)
		return
	}

	c.JSON(http.StatusOK, post.Likes)
}

// UnlikePost removes the caller's like, if there is one to remove.
func (h *Handler) UnlikePost(c *gin.Context) {
	userID, ok := h.subjectID(c)
	if !ok {
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Post not found")
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	var post models.Post
	err = h.db.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		respondError(c, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		serverError(c, "UnlikePost", err)
		return
	}

	if !hasLike(post.Likes, userID) {
		respondError(c, http.StatusBadRequest, "Post has not yet been liked")
		return
	}

	filter := bson.M{"_id": postID, "likes.user": userID}
	update := bson.M{"$pull": bson.M{"likes": bson.M{"user": userID}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	err = h.db.Posts.FindOneAndUpdate(ctx, filter, update, opts).Decode(&post)
	if err == mongo.ErrNoDocuments {
		switch err := h.db.Posts.FindOne(ctx, bson.M{"_id": postID}).Err(); err {
		case nil:
			respondError(c, http.StatusBadRequest, "Post has not yet been liked")
		case mongo.ErrNoDocuments:
			respondError(c, http.StatusNotFound, "Post not found")
		default:
			serverError(c, "UnlikePost", err)
		}
		return
	}
	if err != nil {
		serverError(c, "UnlikePost", err)
		return
	}

	c.JSON(http.StatusOK, post.Likes)
}

// AddComment prepends a comment carrying a snapshot of the commenter's name
// and avatar. Any authenticated user may comment on any post.
func (h *Handler) AddComment(c *gin.Context) {
	userID, ok := h.subjectID(c)
	if !ok {
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Post not found")
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	var user models.User
	err = h.db.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		serverError(c, "AddComment", err)
		return
	}

	comment := models.Comment{
		ID:     primitive.NewObjectID(),
		UserID: userID,
		Text:   req.Text,
		Name:   user.Name,
		Avatar: user.Avatar,
		Date:   time.Now(),
	}

	update := bson.M{
		"$push": bson.M{"comments": bson.M{"$each": bson.A{comment}, "$position": 0}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post models.Post
	err = h.db.Posts.FindOneAndUpdate(ctx, bson.M{"_id": postID}, update, opts).Decode(&post)
	if err == mongo.ErrNoDocuments {
		respondError(c, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		serverError(c, "AddComment", err)
		return
	}

	c.JSON(http.StatusOK, post.Comments)
}

// DeleteComment removes a comment. Ownership is the comment author's,
// independent of who owns the post.
func (h *Handler) DeleteComment(c *gin.Context) {
	userID, ok := h.subjectID(c)
	if !ok {
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Post not found")
		return
	}
	commentID, err := primitive.ObjectIDFromHex(c.Param("commentId"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Comment does not exist")
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	var post models.Post
	err = h.db.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		respondError(c, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		serverError(c, "DeleteComment", err)
		return
	}

	comment := findComment(post.Comments, commentID)
	if comment == nil {
		respondError(c, http.StatusNotFound, "Comment does not exist")
		return
	}
	if comment.UserID != userID {
		respondError(c, http.StatusUnauthorized, "User not authorized")
		return
	}

	update := bson.M{"$pull": bson.M{"comments": bson.M{"_id": commentID}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	err = h.db.Posts.FindOneAndUpdate(ctx, bson.M{"_id": postID}, update, opts).Decode(&post)
	if err == mongo.ErrNoDocuments {
		respondError(c, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		serverError(c, "DeleteComment", err)
		return
	}

	c.JSON(http.StatusOK, post.Comments)
}
