package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"devlink/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProfileRequest struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	Status         string `json:"status" binding:"required"`
	GithubUsername string `json:"githubusername"`
	Skills         string `json:"skills" binding:"required"`
	Youtube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	Linkedin       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

type ExperienceRequest struct {
	Title       string `json:"title" binding:"required"`
	Company     string `json:"company" binding:"required"`
	Location    string `json:"location"`
	From        string `json:"from" binding:"required"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type EducationRequest struct {
	School       string `json:"school" binding:"required"`
	Degree       string `json:"degree" binding:"required"`
	FieldOfStudy string `json:"fieldofstudy" binding:"required"`
	From         string `json:"from" binding:"required"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

// splitSkills turns the free-text comma list into the skills array, trimming
// whitespace around each element.
func splitSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		skills = append(skills, strings.TrimSpace(p))
	}
	return skills
}

// buildProfileSet builds the $set document for the upsert. Only fields the
// caller actually supplied are included, so an update never nulls out what it
// does not mention. Social links are nested under "social" only when at least
// one is present.
func buildProfileSet(userID primitive.ObjectID, req ProfileRequest) bson.M {
	set := bson.M{
		"user":   userID,
		"status": req.Status,
		"skills": splitSkills(req.Skills),
	}
	if req.Company != "" {
		set["company"] = req.Company
	}
	if req.Website != "" {
		set["website"] = req.Website
	}
	if req.Location != "" {
		set["location"] = req.Location
	}
	if req.Bio != "" {
		set["bio"] = req.Bio
	}
	if req.GithubUsername != "" {
		set["githubusername"] = req.GithubUsername
	}

	social := bson.M{}
	if req.Youtube != "" {
		social["youtube"] = req.Youtube
	}
	if req.Twitter != "" {
		social["twitter"] = req.Twitter
	}
	if req.Facebook != "" {
		social["facebook"] = req.Facebook
	}
	if req.Linkedin != "" {
		social["linkedin"] = req.Linkedin
	}
	if req.Instagram != "" {
		social["instagram"] = req.Instagram
	}
	if len(social) > 0 {
		set["social"] = social
	}

	return set
}

// attachOwner populates the owner's name and avatar onto the profile for
// responses. Missing owners are left unpopulated rather than failing the
// read.
func (h *Handler) attachOwner(ctx context.Context, p *models.Profile) {
	var user models.User
	if err := h.db.Users.FindOne(ctx, bson.M{"_id": p.UserID}).Decode(&user); err == nil {
		p.User = user.Summary()
	}
}

// GetMyProfile returns the authenticated user's profile.
func (h *Handler) GetMyProfile(c *gin.Context) {
	userID, ok := h.subjectID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	var profile models.Profile
	err := h.db.Profiles.FindOne(ctx, bson.M{"user": userID}).Decode(&profile)
	if err == mongo.ErrNoDocuments {
		respondError(c, http.StatusBadRequest, "There is no profile for this user")
		return
	}
	if err != nil {
		serverError(c, "GetMyProfile", err)
		return
	}

	h.attachOwner(ctx, &profile)
	c.JSON(http.StatusOK, profile)
}

// UpsertProfile creates the caller's profile or updates it in place. The row
// is keyed by the authenticated id, so a cross-user write is structurally
// impossible.
func (h *Handler) UpsertProfile(c *gin.Context) {
	userID, ok := h.subjectID(c)
	if !ok {
		return
	}

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	update := bson.M{
		"$set": buildProfileSet(userID, req),
		"$setOnInsert": bson.M{
			"experience": []models.Experience{},
			"education":  []models.Education{},
			"date":       time.Now(),
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var profile models.Profile
	if err := h.db.Profiles.FindOneAndUpdate(ctx, bson.M{"user": userID}, update, opts).Decode(&profile); err != nil {
		serverError(c, "UpsertProfile", err)
		return
	}

	c.JSON(http.StatusCreated, profile)
}

// GetProfiles lists every profile with owner name/avatar attached.
func (h *Handler) GetProfiles(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	cursor, err := h.db.Profiles.Find(ctx, bson.M{})
	if err != nil {
		serverError(c, "GetProfiles", err)
		return
	}
	defer cursor.Close(ctx)

	profiles := []models.Profile{}
	if err := cursor.All(ctx, &profiles); err != nil {
		serverError(c, "GetProfiles", err)
		return
	}

	for i := range profiles {
		h.attachOwner(ctx, &profiles[i])
	}

	c.JSON(http.StatusOK, profiles)
}

// GetProfileByUser returns a single user's profile. A malformed id reads the
// same as a missing profile.
func (h *Handler) GetProfileByUser(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Profile not found")
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	var profile models.Profile
	err = h.db.Profiles.FindOne(ctx, bson.M{"user": userID}).Decode(&profile)
	if err == mongo.ErrNoDocuments {
		respondError(c, http.StatusBadRequest, "Profile not found")
		return
	}
	if err != nil {
		serverError(c, "GetProfileByUser", err)
		return
	}

	h.attachOwner(ctx, &profile)
	c.JSON(http.StatusOK, profile)
}

// DeleteAccount removes the caller's profile and user record. The two
// deletes are sequential with no rollback; posts the user authored are left
// in place with their snapshots.
func (h *Handler) DeleteAccount(c *gin.Context) {
	userID, ok := h.subjectID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	if _, err := h.db.Profiles.DeleteOne(ctx, bson.M{"user": userID}); err != nil {
		serverError(c, "DeleteAccount", err)
		return
	}
	if _, err := h.db.Users.DeleteOne(ctx, bson.M{"_id": userID}); err != nil {
		serverError(c, "DeleteAccount", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "User removed"})
}

// prependToProfile pushes an entry to the head of one of the profile's
// embedded arrays atomically and returns the updated profile.
func (h *Handler) prependToProfile(c *gin.Context, op, field string, userID primitive.ObjectID, entry interface{}) {
	ctx, cancel := requestContext()
	defer cancel()

	update := bson.M{
		"$push": bson.M{field: bson.M{"$each": bson.A{entry}, "$position": 0}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var profile models.Profile
	err := h.db.Profiles.FindOneAndUpdate(ctx, bson.M{"user": userID}, update, opts).Decode(&profile)
	if err == mongo.ErrNoDocuments {
		respondError(c, http.StatusBadRequest, "There is no profile for this user")
		return
	}
	if err != nil {
		serverError(c, op, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// pullFromProfile removes an embedded entry by id atomically. The filter
// requires the entry to be present, so removing an unknown id answers 404
// instead of silently succeeding.
func (h *Handler) pullFromProfile(c *gin.Context, op, field, missingMsg string, userID primitive.ObjectID, entryID primitive.ObjectID) {
	ctx, cancel := requestContext()
	defer cancel()

	filter := bson.M{"user": userID, field + "._id": entryID}
	update := bson.M{"$pull": bson.M{field: bson.M{"_id": entryID}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var profile models.Profile
	err := h.db.Profiles.FindOneAndUpdate(ctx, filter, update, opts).Decode(&profile)
	if err == mongo.ErrNoDocuments {
		respondError(c, http.StatusNotFound, missingMsg)
		return
	}
	if err != nil {
		serverError(c, op, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// AddExperience prepends an experience entry, newest first.
func (h *Handler) AddExperience(c *gin.Context) {
	userID, ok := h.subjectID(c)
	if !ok {
		return
	}

	var req ExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	entry := models.Experience{
		ID:          primitive.NewObjectID(),
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        req.From,
		To:          req.To,
		Current:     req.Current,
		Description: req.Description,
	}

	h.prependToProfile(c, "AddExperience", "experience", userID, entry)
}

func (h *Handler) DeleteExperience(c *gin.Context) {
	userID, ok := h.subjectID(c)
	if !ok {
		return
	}

	entryID, err := primitive.ObjectIDFromHex(c.Param("experienceId"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Experience not found")
		return
	}

	h.pullFromProfile(c, "DeleteExperience", "experience", "Experience not found", userID, entryID)
}

// AddEducation prepends an education entry, newest first.
func (h *Handler) AddEducation(c *gin.Context) {
	userID, ok := h.subjectID(c)
	if !ok {
		return
	}

	var req EducationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	entry := models.Education{
		ID:           primitive.NewObjectID(),
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         req.From,
		To:           req.To,
		Current:      req.Current,
		Description:  req.Description,
	}

	h.prependToProfile(c, "AddEducation", "education", userID, entry)
}

func (h *Handler) DeleteEducation(c *gin.Context) {
	userID, ok := h.subjectID(c)
	if !ok {
		return
	}

	entryID, err := primitive.ObjectIDFromHex(c.Param("educationId"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Education not found")
		return
	}

	h.pullFromProfile(c, "DeleteEducation", "education", "Education not found", userID, entryID)
}
