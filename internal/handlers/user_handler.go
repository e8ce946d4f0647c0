package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/uhiportal/doctor-portal-api/internal/models"
	"github.com/uhiportal/doctor-portal-api/internal/services"
)

func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	userIDHex, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(userIDHex.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return primitive.NilObjectID, false
	}
	return userID, true
}

// GetCurrentUser returns the profile of the authenticated user.
func (h *Handler) GetCurrentUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.Accounts.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.writeAccountError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateCurrentUser lets a user change their own profile fields. Role and
// verification state are not accepted here.
func (h *Handler) UpdateCurrentUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Name           string `json:"name"`
		Phone          string `json:"phone"`
		Address        string `json:"address"`
		Avatar         string `json:"avatar"`
		Bio            string `json:"bio"`
		Specialization string `json:"specialization"`
		Password       string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, err := h.Accounts.UpdateProfile(c.Request.Context(), userID, services.ProfilePatch{
		Name:           req.Name,
		Phone:          req.Phone,
		Address:        req.Address,
		Avatar:         req.Avatar,
		Bio:            req.Bio,
		Specialization: req.Specialization,
		Password:       req.Password,
	})
	if err != nil {
		h.writeAccountError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// AddQualification appends an education entry to the doctor's profile.
func (h *Handler) AddQualification(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req qualificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Accounts.AddQualification(c.Request.Context(), userID, models.Qualification{
		Degree:         req.Degree,
		Institution:    req.Institution,
		Year:           req.Year,
		CertificateURL: req.Certificate,
	})
	if err != nil {
		h.writeAccountError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// RemoveQualification deletes the education entry at the given index.
func (h *Handler) RemoveQualification(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid index"})
		return
	}

	user, err := h.Accounts.RemoveQualification(c.Request.Context(), userID, index)
	if err != nil {
		h.writeAccountError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// AddExperience appends a work-history entry to the doctor's profile.
func (h *Handler) AddExperience(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req experienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exp, err := parseExperience(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Accounts.AddExperience(c.Request.Context(), userID, exp)
	if err != nil {
		h.writeAccountError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// RemoveExperience deletes the work-history entry at the given index.
func (h *Handler) RemoveExperience(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid index"})
		return
	}

	user, err := h.Accounts.RemoveExperience(c.Request.Context(), userID, index)
	if err != nil {
		h.writeAccountError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
