package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/uhiportal/doctor-portal-api/internal/models"
)

// ListDoctors returns doctor accounts for the admin review queue,
// optionally filtered by verification status
// (e.g. /api/admin/doctors?status=pending).
func (h *Handler) ListDoctors(c *gin.Context) {
	status := models.VerificationStatus(c.Query("status"))
	doctors, err := h.Accounts.DoctorsByStatus(c.Request.Context(), status)
	if err != nil {
		h.writeAccountError(c, err)
		return
	}

	c.JSON(http.StatusOK, doctors)
}

// SetDoctorVerification records an approve/reject decision. Status and the
// verified flag move together in a single update.
func (h *Handler) SetDoctorVerification(c *gin.Context) {
	doctorID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid doctor ID"})
		return
	}

	var req struct {
		Approve *bool `json:"approve" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	doctor, err := h.Accounts.SetVerification(c.Request.Context(), doctorID, *req.Approve)
	if err != nil {
		h.writeAccountError(c, err)
		return
	}

	h.NotificationSvc.SendVerificationDecisionSMS(doctor)

	c.JSON(http.StatusOK, doctor)
}

// ChangeUserRole reassigns an account's role. Only reachable through the
// admin route group; this is the sole path for a role transition.
func (h *Handler) ChangeUserRole(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, err := h.Accounts.ChangeRole(c.Request.Context(), userID, models.Role(req.Role))
	if err != nil {
		h.writeAccountError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
