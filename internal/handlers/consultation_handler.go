package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/uhiportal/doctor-portal-api/internal/models"
)

// CreateConsultation books a video consultation with an approved doctor.
func (h *Handler) CreateConsultation(c *gin.Context) {
	var req struct {
		DoctorID  string `json:"doctorId" binding:"required"`
		StartTime string `json:"startTime" binding:"required"`
		EndTime   string `json:"endTime" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	startTime, err1 := time.Parse(time.RFC3339, req.StartTime)
	endTime, err2 := time.Parse(time.RFC3339, req.EndTime)
	if err1 != nil || err2 != nil || !endTime.After(startTime) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time window, use RFC3339 with end after start"})
		return
	}

	userRole, _ := c.Get("userRole")
	if userRole != string(models.RolePatient) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only patients can book consultations."})
		return
	}

	patientID, ok := currentUserID(c)
	if !ok {
		return
	}

	doctorID, err := primitive.ObjectIDFromHex(req.DoctorID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid doctor ID"})
		return
	}

	patient, err := h.Accounts.GetByID(c.Request.Context(), patientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not find user details"})
		return
	}

	doctor, err := h.Accounts.GetByID(c.Request.Context(), doctorID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Doctor not found"})
		return
	}
	if doctor.Role != models.RoleDoctor || !doctor.IsVerified {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Doctor is not available for consultations"})
		return
	}

	con := models.Consultation{
		ID:          primitive.NewObjectID(),
		PatientID:   patientID,
		DoctorID:    doctorID,
		PatientName: patient.Name,
		DoctorName:  doctor.Name,
		StartTime:   startTime,
		EndTime:     endTime,
		Status:      models.ConsultationScheduled,
	}

	collection := h.DB.Collection("consultations")
	if _, err := collection.InsertOne(c.Request.Context(), con); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to book consultation"})
		return
	}

	h.NotificationSvc.SendConsultationConfirmationSMS(patient, &con)

	c.JSON(http.StatusCreated, con)
}

// GetConsultations lists the caller's consultations with optional date and
// status filters, sorted by start time.
func (h *Handler) GetConsultations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	userRole, _ := c.Get("userRole")

	filter := bson.M{"patientId": userID}
	if userRole == string(models.RoleDoctor) {
		filter = bson.M{"doctorId": userID}
	}

	// Filter by date range (e.g. ?startDate=2026-07-01&endDate=2026-07-31)
	if startDateStr := c.Query("startDate"); startDateStr != "" {
		if startDate, err := time.Parse("2006-01-02", startDateStr); err == nil {
			filter["startTime"] = bson.M{"$gte": startDate}
		}
	}
	if endDateStr := c.Query("endDate"); endDateStr != "" {
		if endDate, err := time.Parse("2006-01-02", endDateStr); err == nil {
			// Add the rest of the day so the entire end date is included
			endDate = endDate.Add(23*time.Hour + 59*time.Minute)
			if f, ok := filter["startTime"].(bson.M); ok {
				f["$lte"] = endDate
			} else {
				filter["startTime"] = bson.M{"$lte": endDate}
			}
		}
	}

	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "startTime", Value: 1}})

	collection := h.DB.Collection("consultations")
	cursor, err := collection.Find(c.Request.Context(), filter, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve consultations"})
		return
	}
	defer cursor.Close(context.Background())

	var consultations []models.Consultation
	if err = cursor.All(c.Request.Context(), &consultations); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode consultations"})
		return
	}

	c.JSON(http.StatusOK, consultations)
}

// CancelConsultation marks a consultation cancelled. Either participant may
// cancel.
func (h *Handler) CancelConsultation(c *gin.Context) {
	conID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid consultation ID"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	filter := bson.M{
		"_id": conID,
		"$or": []bson.M{{"patientId": userID}, {"doctorId": userID}},
	}
	update := bson.M{"$set": bson.M{"status": models.ConsultationCancelled}}

	collection := h.DB.Collection("consultations")
	result, err := collection.UpdateOne(c.Request.Context(), filter, update)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel consultation"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Consultation not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Consultation cancelled"})
}
