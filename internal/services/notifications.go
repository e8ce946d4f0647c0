package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/uhiportal/doctor-portal-api/internal/models"
)

type NotificationService struct{}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// SendDoctorRegistrationSMS tells a newly registered doctor their
// application is awaiting admin verification.
func (s *NotificationService) SendDoctorRegistrationSMS(doctor *models.User) {
	if doctor.Phone == "" {
		log.Println("SMS not sent: doctor has no phone number.")
		return
	}

	smsBody := fmt.Sprintf(
		"Hi %s, your doctor registration was received and is awaiting verification.",
		doctor.Name,
	)

	// Send in a goroutine so it doesn't block the API response
	go sendSmsWithTextbelt(doctor.Phone, smsBody)
}

// SendVerificationDecisionSMS notifies a doctor of the admin's decision.
func (s *NotificationService) SendVerificationDecisionSMS(doctor *models.User) {
	if doctor.Phone == "" {
		log.Println("SMS not sent: doctor has no phone number.")
		return
	}

	var smsBody string
	if doctor.VerificationStatus == models.VerificationApproved {
		smsBody = fmt.Sprintf("Hi %s, your doctor account has been approved. You can now accept consultations.", doctor.Name)
	} else {
		smsBody = fmt.Sprintf("Hi %s, your doctor registration was not approved. Please contact support.", doctor.Name)
	}

	go sendSmsWithTextbelt(doctor.Phone, smsBody)
}

// SendConsultationConfirmationSMS confirms a booked video consultation.
func (s *NotificationService) SendConsultationConfirmationSMS(patient *models.User, con *models.Consultation) {
	if patient.Phone == "" {
		log.Println("SMS not sent: patient has no phone number.")
		return
	}

	smsBody := fmt.Sprintf(
		"Consultation confirmed: Dr. %s on %s.",
		con.DoctorName,
		con.StartTime.Format("Jan 2 at 3:04 PM"),
	)

	go sendSmsWithTextbelt(patient.Phone, smsBody)
}

// --- Private Helper Function for Textbelt ---
func sendSmsWithTextbelt(phone, message string) {
	// Textbelt free key allows 1 SMS per day. Get a paid key for more.
	textbeltKey := os.Getenv("TEXTBELT_API_KEY")

	postBody, _ := json.Marshal(map[string]string{
		"phone":   phone,
		"message": message,
		"key":     textbeltKey,
	})

	resp, err := http.Post("https://textbelt.com/text", "application/json", bytes.NewBuffer(postBody))
	if err != nil {
		log.Printf("Failed to send Textbelt request for number %s: %v", phone, err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)

	success, _ := result["success"].(bool)
	if !success {
		errorMsg, _ := result["error"].(string)
		log.Printf("Failed to send SMS via Textbelt to %s. Reason: %s", phone, errorMsg)
	} else {
		log.Printf("Successfully sent SMS via Textbelt to %s", phone)
	}
}
