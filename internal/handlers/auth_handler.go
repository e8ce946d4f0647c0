package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uhiportal/doctor-portal-api/internal/models"
	"github.com/uhiportal/doctor-portal-api/internal/repository"
	"github.com/uhiportal/doctor-portal-api/internal/services"
	"github.com/uhiportal/doctor-portal-api/internal/utils"
)

type RegisterUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Avatar   string `json:"avatar"`
}

type qualificationRequest struct {
	Degree      string `json:"degree" binding:"required"`
	Institution string `json:"institution" binding:"required"`
	Year        int    `json:"year" binding:"required"`
	Certificate string `json:"certificate"`
}

type experienceRequest struct {
	Hospital    string `json:"hospital" binding:"required"`
	Position    string `json:"position" binding:"required"`
	From        string `json:"from" binding:"required"` // RFC3339
	To          string `json:"to"`                      // empty for current position
	Certificate string `json:"certificate"`
}

type RegisterDoctorRequest struct {
	RegisterUserRequest
	Specialization     string                 `json:"specialization" binding:"required"`
	RegistrationNumber string                 `json:"registrationNumber" binding:"required"`
	Bio                string                 `json:"bio"`
	Qualifications     []qualificationRequest `json:"qualifications"`
	Experience         []experienceRequest    `json:"experience"`
}

// RegisterUser creates a patient account.
func (h *Handler) RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Accounts.Register(c.Request.Context(), services.RegisterDraft{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
		Avatar:   req.Avatar,
	})
	if err != nil {
		h.writeAccountError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// RegisterDoctor creates a doctor account that starts in the pending
// verification state.
func (h *Handler) RegisterDoctor(c *gin.Context) {
	var req RegisterDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quals := make([]models.Qualification, 0, len(req.Qualifications))
	for _, q := range req.Qualifications {
		quals = append(quals, models.Qualification{
			Degree:         q.Degree,
			Institution:    q.Institution,
			Year:           q.Year,
			CertificateURL: q.Certificate,
		})
	}

	exps := make([]models.Experience, 0, len(req.Experience))
	for _, e := range req.Experience {
		exp, err := parseExperience(e)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		exps = append(exps, exp)
	}

	user, err := h.Accounts.RegisterDoctor(c.Request.Context(), services.DoctorDraft{
		RegisterDraft: services.RegisterDraft{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			Phone:    req.Phone,
			Address:  req.Address,
			Avatar:   req.Avatar,
		},
		Specialization:     req.Specialization,
		RegistrationNumber: req.RegistrationNumber,
		Bio:                req.Bio,
		Qualifications:     quals,
		Experience:         exps,
	})
	if err != nil {
		h.writeAccountError(c, err)
		return
	}

	h.NotificationSvc.SendDoctorRegistrationSMS(user)

	c.JSON(http.StatusCreated, user)
}

// Login authenticates and returns a JWT plus the sanitized user. The error
// message for bad credentials is the same whether the email exists or not.
func (h *Handler) Login(c *gin.Context) {
	var loginReq struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&loginReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.Accounts.VerifyCredentials(c.Request.Context(), loginReq.Email, loginReq.Password)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		case errors.Is(err, repository.ErrTimeout):
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Sign-in timed out, please try again"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		}
		return
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), string(user.Role))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user.View()})
}

func (h *Handler) writeAccountError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists"})
	case errors.Is(err, repository.ErrMalformedInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, repository.ErrTimeout):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Request timed out, please try again"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
	}
}

func parseExperience(e experienceRequest) (models.Experience, error) {
	from, err := time.Parse(time.RFC3339, e.From)
	if err != nil {
		return models.Experience{}, errors.New("invalid experience start date, use RFC3339")
	}
	exp := models.Experience{
		Hospital:       e.Hospital,
		Position:       e.Position,
		From:           from,
		CertificateURL: e.Certificate,
	}
	if e.To != "" {
		to, err := time.Parse(time.RFC3339, e.To)
		if err != nil {
			return models.Experience{}, errors.New("invalid experience end date, use RFC3339")
		}
		exp.To = &to
	}
	return exp, nil
}
