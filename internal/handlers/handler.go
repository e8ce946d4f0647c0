package handlers

import (
	"github.com/uhiportal/doctor-portal-api/internal/services"
	"go.mongodb.org/mongo-driver/mongo"
)

// Handler carries what every route needs: the database for consultation
// records, the account service for everything touching users, and the
// notification service.
type Handler struct {
	DB              *mongo.Database
	Accounts        *services.AccountService
	NotificationSvc *services.NotificationService
}

func NewHandler(db *mongo.Database, accounts *services.AccountService, notificationSvc *services.NotificationService) *Handler {
	return &Handler{
		DB:              db,
		Accounts:        accounts,
		NotificationSvc: notificationSvc,
	}
}
