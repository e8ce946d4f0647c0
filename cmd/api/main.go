package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/uhiportal/doctor-portal-api/internal/handlers"
	"github.com/uhiportal/doctor-portal-api/internal/middleware"
	"github.com/uhiportal/doctor-portal-api/internal/repository"
	"github.com/uhiportal/doctor-portal-api/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}
	if os.Getenv("JWT_SECRET") == "" {
		log.Println("JWT_SECRET is NOT SET.")
	}

	// --- Database Connection ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(os.Getenv("MONGO_URI")))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)
	db := client.Database(os.Getenv("MONGO_DATABASE"))
	log.Println("Successfully connected to MongoDB!")

	// --- Repository & Services ---
	accountRepo := repository.NewMongoAccountRepository(db)
	if err := accountRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create account indexes: %v", err)
	}
	accountSvc := services.NewAccountService(accountRepo)
	notificationSvc := services.NewNotificationService()

	h := handlers.NewHandler(db, accountSvc, notificationSvc)

	// --- Gin Router ---
	r := gin.Default()

	portalOrigin := os.Getenv("PORTAL_ORIGIN")
	if portalOrigin == "" {
		portalOrigin = "http://localhost:5173"
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{portalOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// --- Routes ---
	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", h.RegisterUser)
		authRoutes.POST("/register/doctor", h.RegisterDoctor)
		authRoutes.POST("/login", h.Login)
	}

	apiRoutes := r.Group("/api")
	apiRoutes.Use(middleware.AuthMiddleware())
	{
		apiRoutes.GET("/me", h.GetCurrentUser)
		apiRoutes.PUT("/me", h.UpdateCurrentUser)
		apiRoutes.POST("/me/qualifications", h.AddQualification)
		apiRoutes.DELETE("/me/qualifications/:index", h.RemoveQualification)
		apiRoutes.POST("/me/experience", h.AddExperience)
		apiRoutes.DELETE("/me/experience/:index", h.RemoveExperience)

		// Consultation Routes
		apiRoutes.GET("/consultations", h.GetConsultations)
		apiRoutes.POST("/consultations", h.CreateConsultation)
		apiRoutes.PATCH("/consultations/:id/cancel", h.CancelConsultation)
	}

	adminRoutes := apiRoutes.Group("/admin")
	adminRoutes.Use(middleware.AdminOnly())
	{
		adminRoutes.GET("/doctors", h.ListDoctors)
		adminRoutes.PATCH("/doctors/:id/verification", h.SetDoctorVerification)
		adminRoutes.PATCH("/users/:id/role", h.ChangeUserRole)
	}

	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080" // Default port
	}
	log.Printf("Starting server on port %s", port)
	r.Run(":" + port)
}
