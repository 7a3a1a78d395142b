package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mirabelle-minis/commissions-api/config"
	"github.com/mirabelle-minis/commissions-api/controllers"
	"github.com/mirabelle-minis/commissions-api/middleware"
	"github.com/mirabelle-minis/commissions-api/models"
	"github.com/mirabelle-minis/commissions-api/services"
)

func main() {
	// Basic logging
	log.Println("Starting Commissions API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.Questionnaire{},
		&models.Question{},
		&models.Answer{},
		&models.Quote{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.DesignVersion{},
		&models.GalleryImage{},
		&models.Message{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Initialize external collaborators
	s3Service, err := services.InitS3Service()
	if err != nil {
		log.Fatalf("Failed to initialize S3 service: %v", err)
	}
	services.InitImageService(s3Service)
	services.InitNotifier(services.NewLogNotifier())
	services.InitPaymentGateway(services.NewStubGateway())

	// Initialize Gin router
	router := setupRouter(cfg)

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the Gin engine with all API routes. Authenticated
// routes sit behind the Auth0 JWT middleware.
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	auth := middleware.EnsureValidToken(cfg)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)

		// User profile
		v1.POST("/users", auth, controllers.CreateUser)
		v1.GET("/users/me", auth, controllers.GetMyProfile)
		v1.PUT("/users/me", auth, controllers.UpdateMyProfile)

		// Commission intake and lifecycle
		v1.POST("/enquiries", auth, controllers.CreateEnquiry)
		v1.GET("/orders", auth, controllers.ListOrders)
		v1.GET("/orders/:id", auth, controllers.GetOrder)
		v1.POST("/orders/:id/review", auth, controllers.StartReview)
		v1.POST("/orders/:id/ready", auth, controllers.MarkReadyToShip)
		v1.POST("/orders/:id/ship", auth, controllers.ShipOrder)
		v1.POST("/orders/:id/complete", auth, controllers.CompleteOrder)
		v1.POST("/orders/:id/cancel", auth, controllers.CancelOrder)

		// Questionnaires
		v1.POST("/orders/:id/questionnaire", auth, controllers.CreateQuestionnaire)
		v1.POST("/questionnaires/:id/responses", auth, controllers.SubmitQuestionnaireResponse)

		// Quotes
		v1.POST("/orders/:id/quotes", auth, controllers.CreateQuote)
		v1.GET("/orders/:id/quotes", auth, controllers.ListQuotes)
		v1.POST("/quotes/:id/accept", auth, controllers.AcceptQuote)
		v1.POST("/quotes/:id/reject", auth, controllers.RejectQuote)

		// Invoicing and payment
		v1.POST("/quotes/:id/invoice", auth, controllers.GenerateInvoice)
		v1.GET("/orders/:id/invoice", auth, controllers.GetInvoice)
		v1.POST("/orders/:id/payments", auth, controllers.ProcessPayment)

		// Designs and gallery
		v1.POST("/orders/:id/designs", auth, controllers.UploadDesign)
		v1.GET("/orders/:id/designs", auth, controllers.ListDesigns)
		v1.POST("/designs/:id/feedback", auth, controllers.SubmitDesignFeedback)
		v1.POST("/orders/:id/gallery", auth, controllers.AddGalleryImage)
		v1.GET("/orders/:id/gallery", auth, controllers.ListGalleryImages)

		// Order conversation
		v1.POST("/orders/:id/messages", auth, controllers.SendMessage)
		v1.GET("/orders/:id/messages", auth, controllers.ListMessages)

		// Image uploads
		v1.POST("/uploads", auth, controllers.UploadImage)
		v1.GET("/uploads/:filename", controllers.GetUploadedImage)
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Commissions API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	// Get list of tables
	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
