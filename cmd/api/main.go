package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"thrift/internal/config"
	"thrift/internal/database"
	"thrift/internal/handlers"
	"thrift/internal/logger"
	"thrift/internal/middleware"
	"thrift/internal/services"
	"thrift/internal/validator"

	_ "thrift/internal/docs" // Import swagger docs
)

// @title           Thrift API
// @version         1.0
// @description     Thrift is a personal budgeting application for tracking expenses and incomes, running savings challenges, and reporting on spending.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(appConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom binding validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	ledgerService := services.NewLedgerService(db)
	challengeService := services.NewChallengeService(db)
	reportService := services.NewReportService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, ledgerService)
	entryHandler := handlers.NewEntryHandler(ledgerService)
	challengeHandler := handlers.NewChallengeHandler(challengeService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Expense routes
	expenses := protected.Group("/expenses")
	expenses.POST("", entryHandler.CreateExpense)
	expenses.GET("", entryHandler.ListExpenses)
	expenses.POST("/import", entryHandler.ImportExpenses)
	expenses.GET("/:name", entryHandler.GetExpense)
	expenses.DELETE("/:name", entryHandler.DeleteExpense)

	// Income routes
	incomes := protected.Group("/incomes")
	incomes.POST("", entryHandler.CreateIncome)
	incomes.GET("", entryHandler.ListIncomes)
	incomes.GET("/:name", entryHandler.GetIncome)
	incomes.DELETE("/:name", entryHandler.DeleteIncome)

	// Challenge routes
	challenges := protected.Group("/challenges")
	challenges.GET("", challengeHandler.ListChallenges)
	challenges.POST("", challengeHandler.CreateChallenge)
	challenges.GET("/templates", challengeHandler.ListTemplates)
	challenges.POST("/premade", challengeHandler.CreatePremadeChallenge)
	challenges.GET("/:name", challengeHandler.GetChallenge)
	challenges.PUT("/:name", challengeHandler.UpdateChallenge)
	challenges.DELETE("/:name", challengeHandler.DeleteChallenge)
	challenges.POST("/:name/savings", challengeHandler.AddSaving)

	// Report routes
	reports := protected.Group("/reports")
	reports.GET("/category-span", reportHandler.CategorySpan)
	reports.GET("/biweekly", reportHandler.Biweekly)
	reports.GET("/monthly", reportHandler.Monthly)
	reports.GET("/yearly", reportHandler.Yearly)
	reports.GET("/range", reportHandler.CustomRange)
	reports.GET("/monthly-averages", reportHandler.MonthlyAverages)
	reports.GET("/trend", reportHandler.CategoryTrend)
	reports.POST("/plan", reportHandler.SplitPlan)

	log.Infof("Starting Thrift backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
