package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/jumbenylon/invest/internal/config"
	"github.com/jumbenylon/invest/internal/database"
	"github.com/jumbenylon/invest/internal/handlers"
	"github.com/jumbenylon/invest/internal/logger"
	"github.com/jumbenylon/invest/internal/market"
	"github.com/jumbenylon/invest/internal/middleware"
	"github.com/jumbenylon/invest/internal/services"
	"github.com/jumbenylon/invest/internal/validator"

	_ "github.com/jumbenylon/invest/internal/docs" // Import swagger docs
)

// @title           Invest API
// @version         1.0
// @description     Invest is a personal finance API for tracking investment portfolios, cash transactions, loans, and savings goals on Tanzanian markets.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	// Services
	db := dbManager.DB()
	priceProvider := market.NewDBProvider(db)
	userService := services.NewUserService(db)
	portfolioService := services.NewPortfolioService(db)
	investmentService := services.NewInvestmentService(db, portfolioService, priceProvider)
	transactionService := services.NewTransactionService(db, portfolioService)
	loanService := services.NewLoanService(db)
	goalService := services.NewGoalService(db)
	dashboardService := services.NewDashboardService(db)
	marketService := services.NewMarketService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
	investmentHandler := handlers.NewInvestmentHandler(investmentService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	loanHandler := handlers.NewLoanHandler(loanService)
	goalHandler := handlers.NewGoalHandler(goalService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	marketHandler := handlers.NewMarketHandler(marketService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

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

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	v1.GET("/plans", authHandler.GetPlans)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/auth/me", authHandler.GetProfile)
	protected.POST("/auth/api-key", authHandler.GenerateAPIKey)
	protected.GET("/dashboard", dashboardHandler.GetDashboard)

	portfolios := protected.Group("/portfolios")
	portfolios.POST("", portfolioHandler.CreatePortfolio)
	portfolios.GET("", portfolioHandler.GetPortfolios)
	portfolios.GET("/:id", portfolioHandler.GetPortfolio)
	portfolios.PUT("/:id", portfolioHandler.UpdatePortfolio)
	portfolios.DELETE("/:id", portfolioHandler.DeletePortfolio)

	investments := protected.Group("/investments")
	investments.POST("", investmentHandler.CreateInvestment)
	investments.GET("", investmentHandler.GetInvestments)
	investments.GET("/summary", investmentHandler.GetSummary)
	investments.GET("/:id", investmentHandler.GetInvestment)
	investments.PUT("/:id", investmentHandler.UpdateInvestment)
	investments.DELETE("/:id", investmentHandler.DeleteInvestment)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	loans := protected.Group("/loans")
	loans.POST("", loanHandler.CreateLoan)
	loans.GET("", loanHandler.GetLoans)
	loans.GET("/:id", loanHandler.GetLoan)
	loans.PUT("/:id", loanHandler.UpdateLoan)
	loans.DELETE("/:id", loanHandler.DeleteLoan)
	loans.POST("/:id/payments", loanHandler.RecordPayment)
	loans.GET("/:id/payments", loanHandler.GetPayments)

	goals := protected.Group("/goals")
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.GetGoals)
	goals.GET("/:id", goalHandler.GetGoal)
	goals.PUT("/:id", goalHandler.UpdateGoal)
	goals.POST("/:id/deposit", goalHandler.Deposit)
	goals.DELETE("/:id", goalHandler.DeleteGoal)

	marketGroup := protected.Group("/market")
	marketGroup.GET("/dse", marketHandler.GetDSEStocks)
	marketGroup.GET("/utt", marketHandler.GetUTTFunds)

	// Programmatic access for Enterprise API keys. Read-only surface.
	ext := router.Group("/api/ext")
	ext.Use(middleware.APIKeyAuthMiddleware(db))
	ext.GET("/dashboard", dashboardHandler.GetDashboard)
	ext.GET("/investments", investmentHandler.GetInvestments)
	ext.GET("/transactions", transactionHandler.GetTransactions)

	log.Infof("Starting Invest backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
