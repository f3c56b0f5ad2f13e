package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jumbenylon/invest/internal/handlers"
	"github.com/jumbenylon/invest/internal/logger"
	"github.com/jumbenylon/invest/internal/market"
	"github.com/jumbenylon/invest/internal/middleware"
	"github.com/jumbenylon/invest/internal/models"
	"github.com/jumbenylon/invest/internal/plan"
	"github.com/jumbenylon/invest/internal/services"
	"github.com/jumbenylon/invest/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:integrationdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Portfolio{},
		&models.Investment{},
		&models.Transaction{},
		&models.Loan{},
		&models.LoanPayment{},
		&models.Goal{},
		&models.DSEStock{},
		&models.UTTFund{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
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

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

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

	// API key surface
	ext := router.Group("/api/ext")
	ext.Use(middleware.APIKeyAuthMiddleware(db))
	ext.GET("/dashboard", dashboardHandler.GetDashboard)
	ext.GET("/investments", investmentHandler.GetInvestments)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// requestWithAPIKey makes a GET request authenticated with X-API-Key.
func (app *testApp) requestWithAPIKey(t *testing.T, path, key string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	req.Header.Set("X-API-Key", key)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the token and user ID.
func (app *testApp) registerUser(t *testing.T, email string) (token, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":"password123","name":"Test User"}`, email)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), user["id"].(string)
}

// upgradeUser moves a registered user to the given plan and returns a fresh
// token carrying the new plan claim.
func (app *testApp) upgradeUser(t *testing.T, userID string, p plan.Plan) string {
	t.Helper()

	if err := app.DB.Model(&models.User{}).Where("id = ?", userID).Update("plan", p).Error; err != nil {
		t.Fatalf("failed to upgrade user: %v", err)
	}

	var user models.User
	if err := app.DB.First(&user, "id = ?", userID).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	token, err := middleware.GenerateToken(&user)
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}
	return token
}

// defaultPortfolioID returns the ID of the user's registration-time portfolio.
func (app *testApp) defaultPortfolioID(t *testing.T, token string) string {
	t.Helper()
	rec := app.request("GET", "/api/v1/portfolios", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("portfolio list failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	portfolios := result["portfolios"].([]interface{})
	if len(portfolios) == 0 {
		t.Fatal("expected a default portfolio")
	}
	return portfolios[0].(map[string]interface{})["id"].(string)
}
