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

	"thrift/internal/handlers"
	"thrift/internal/logger"
	"thrift/internal/middleware"
	"thrift/internal/models"
	"thrift/internal/services"
	"thrift/internal/validator"
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
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Entry{},
		&models.Challenge{},
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
	userService := services.NewUserService(db)
	ledgerService := services.NewLedgerService(db)
	challengeService := services.NewChallengeService(db)
	reportService := services.NewReportService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, ledgerService)
	entryHandler := handlers.NewEntryHandler(ledgerService)
	challengeHandler := handlers.NewChallengeHandler(challengeService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	expenses := protected.Group("/expenses")
	expenses.POST("", entryHandler.CreateExpense)
	expenses.GET("", entryHandler.ListExpenses)
	expenses.POST("/import", entryHandler.ImportExpenses)
	expenses.GET("/:name", entryHandler.GetExpense)
	expenses.DELETE("/:name", entryHandler.DeleteExpense)

	incomes := protected.Group("/incomes")
	incomes.POST("", entryHandler.CreateIncome)
	incomes.GET("", entryHandler.ListIncomes)
	incomes.GET("/:name", entryHandler.GetIncome)
	incomes.DELETE("/:name", entryHandler.DeleteIncome)

	challenges := protected.Group("/challenges")
	challenges.GET("", challengeHandler.ListChallenges)
	challenges.POST("", challengeHandler.CreateChallenge)
	challenges.GET("/templates", challengeHandler.ListTemplates)
	challenges.POST("/premade", challengeHandler.CreatePremadeChallenge)
	challenges.GET("/:name", challengeHandler.GetChallenge)
	challenges.PUT("/:name", challengeHandler.UpdateChallenge)
	challenges.DELETE("/:name", challengeHandler.DeleteChallenge)
	challenges.POST("/:name/savings", challengeHandler.AddSaving)

	reports := protected.Group("/reports")
	reports.GET("/category-span", reportHandler.CategorySpan)
	reports.GET("/biweekly", reportHandler.Biweekly)
	reports.GET("/monthly", reportHandler.Monthly)
	reports.GET("/yearly", reportHandler.Yearly)
	reports.GET("/range", reportHandler.CustomRange)
	reports.GET("/monthly-averages", reportHandler.MonthlyAverages)
	reports.GET("/trend", reportHandler.CategoryTrend)
	reports.POST("/plan", reportHandler.SplitPlan)

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

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the token.
func (app *testApp) registerUser(t *testing.T, email, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["token"].(string)
}

// loginUser logs in and returns the token and the reported balance.
func (app *testApp) loginUser(t *testing.T, email, password string) (string, float64) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), user["balance"].(float64)
}

// balance reads the current balance from the profile endpoint.
func (app *testApp) balance(t *testing.T, token string) float64 {
	t.Helper()
	rec := app.request("GET", "/api/v1/profile", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile failed: %d %s", rec.Code, rec.Body.String())
	}
	user := parseJSON(t, rec)["user"].(map[string]interface{})
	return user["balance"].(float64)
}
