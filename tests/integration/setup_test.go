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

	"github.com/marius-hi/go-invest/internal/handlers"
	"github.com/marius-hi/go-invest/internal/logger"
	"github.com/marius-hi/go-invest/internal/middleware"
	"github.com/marius-hi/go-invest/internal/models"
	"github.com/marius-hi/go-invest/internal/pricesource"
	"github.com/marius-hi/go-invest/internal/services"
	"github.com/marius-hi/go-invest/internal/validator"
)

// testApp holds the full application stack for integration tests. The quote
// source is the real MarketWatch client pointed at a local stub server;
// tests control what the stub serves via quoteHandler.
type testApp struct {
	DB           *gorm.DB
	Router       *gin.Engine
	quoteHandler http.HandlerFunc
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
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.Currency{},
		&models.Asset{},
		&models.AssetPrice{},
		&models.User{},
		&models.Position{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory
// SQLite and a stub quote server.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	app := &testApp{DB: setupIsolatedDB(t)}

	quoteServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if app.quoteHandler == nil {
			http.NotFound(w, r)
			return
		}
		app.quoteHandler(w, r)
	}))
	t.Cleanup(quoteServer.Close)

	quoteSource := pricesource.NewMarketWatchWithBase(quoteServer.Client(), quoteServer.URL)

	// Services
	currencyService := services.NewCurrencyService(app.DB)
	assetService := services.NewAssetService(app.DB)
	priceService := services.NewPriceService(app.DB, quoteSource)
	userService := services.NewUserService(app.DB)
	positionService := services.NewPositionService(app.DB)

	// Handlers
	currencyHandler := handlers.NewCurrencyHandler(currencyService)
	assetHandler := handlers.NewAssetHandler(assetService, priceService)
	userHandler := handlers.NewUserHandler(userService)
	positionHandler := handlers.NewPositionHandler(positionService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	assets := v1.Group("/assets")
	assets.POST("", assetHandler.CreateAsset)
	assets.GET("", assetHandler.ListAssets)
	assets.GET("/:id", assetHandler.GetAsset)
	assets.DELETE("/:id", assetHandler.DeleteAsset)
	assets.POST("/:id/prices/update", assetHandler.UpdatePrices)
	assets.GET("/:id/prices", assetHandler.GetPriceHistory)
	assets.GET("/:id/positions", positionHandler.GetAssetPositions)

	currencies := v1.Group("/currencies")
	currencies.POST("", currencyHandler.CreateCurrency)
	currencies.GET("", currencyHandler.ListCurrencies)
	currencies.GET("/:id", currencyHandler.GetCurrency)
	currencies.DELETE("/:id", currencyHandler.DeleteCurrency)

	users := v1.Group("/users")
	users.POST("", userHandler.CreateUser)
	users.GET("/:id", userHandler.GetUser)
	users.GET("/:id/positions", positionHandler.GetUserPositions)

	v1.POST("/positions", positionHandler.CreatePosition)

	app.Router = router
	return app
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
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

// serveCSV configures the stub quote server to respond with the given CSV body.
func (app *testApp) serveCSV(csv string) {
	app.quoteHandler = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(csv))
	}
}

// createCurrency creates a currency via the API and returns its ID.
func (app *testApp) createCurrency(t *testing.T, code string) float64 {
	t.Helper()
	rec := app.request("POST", "/api/v1/currencies", fmt.Sprintf(`{"code":%q}`, code))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create currency failed: %d %s", rec.Code, rec.Body.String())
	}
	currency := parseJSON(t, rec)["currency"].(map[string]interface{})
	return currency["id"].(float64)
}

// createAsset creates a stock asset via the API and returns its ID.
func (app *testApp) createAsset(t *testing.T, isin, name, symbol string, currencyID float64) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"isin":%q,"name":%q,"symbol":%q,"type":"stock","currency_id":%.0f}`,
		isin, name, symbol, currencyID)
	rec := app.request("POST", "/api/v1/assets", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create asset failed: %d %s", rec.Code, rec.Body.String())
	}
	asset := parseJSON(t, rec)["asset"].(map[string]interface{})
	return asset["id"].(float64)
}

// createUser creates a user via the API and returns its ID.
func (app *testApp) createUser(t *testing.T, email string) float64 {
	t.Helper()
	rec := app.request("POST", "/api/v1/users", fmt.Sprintf(`{"email":%q,"name":"Test User"}`, email))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create user failed: %d %s", rec.Code, rec.Body.String())
	}
	user := parseJSON(t, rec)["user"].(map[string]interface{})
	return user["id"].(float64)
}
