package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/marius-hi/go-invest/internal/config"
	"github.com/marius-hi/go-invest/internal/database"
	"github.com/marius-hi/go-invest/internal/handlers"
	"github.com/marius-hi/go-invest/internal/logger"
	"github.com/marius-hi/go-invest/internal/middleware"
	"github.com/marius-hi/go-invest/internal/pricesource"
	"github.com/marius-hi/go-invest/internal/services"
	"github.com/marius-hi/go-invest/internal/validator"
)

// @title           go-invest API
// @version         1.0
// @description     go-invest tracks tradable assets, backfills their price history from an external quote source, and reports holdings per user.

// @host      localhost:8080
// @BasePath  /api/v1

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

	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate database schema: %w", err)
	}

	validator.Register()

	// Quote source
	quoteClient := &http.Client{Timeout: appConfig.QuoteTimeout}
	quoteSource := pricesource.NewMarketWatch(quoteClient)
	if appConfig.QuoteBaseURL != "" {
		quoteSource = pricesource.NewMarketWatchWithBase(quoteClient, appConfig.QuoteBaseURL)
	}

	// Services
	db := dbManager.DB()
	assetService := services.NewAssetService(db)
	currencyService := services.NewCurrencyService(db)
	priceService := services.NewPriceService(db, quoteSource)
	userService := services.NewUserService(db)
	positionService := services.NewPositionService(db)

	// Handlers
	assetHandler := handlers.NewAssetHandler(assetService, priceService)
	currencyHandler := handlers.NewCurrencyHandler(currencyService)
	userHandler := handlers.NewUserHandler(userService)
	positionHandler := handlers.NewPositionHandler(positionService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
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

	log.Infof("Starting go-invest server on port %s", appConfig.Port)
	log.Infof("Quote source: %s", quoteSource.Name())
	return router.Run(":" + appConfig.Port)
}
