package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"portfolio-tracker/config"
	"portfolio-tracker/enrich"
	"portfolio-tracker/handlers"
	"portfolio-tracker/marketdata"
	"portfolio-tracker/middleware"
	"portfolio-tracker/models"
	"portfolio-tracker/store"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("init logger:", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	db, err := config.NewDB(cfg)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get database handle", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := db.AutoMigrate(&models.User{}, &models.Portfolio{}, &models.Holding{}); err != nil {
		logger.Fatal("migrate models", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	rdb, err := config.NewRedis(ctx, cfg)
	cancel()
	if err != nil {
		logger.Fatal("connect redis", zap.Error(err))
	}

	crypto := marketdata.NewCryptoClient(marketdata.CryptoConfig{
		BaseURL: cfg.CryptoBaseURL,
		APIKey:  cfg.CryptoAPIKey,
		Timeout: cfg.QuoteTimeout,
	}, logger)
	equity := marketdata.NewEquityClient(marketdata.EquityConfig{
		BaseURL: cfg.EquityBaseURL,
		APIKey:  cfg.EquityAPIKey,
		Timeout: cfg.QuoteTimeout,
	}, logger)

	engine := enrich.NewEngine(store.New(db), crypto, equity, logger)
	h := handlers.New(db, rdb, engine, crypto, equity, cfg, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	router.POST("/signup", h.Signup)
	router.POST("/login", h.Login)
	router.POST("/refresh", h.Refresh)

	auth := router.Group("/")
	auth.Use(middleware.JWTAuth(cfg.JWTSecret))
	{
		auth.POST("/password-change", h.PasswordChange)

		auth.POST("/portfolios", h.CreatePortfolio)
		auth.GET("/portfolios", h.ListPortfolios)
		auth.PUT("/portfolios/:id", h.UpdatePortfolio)
		auth.DELETE("/portfolios/:id", h.DeletePortfolio)
		auth.POST("/portfolios/:id/holdings", h.CreateHolding)
		auth.PUT("/holdings/:id", h.UpdateHolding)
		auth.DELETE("/holdings/:id", h.DeleteHolding)

		auth.GET("/holdings", h.GetHoldings)
		auth.GET("/currencies", h.GetCurrencies)
		auth.GET("/stocks", h.GetStocks)
		auth.GET("/top-cryptocurrencies", h.TopCryptocurrencies)
		auth.GET("/top-stocks", h.TopStocks)
	}

	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http_request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
