package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"portfolio-tracker/config"
	"portfolio-tracker/enrich"
	"portfolio-tracker/marketdata"
)

// Handler carries the dependencies shared by all HTTP handlers.
type Handler struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Engine *enrich.Engine
	Crypto *marketdata.CryptoClient
	Equity *marketdata.EquityClient
	Cfg    config.Config
	Log    *zap.Logger
}

func New(db *gorm.DB, rdb *redis.Client, engine *enrich.Engine, crypto *marketdata.CryptoClient, equity *marketdata.EquityClient, cfg config.Config, log *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Redis:  rdb,
		Engine: engine,
		Crypto: crypto,
		Equity: equity,
		Cfg:    cfg,
		Log:    log,
	}
}

func (h *Handler) userID(c *gin.Context) uint {
	return c.MustGet("user_id").(uint)
}

func (h *Handler) internalError(c *gin.Context, where string, err error) {
	h.Log.Error("internal error", zap.String("where", where), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
