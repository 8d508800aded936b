package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const topListCacheTTL = 5 * time.Minute

// topStockSymbols is the fixed watchlist served by GET /top-stocks.
var topStockSymbols = []string{
	"TSLA", "AAPL", "MSFT", "GOOG", "AMZN", "NVDA", "JPM", "V", "MA", "HD",
}

var stockNames = map[string]string{
	"TSLA": "Tesla, Inc.",
	"AAPL": "Apple Inc.",
	"MSFT": "Microsoft Corporation",
	"GOOG": "Alphabet Inc.",
	"AMZN": "Amazon.com, Inc.",
	"NVDA": "NVIDIA Corporation",
	"JPM":  "JPMorgan Chase & Co.",
	"V":    "Visa Inc.",
	"MA":   "Mastercard Incorporated",
	"HD":   "The Home Depot, Inc.",
}

// TopCryptocurrencies serves the top-10 ranked coins from the crypto
// provider's market listing, cached in Redis. These lists are market-wide and
// user-independent, so unlike portfolio quotes they are safe to cache.
func (h *Handler) TopCryptocurrencies(c *gin.Context) {
	ctx := c.Request.Context()

	if cached, err := h.Redis.Get(ctx, "top:cryptocurrencies").Result(); err == nil {
		c.Data(http.StatusOK, "application/json", []byte(cached))
		return
	}

	coins, err := h.Crypto.Listings(ctx, 10)
	if err != nil {
		h.Log.Warn("crypto listings fetch failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to fetch top cryptocurrencies"})
		return
	}

	payload, err := json.Marshal(coins)
	if err != nil {
		h.internalError(c, "marshal top cryptocurrencies", err)
		return
	}

	if err := h.Redis.Set(ctx, "top:cryptocurrencies", payload, topListCacheTTL).Err(); err != nil {
		h.Log.Warn("cache top cryptocurrencies failed", zap.Error(err))
	}

	c.Data(http.StatusOK, "application/json", payload)
}

type topStock struct {
	Symbol string           `json:"symbol"`
	Name   string           `json:"name"`
	Price  *decimal.Decimal `json:"price"`
}

// TopStocks serves the fixed watchlist with live prices. The price fetch is
// fail-open, so a provider outage yields null prices rather than an error.
func (h *Handler) TopStocks(c *gin.Context) {
	ctx := c.Request.Context()

	if cached, err := h.Redis.Get(ctx, "top:stocks").Result(); err == nil {
		c.Data(http.StatusOK, "application/json", []byte(cached))
		return
	}

	prices := h.Equity.Prices(ctx, topStockSymbols)

	stocks := make([]topStock, 0, len(topStockSymbols))
	for _, symbol := range topStockSymbols {
		row := topStock{Symbol: symbol, Name: stockNames[symbol]}
		if price, ok := prices[symbol]; ok {
			p := price
			row.Price = &p
		}
		stocks = append(stocks, row)
	}

	payload, err := json.Marshal(stocks)
	if err != nil {
		h.internalError(c, "marshal top stocks", err)
		return
	}

	// Only cache complete results so an outage is retried on the next hit.
	if len(prices) == len(topStockSymbols) {
		if err := h.Redis.Set(ctx, "top:stocks", payload, topListCacheTTL).Err(); err != nil {
			h.Log.Warn("cache top stocks failed", zap.Error(err))
		}
	}

	c.Data(http.StatusOK, "application/json", payload)
}
