package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-tracker/enrich"
	"portfolio-tracker/marketdata"
)

// GetHoldings serves GET /holdings. Without a symbol it returns the user's
// full enriched listing (optionally narrowed by ?class=crypto|equity). With
// ?symbol= it runs the single-symbol lookup against the class's provider
// (crypto when unspecified) and responds with a one-element array, matching
// the listing shape.
func (h *Handler) GetHoldings(c *gin.Context) {
	class, classGiven := marketdata.ParseAssetClass(c.Query("class"))

	if symbol := c.Query("symbol"); symbol != "" {
		if !classGiven {
			class = marketdata.AssetCrypto
		}
		h.lookup(c, symbol, class)
		return
	}

	filter := marketdata.AssetNone
	if classGiven {
		filter = class
	}
	h.listing(c, filter)
}

// GetCurrencies serves GET /currencies: the crypto-class view of the same
// listing, or the crypto lookup when ?symbol= is present.
func (h *Handler) GetCurrencies(c *gin.Context) {
	if symbol := c.Query("symbol"); symbol != "" {
		h.lookup(c, symbol, marketdata.AssetCrypto)
		return
	}
	h.listing(c, marketdata.AssetCrypto)
}

// GetStocks serves GET /stocks: the equity-class view.
func (h *Handler) GetStocks(c *gin.Context) {
	if symbol := c.Query("symbol"); symbol != "" {
		h.lookup(c, symbol, marketdata.AssetEquity)
		return
	}
	h.listing(c, marketdata.AssetEquity)
}

func (h *Handler) listing(c *gin.Context, filter marketdata.AssetClass) {
	rows, err := h.Engine.Listing(c.Request.Context(), h.userID(c), filter)
	if err != nil {
		h.internalError(c, "enrich listing", err)
		return
	}

	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, renderEnriched(row))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) lookup(c *gin.Context, symbol string, class marketdata.AssetClass) {
	row, err := h.Engine.Lookup(c.Request.Context(), h.userID(c), symbol, class)
	if err != nil {
		h.internalError(c, "symbol lookup", err)
		return
	}

	c.JSON(http.StatusOK, []gin.H{renderEnriched(row)})
}

// renderEnriched maps an enriched holding to its wire shape. The purchase
// fields keep the historical per-class names; quote-derived fields are null
// whenever no price resolved, never zero and never omitted.
func renderEnriched(row enrich.EnrichedHolding) gin.H {
	out := gin.H{
		"symbol":         row.Symbol,
		"name":           row.Name,
		"current_price":  row.CurrentPrice,
		"total_value":    row.TotalValue,
		"total_paid":     row.TotalPaid,
		"profits_losses": row.ProfitLoss,
	}

	switch row.Class {
	case marketdata.AssetEquity:
		out["cost_per_share"] = row.PurchasePrice
		out["shares_owned"] = row.Quantity
	default:
		out["price_per"] = row.PurchasePrice
		out["amount_owned"] = row.Quantity
	}

	if row.Class == marketdata.AssetCrypto {
		out["percent_change_1h"] = row.PercentChange1h
		out["percent_change_24h"] = row.PercentChange24
		out["percent_change_7d"] = row.PercentChange7d
		out["rank"] = row.Rank
	}
	return out
}
