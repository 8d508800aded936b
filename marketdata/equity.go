package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// EquityConfig configures the equity quote client.
type EquityConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// EquityClient fetches batch prices from the equity quote provider. This
// provider returns a flat price per symbol, no percent changes or rank.
// Same fail-open policy as the crypto client.
type EquityClient struct {
	cfg    EquityConfig
	client *http.Client
	log    *zap.Logger
}

func NewEquityClient(cfg EquityConfig, log *zap.Logger) *EquityClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &EquityClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log,
	}
}

// Prices returns live prices keyed by uppercase symbol. Entries the provider
// returned without a price are dropped, not inserted as null. An empty symbol
// set short-circuits without a network call.
func (c *EquityClient) Prices(ctx context.Context, symbols []string) map[string]decimal.Decimal {
	filtered := filterSymbols(symbols)
	if len(filtered) == 0 {
		return map[string]decimal.Decimal{}
	}

	prices, err := c.fetchPrices(ctx, filtered)
	if err != nil {
		c.log.Warn("equity price fetch failed", zap.Strings("symbols", filtered), zap.Error(err))
		return map[string]decimal.Decimal{}
	}
	return prices
}

func (c *EquityClient) fetchPrices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	joined := strings.Join(symbols, ",")
	u := fmt.Sprintf("%s/api/v3/quote-short/%s?apikey=%s",
		c.cfg.BaseURL, url.PathEscape(joined), url.QueryEscape(c.cfg.APIKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body []struct {
		Symbol string           `json:"symbol"`
		Price  *decimal.Decimal `json:"price"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	prices := make(map[string]decimal.Decimal, len(body))
	for _, entry := range body {
		if entry.Price == nil {
			continue
		}
		prices[strings.ToUpper(entry.Symbol)] = *entry.Price
	}
	return prices, nil
}
