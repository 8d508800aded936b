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

// CryptoConfig configures the crypto quote client.
type CryptoConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// CryptoClient fetches batch quotes from the crypto provider. All failures
// are converted to empty results at this boundary: a provider outage degrades
// prices to null, it never breaks a listing request.
type CryptoClient struct {
	cfg    CryptoConfig
	client *http.Client
	log    *zap.Logger
}

func NewCryptoClient(cfg CryptoConfig, log *zap.Logger) *CryptoClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &CryptoClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log,
	}
}

// Quotes returns live quotes for the given symbols, keyed by uppercase
// symbol. Symbols the provider does not know are simply absent from the
// result. An empty symbol set short-circuits without a network call.
func (c *CryptoClient) Quotes(ctx context.Context, symbols []string) map[string]Quote {
	filtered := filterSymbols(symbols)
	if len(filtered) == 0 {
		return map[string]Quote{}
	}

	quotes, err := c.fetchQuotes(ctx, filtered)
	if err != nil {
		c.log.Warn("crypto quote fetch failed", zap.Strings("symbols", filtered), zap.Error(err))
		return map[string]Quote{}
	}
	return quotes
}

type cmcQuoteEntry struct {
	Symbol  string `json:"symbol"`
	CmcRank *int   `json:"cmc_rank"`
	Quote   map[string]struct {
		Price           *decimal.Decimal `json:"price"`
		PercentChange1h *decimal.Decimal `json:"percent_change_1h"`
		PercentChange24 *decimal.Decimal `json:"percent_change_24h"`
		PercentChange7d *decimal.Decimal `json:"percent_change_7d"`
	} `json:"quote"`
}

func (c *CryptoClient) fetchQuotes(ctx context.Context, symbols []string) (map[string]Quote, error) {
	q := url.Values{}
	q.Set("symbol", strings.Join(symbols, ","))
	q.Set("convert", "USD")

	u := fmt.Sprintf("%s/v1/cryptocurrency/quotes/latest?%s", c.cfg.BaseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-CMC_PRO_API_KEY", c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Data map[string]cmcQuoteEntry `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	quotes := make(map[string]Quote, len(body.Data))
	for sym, entry := range body.Data {
		key := strings.ToUpper(sym)
		quote := Quote{Symbol: key, Rank: entry.CmcRank}
		if usd, ok := entry.Quote["USD"]; ok {
			quote.Price = usd.Price
			quote.PercentChange1h = usd.PercentChange1h
			quote.PercentChange24 = usd.PercentChange24
			quote.PercentChange7d = usd.PercentChange7d
		}
		quotes[key] = quote
	}
	return quotes, nil
}

// ListedCoin is one row of the provider's ranked market listing.
type ListedCoin struct {
	Name   string           `json:"name"`
	Symbol string           `json:"symbol"`
	Price  *decimal.Decimal `json:"price"`
	Rank   *int             `json:"rank"`
}

// Listings fetches the provider's top market listing. Unlike Quotes this
// returns the error: the top-listings endpoint has nothing to degrade to.
func (c *CryptoClient) Listings(ctx context.Context, limit int) ([]ListedCoin, error) {
	q := url.Values{}
	q.Set("start", "1")
	q.Set("limit", fmt.Sprint(limit))
	q.Set("convert", "USD")

	u := fmt.Sprintf("%s/v1/cryptocurrency/listings/latest?%s", c.cfg.BaseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-CMC_PRO_API_KEY", c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Data []struct {
			Name    string `json:"name"`
			Symbol  string `json:"symbol"`
			CmcRank *int   `json:"cmc_rank"`
			Quote   map[string]struct {
				Price *decimal.Decimal `json:"price"`
			} `json:"quote"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	coins := make([]ListedCoin, 0, len(body.Data))
	for _, entry := range body.Data {
		coin := ListedCoin{
			Name:   entry.Name,
			Symbol: strings.ToUpper(entry.Symbol),
			Rank:   entry.CmcRank,
		}
		if usd, ok := entry.Quote["USD"]; ok {
			coin.Price = usd.Price
		}
		coins = append(coins, coin)
	}
	return coins, nil
}
