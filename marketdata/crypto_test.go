package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCryptoTestClient(t *testing.T, handler http.HandlerFunc) *CryptoClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewCryptoClient(CryptoConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Timeout: 2 * time.Second,
	}, zap.NewNop())
}

func TestCryptoQuotes_ParsesBatchResponse(t *testing.T) {
	var gotSymbols, gotConvert, gotKey string
	client := newCryptoTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotSymbols = r.URL.Query().Get("symbol")
		gotConvert = r.URL.Query().Get("convert")
		gotKey = r.Header.Get("X-CMC_PRO_API_KEY")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{
			"BTC":{"symbol":"BTC","cmc_rank":1,"quote":{"USD":{"price":30000,"percent_change_1h":0.5,"percent_change_24h":-1.2,"percent_change_7d":3.4}}},
			"ETH":{"symbol":"ETH","quote":{"USD":{"price":2000.25}}}
		}}`))
	})

	quotes := client.Quotes(context.Background(), []string{"BTC", "ETH"})

	assert.Equal(t, "BTC,ETH", gotSymbols)
	assert.Equal(t, "USD", gotConvert)
	assert.Equal(t, "test-key", gotKey)

	require.Len(t, quotes, 2)

	btc := quotes["BTC"]
	require.NotNil(t, btc.Price)
	assert.True(t, btc.Price.Equal(decimal.NewFromInt(30000)))
	require.NotNil(t, btc.Rank)
	assert.Equal(t, 1, *btc.Rank)
	require.NotNil(t, btc.PercentChange1h)
	assert.True(t, btc.PercentChange1h.Equal(decimal.RequireFromString("0.5")))
	require.NotNil(t, btc.PercentChange24)
	assert.True(t, btc.PercentChange24.Equal(decimal.RequireFromString("-1.2")))

	eth := quotes["ETH"]
	require.NotNil(t, eth.Price)
	assert.True(t, eth.Price.Equal(decimal.RequireFromString("2000.25")))
	assert.Nil(t, eth.Rank)
	assert.Nil(t, eth.PercentChange1h)
}

func TestCryptoQuotes_FiltersSymbolsBeforeCall(t *testing.T) {
	var gotSymbols string
	client := newCryptoTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotSymbols = r.URL.Query().Get("symbol")
		w.Write([]byte(`{"data":{}}`))
	})

	client.Quotes(context.Background(), []string{"BTC", "", "N/A", "eth"})

	assert.Equal(t, "BTC,eth", gotSymbols)
}

func TestCryptoQuotes_EmptyBatchMakesNoCall(t *testing.T) {
	calls := 0
	client := newCryptoTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
	})

	quotes := client.Quotes(context.Background(), []string{"", "N/A", "n/a"})

	assert.Empty(t, quotes)
	assert.Zero(t, calls)
}

func TestCryptoQuotes_SubsetResponse(t *testing.T) {
	client := newCryptoTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"BTC":{"symbol":"BTC","quote":{"USD":{"price":30000}}}}}`))
	})

	quotes := client.Quotes(context.Background(), []string{"BTC", "NOPE"})

	require.Len(t, quotes, 1)
	_, ok := quotes["NOPE"]
	assert.False(t, ok)
}

func TestCryptoQuotes_FailOpen(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		client := newCryptoTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		assert.Empty(t, client.Quotes(context.Background(), []string{"BTC"}))
	})

	t.Run("malformed body", func(t *testing.T) {
		client := newCryptoTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data": [not json`))
		})
		assert.Empty(t, client.Quotes(context.Background(), []string{"BTC"}))
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
		}))
		defer srv.Close()
		client := NewCryptoClient(CryptoConfig{
			BaseURL: srv.URL,
			Timeout: 50 * time.Millisecond,
		}, zap.NewNop())
		assert.Empty(t, client.Quotes(context.Background(), []string{"BTC"}))
	})

	t.Run("unreachable host", func(t *testing.T) {
		client := NewCryptoClient(CryptoConfig{
			BaseURL: "http://127.0.0.1:1",
			Timeout: 200 * time.Millisecond,
		}, zap.NewNop())
		assert.Empty(t, client.Quotes(context.Background(), []string{"BTC"}))
	})
}

func TestCryptoListings(t *testing.T) {
	client := newCryptoTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("start"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Equal(t, "USD", r.URL.Query().Get("convert"))
		w.Write([]byte(`{"data":[
			{"name":"Bitcoin","symbol":"BTC","cmc_rank":1,"quote":{"USD":{"price":30000}}},
			{"name":"Ethereum","symbol":"ETH","cmc_rank":2,"quote":{"USD":{"price":2000}}}
		]}`))
	})

	coins, err := client.Listings(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, coins, 2)
	assert.Equal(t, "Bitcoin", coins[0].Name)
	assert.Equal(t, "BTC", coins[0].Symbol)
	require.NotNil(t, coins[0].Price)
	assert.True(t, coins[0].Price.Equal(decimal.NewFromInt(30000)))
}

func TestCryptoListings_Error(t *testing.T) {
	client := newCryptoTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.Listings(context.Background(), 10)
	assert.Error(t, err)
}
