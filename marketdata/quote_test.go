package marketdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterSymbols(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"blanks and sentinel removed", []string{"BTC", "", "N/A", "eth"}, []string{"BTC", "eth"}},
		{"sentinel case-insensitive", []string{"n/a", "N/a", "SOL"}, []string{"SOL"}},
		{"duplicates collapsed", []string{"BTC", "btc", "BTC"}, []string{"BTC"}},
		{"whitespace trimmed", []string{" AAPL ", "  "}, []string{"AAPL"}},
		{"empty input", nil, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filterSymbols(tt.in))
		})
	}
}

func TestClassifyPortfolio(t *testing.T) {
	tests := []struct {
		name string
		want AssetClass
	}{
		{"Cryptocurrency", AssetCrypto},
		{"cryptocurrency", AssetCrypto},
		{"CRYPTOCURRENCY", AssetCrypto},
		{"Stocks", AssetEquity},
		{"Precious Metals", AssetEquity},
		{"precious metals", AssetEquity},
		{"Real Estate", AssetNone},
		{"", AssetNone},
		{"crypto", AssetNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyPortfolio(tt.name))
		})
	}
}

func TestParseAssetClass(t *testing.T) {
	for _, s := range []string{"crypto", "Cryptocurrency", "currency"} {
		got, ok := ParseAssetClass(s)
		assert.True(t, ok, s)
		assert.Equal(t, AssetCrypto, got, s)
	}
	for _, s := range []string{"equity", "stock", "Stocks"} {
		got, ok := ParseAssetClass(s)
		assert.True(t, ok, s)
		assert.Equal(t, AssetEquity, got, s)
	}
	_, ok := ParseAssetClass("bonds")
	assert.False(t, ok)
	_, ok = ParseAssetClass("")
	assert.False(t, ok)
}
