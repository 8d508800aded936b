package marketdata

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Quote is a live, never-persisted price record for one symbol. Nil fields
// mean the provider had no data for them.
type Quote struct {
	Symbol          string
	Price           *decimal.Decimal
	PercentChange1h *decimal.Decimal
	PercentChange24 *decimal.Decimal
	PercentChange7d *decimal.Decimal
	Rank            *int
}

// AssetClass routes a holding to a market data provider.
type AssetClass int

const (
	AssetNone AssetClass = iota
	AssetCrypto
	AssetEquity
)

func (a AssetClass) String() string {
	switch a {
	case AssetCrypto:
		return "crypto"
	case AssetEquity:
		return "equity"
	}
	return "none"
}

// ParseAssetClass maps a query-string value to an asset class.
func ParseAssetClass(s string) (AssetClass, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "crypto", "cryptocurrency", "currency":
		return AssetCrypto, true
	case "equity", "stock", "stocks":
		return AssetEquity, true
	}
	return AssetNone, false
}

// ClassifyPortfolio resolves a portfolio name to the provider its holdings
// are priced from. Unrecognized names get no live pricing.
func ClassifyPortfolio(name string) AssetClass {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "cryptocurrency":
		return AssetCrypto
	case "stocks", "precious metals":
		return AssetEquity
	}
	return AssetNone
}

// filterSymbols drops blanks and the "N/A" placeholder, and collapses
// duplicates while preserving order and case.
func filterSymbols(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.TrimSpace(s)
		if s == "" || strings.EqualFold(s, "N/A") {
			continue
		}
		key := strings.ToUpper(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
