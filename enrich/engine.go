package enrich

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"portfolio-tracker/marketdata"
	"portfolio-tracker/models"
)

// Store is the read side of the holdings store used by the engine. Writes
// never happen on the enrichment path.
type Store interface {
	PortfoliosForUser(ctx context.Context, userID uint) ([]models.Portfolio, error)
	HoldingsForUser(ctx context.Context, userID uint) ([]models.Holding, error)
	// HoldingBySymbol returns the first holding owned by the user matching
	// the symbol case-insensitively, across all portfolios, or nil.
	HoldingBySymbol(ctx context.Context, userID uint, symbol string) (*models.Holding, error)
}

// CryptoQuoter and EquityQuoter are the provider boundaries. Both are
// fail-open: an empty map means "no data", never an error.
type CryptoQuoter interface {
	Quotes(ctx context.Context, symbols []string) map[string]marketdata.Quote
}

type EquityQuoter interface {
	Prices(ctx context.Context, symbols []string) map[string]decimal.Decimal
}

// EnrichedHolding is a stored holding joined with its live quote plus the
// derived money metrics. Nil means "not computable", never zero: TotalPaid is
// the only metric that survives a provider outage.
type EnrichedHolding struct {
	Class         marketdata.AssetClass
	Symbol        string
	Name          string
	PurchasePrice *decimal.Decimal
	Quantity      *decimal.Decimal

	CurrentPrice *decimal.Decimal
	TotalValue   *decimal.Decimal
	TotalPaid    *decimal.Decimal
	ProfitLoss   *decimal.Decimal

	PercentChange1h *decimal.Decimal
	PercentChange24 *decimal.Decimal
	PercentChange7d *decimal.Decimal
	Rank            *int
}

// Engine joins stored holdings with live provider quotes. It is stateless;
// every call stands alone.
type Engine struct {
	store  Store
	crypto CryptoQuoter
	equity EquityQuoter
	log    *zap.Logger
}

func NewEngine(store Store, crypto CryptoQuoter, equity EquityQuoter, log *zap.Logger) *Engine {
	return &Engine{store: store, crypto: crypto, equity: equity, log: log}
}

// Listing returns every holding the user owns, enriched with live prices.
// filter narrows the result to one asset class; marketdata.AssetNone means
// all classes. Store errors are fatal for the request; provider failures
// degrade the affected quote fields to nil.
func (e *Engine) Listing(ctx context.Context, userID uint, filter marketdata.AssetClass) ([]EnrichedHolding, error) {
	portfolios, err := e.store.PortfoliosForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load portfolios: %w", err)
	}

	// Classify each portfolio once; every holding reuses the result.
	classByPortfolio := make(map[uint]marketdata.AssetClass, len(portfolios))
	for _, p := range portfolios {
		classByPortfolio[p.ID] = marketdata.ClassifyPortfolio(p.Name)
	}

	holdings, err := e.store.HoldingsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load holdings: %w", err)
	}

	var cryptoSymbols, equitySymbols []string
	for _, h := range holdings {
		switch classByPortfolio[h.PortfolioID] {
		case marketdata.AssetCrypto:
			cryptoSymbols = append(cryptoSymbols, h.Symbol)
		case marketdata.AssetEquity:
			equitySymbols = append(equitySymbols, h.Symbol)
		}
	}

	// Both batches are independent; fetch them concurrently and join after
	// the barrier. The quoters fail open, so neither goroutine can error.
	var (
		wg           sync.WaitGroup
		cryptoQuotes map[string]marketdata.Quote
		equityPrices map[string]decimal.Decimal
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		cryptoQuotes = e.crypto.Quotes(ctx, cryptoSymbols)
	}()
	go func() {
		defer wg.Done()
		equityPrices = e.equity.Prices(ctx, equitySymbols)
	}()
	wg.Wait()

	e.log.Debug("quote batches fetched",
		zap.Int("crypto_requested", len(cryptoSymbols)),
		zap.Int("crypto_quoted", len(cryptoQuotes)),
		zap.Int("equity_requested", len(equitySymbols)),
		zap.Int("equity_quoted", len(equityPrices)))

	out := make([]EnrichedHolding, 0, len(holdings))
	for _, h := range holdings {
		class := classByPortfolio[h.PortfolioID]
		if filter != marketdata.AssetNone && class != filter {
			continue
		}

		row := EnrichedHolding{
			Class:         class,
			Symbol:        h.Symbol,
			Name:          h.Name,
			PurchasePrice: &h.PurchasePrice,
			Quantity:      &h.Quantity,
		}

		key := strings.ToUpper(h.Symbol)
		switch class {
		case marketdata.AssetCrypto:
			if q, ok := cryptoQuotes[key]; ok {
				row.CurrentPrice = q.Price
				row.PercentChange1h = q.PercentChange1h
				row.PercentChange24 = q.PercentChange24
				row.PercentChange7d = q.PercentChange7d
				row.Rank = q.Rank
			}
		case marketdata.AssetEquity:
			if p, ok := equityPrices[key]; ok {
				price := p
				row.CurrentPrice = &price
			}
		}

		computeMetrics(&row)
		out = append(out, row)
	}
	return out, nil
}

// Lookup answers "what is this one symbol worth, and do I own any". The
// asset class is supplied by the caller, not inferred. The call succeeds even
// when the symbol is unknown to the provider or unowned; missing data is nil.
func (e *Engine) Lookup(ctx context.Context, userID uint, symbol string, class marketdata.AssetClass) (EnrichedHolding, error) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	row := EnrichedHolding{Class: class, Symbol: sym, Name: sym}

	switch class {
	case marketdata.AssetCrypto:
		if q, ok := e.crypto.Quotes(ctx, []string{sym})[sym]; ok {
			row.CurrentPrice = q.Price
			row.PercentChange1h = q.PercentChange1h
			row.PercentChange24 = q.PercentChange24
			row.PercentChange7d = q.PercentChange7d
			row.Rank = q.Rank
		}
	case marketdata.AssetEquity:
		if p, ok := e.equity.Prices(ctx, []string{sym})[sym]; ok {
			price := p
			row.CurrentPrice = &price
		}
	}

	holding, err := e.store.HoldingBySymbol(ctx, userID, sym)
	if err != nil {
		return EnrichedHolding{}, fmt.Errorf("find holding %q: %w", sym, err)
	}
	if holding != nil {
		if holding.Name != "" {
			row.Name = holding.Name
		}
		row.PurchasePrice = &holding.PurchasePrice
		row.Quantity = &holding.Quantity
	}

	computeMetrics(&row)
	return row, nil
}

// computeMetrics fills the derived money fields from purchase price,
// quantity, and current price. Anything needing a missing input stays nil.
func computeMetrics(row *EnrichedHolding) {
	if row.PurchasePrice == nil || row.Quantity == nil {
		return
	}
	paid := row.PurchasePrice.Mul(*row.Quantity)
	row.TotalPaid = &paid

	if row.CurrentPrice == nil {
		return
	}
	value := row.CurrentPrice.Mul(*row.Quantity)
	row.TotalValue = &value
	profit := row.CurrentPrice.Sub(*row.PurchasePrice).Mul(*row.Quantity)
	row.ProfitLoss = &profit
}
