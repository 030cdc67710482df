package portfel

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// PriceQuote holds the market data for a single ticker.
//
// Any field may be unknown, e.g. for a new listing or a provider failure.
type PriceQuote struct {
	Price   Price // latest close
	First1M Price // first close of the ~1 month window
	First1W Price // first close of the last 5 trading days
}

// NewPriceQuote reduces a chronological window of daily closes (about one
// month long) into a quote. NaN closes are dropped.
//
// The 1 month reference is the first close of the window and the 1 week
// reference is the first of the last 5 closes: a window shorter than a month
// yields a trend over whatever is available.
func NewPriceQuote(closes []float64) PriceQuote {
	valid := make([]float64, 0, len(closes))
	for _, c := range closes {
		if !math.IsNaN(c) && !math.IsInf(c, 0) {
			valid = append(valid, c)
		}
	}
	if len(valid) == 0 {
		return PriceQuote{}
	}
	week := valid
	if len(week) > 5 {
		week = week[len(week)-5:]
	}
	return PriceQuote{
		Price:   P(valid[len(valid)-1]),
		First1M: P(valid[0]),
		First1W: P(week[0]),
	}
}

// Quotes maps tickers to their quote. A missing entry is an unavailable quote.
type Quotes map[string]PriceQuote

// FXRates maps a currency to its rate into the base currency. A missing entry
// is an unavailable rate.
type FXRates map[string]Price

// MarketData is the market data collaborator.
type MarketData interface {
	// Quotes fetches quotes in bulk. Tickers that cannot be quoted are absent
	// from the result, the error is reserved for a failure of the whole batch.
	Quotes(ctx context.Context, tickers []string) (Quotes, error)
	// Rate returns the latest rate to convert one unit of 'from' into 'to'.
	Rate(ctx context.Context, from, to string) (Price, error)
}

// Namer returns display names for tickers.
type Namer interface {
	Name(ctx context.Context, ticker string) (string, error)
}

// Tickers returns the unique tickers of holdings, in input order.
func Tickers(holdings []Holding) []string {
	seen := make(map[string]bool)
	var tickers []string
	for _, h := range holdings {
		if !seen[h.Ticker()] {
			seen[h.Ticker()] = true
			tickers = append(tickers, h.Ticker())
		}
	}
	return tickers
}

// currencies returns the unique currencies of holdings other than base, in input order.
func currencies(holdings []Holding, base string) []string {
	seen := map[string]bool{base: true}
	var curs []string
	for _, h := range holdings {
		if !seen[h.Currency()] {
			seen[h.Currency()] = true
			curs = append(curs, h.Currency())
		}
	}
	return curs
}

// FetchMarket fetches everything needed to value holdings into base: one
// bulk quote request and one rate per foreign currency, run concurrently.
//
// The fetch is bounded by timeout (if positive). Failures and timeouts are
// logged and leave the corresponding quotes or rates unavailable, they never
// fail the evaluation.
func FetchMarket(ctx context.Context, md MarketData, holdings []Holding, base string, timeout time.Duration) (Quotes, FXRates) {
	log := zerolog.Ctx(ctx)
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	quotes := make(Quotes)
	fx := FXRates{base: P(1)}
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(4)
	if tickers := Tickers(holdings); len(tickers) > 0 {
		g.Go(func() error {
			q, err := md.Quotes(ctx, tickers)
			if err != nil {
				log.Warn().Err(err).Strs("tickers", tickers).Msg("quotes unavailable")
			}
			mu.Lock()
			defer mu.Unlock()
			for t, pq := range q {
				quotes[t] = pq
			}
			return nil
		})
	}
	for _, c := range currencies(holdings, base) {
		g.Go(func() error {
			rate, err := md.Rate(ctx, c, base)
			if err != nil {
				log.Warn().Err(err).Str("pair", c+base).Msg("fx rate unavailable")
				return nil
			}
			if r, ok := rate.Get(); !ok || !r.IsPositive() {
				log.Warn().Str("pair", c+base).Msg("fx rate unavailable")
				return nil
			}
			mu.Lock()
			fx[c] = rate
			mu.Unlock()
			return nil
		})
	}
	g.Wait() // goroutines never return an error

	log.Debug().Int("quotes", len(quotes)).Int("rates", len(fx)).Msg("market fetched")
	return quotes, fx
}

// rate returns the conversion rate from currency into base.
func (fx FXRates) rate(currency, base string) Price {
	if currency == base {
		return Some(decimal.NewFromInt(1))
	}
	return fx[currency]
}
