package portfel

import (
	"context"
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// PLN is a helper for test to create zloty money from const
func PLN(v float64) Money { return M(v, "PLN") }

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// mustParse parses positions and panics on warnings.
func mustParse(text string) []Holding {
	h, w := ParsePositions(text)
	if len(w) > 0 {
		panic(w[0].String())
	}
	return h
}

// approx compares floats with a relative tolerance.
func approx(a, b, tolerance float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= tolerance*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

// fakeMarket is an in memory MarketData.
type fakeMarket struct {
	quotes   Quotes
	rates    map[string]float64 // key is from+to
	quoteErr error
	block    bool // block until the context is done
	asked    []string
}

func (f *fakeMarket) Quotes(ctx context.Context, tickers []string) (Quotes, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.quoteErr != nil {
		return nil, f.quoteErr
	}
	res := make(Quotes)
	for _, t := range tickers {
		if q, ok := f.quotes[t]; ok {
			res[t] = q
		}
	}
	return res, nil
}

func (f *fakeMarket) Rate(ctx context.Context, from, to string) (Price, error) {
	if f.block {
		<-ctx.Done()
		return None[decimal.Decimal](), ctx.Err()
	}
	r, ok := f.rates[from+to]
	if !ok {
		return None[decimal.Decimal](), errors.New("no such pair")
	}
	return P(r), nil
}

// fakeNamer answers from a map.
type fakeNamer map[string]string

func (f fakeNamer) Name(_ context.Context, ticker string) (string, error) {
	if n, ok := f[ticker]; ok {
		return n, nil
	}
	return "", errors.New("unknown ticker")
}
