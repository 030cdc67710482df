package portfel

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

func TestNewPriceQuote(t *testing.T) {
	tests := []struct {
		name                    string
		closes                   []float64
		price, first1m, first1w float64 // NaN means unknown
	}{
		{"month", []float64{10, 11, 12, 13, 14, 15, 16, 17}, 17, 10, 13},
		{"short window", []float64{10, 11, 12}, 12, 10, 10},
		{"single", []float64{42}, 42, 42, 42},
		{"nan dropped", []float64{math.NaN(), 10, math.NaN(), 12}, 12, 10, 10},
		{"empty", nil, math.NaN(), math.NaN(), math.NaN()},
		{"only nan", []float64{math.NaN()}, math.NaN(), math.NaN(), math.NaN()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewPriceQuote(tt.closes)
			checkPrice(t, "Price", q.Price, tt.price)
			checkPrice(t, "First1M", q.First1M, tt.first1m)
			checkPrice(t, "First1W", q.First1W, tt.first1w)
		})
	}
}

func checkPrice(t *testing.T, name string, got Price, want float64) {
	t.Helper()
	v, ok := got.Get()
	if math.IsNaN(want) {
		if ok {
			t.Errorf("%s = %v, want unknown", name, v)
		}
		return
	}
	if !ok || v.InexactFloat64() != want {
		t.Errorf("%s = %v (%v), want %v", name, v, ok, want)
	}
}

func TestFetchMarket(t *testing.T) {
	holdings := mustParse("AAPL,1\nVWCE.DE,1\nPKO.WA,1\nAAPL,2\nNEW,1")
	md := &fakeMarket{
		quotes: Quotes{
			"AAPL":    {Price: P(100)},
			"VWCE.DE": {Price: P(90)},
			"PKO.WA":  {Price: P(50)},
		},
		rates: map[string]float64{"USDPLN": 4, "EURPLN": 4.3},
	}

	quotes, fx := FetchMarket(context.Background(), md, holdings, "PLN", time.Second)
	if len(quotes) != 3 {
		t.Errorf("len(quotes) = %d, want 3", len(quotes))
	}
	if _, ok := quotes["NEW"]; ok {
		t.Errorf("NEW must not be quoted")
	}
	for cur, want := range map[string]float64{"PLN": 1, "USD": 4, "EUR": 4.3} {
		r, ok := fx[cur].Get()
		if !ok || r.InexactFloat64() != want {
			t.Errorf("fx[%s] = %v (%v), want %v", cur, r, ok, want)
		}
	}
}

func TestFetchMarket_Failures(t *testing.T) {
	holdings := mustParse("AAPL,1\nVWCE.DE,1")

	md := &fakeMarket{quoteErr: errors.New("provider down"), rates: map[string]float64{"USDPLN": 4}}
	quotes, fx := FetchMarket(context.Background(), md, holdings, "PLN", 0)
	if len(quotes) != 0 {
		t.Errorf("quotes = %v, want none", quotes)
	}
	if fx["EUR"].Known() {
		t.Errorf("EUR rate must be unavailable")
	}
	v := Valuate(holdings, quotes, fx, "PLN")
	if len(v.Missing) != 2 {
		t.Errorf("Missing = %v, want both tickers", v.Missing)
	}
}

func TestFetchMarket_Timeout(t *testing.T) {
	holdings := mustParse("AAPL,1\nVWCE.DE,1")
	md := &fakeMarket{block: true}

	start := time.Now()
	quotes, fx := FetchMarket(context.Background(), md, holdings, "PLN", 50*time.Millisecond)
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("FetchMarket() took %v, the timeout was not applied", elapsed)
	}
	if len(quotes) != 0 || fx["USD"].Known() || fx["EUR"].Known() {
		t.Errorf("timeout must leave quotes and rates unavailable, got %v %v", quotes, fx)
	}
	if !fx["PLN"].Known() {
		t.Errorf("base currency rate must always be known")
	}
}

func TestTickers(t *testing.T) {
	got := Tickers(mustParse("B,1\nA,1\nB,2"))
	if len(got) != 2 || got[0] != "B" || got[1] != "A" {
		t.Errorf("Tickers() = %v, want [B A]", got)
	}
}
