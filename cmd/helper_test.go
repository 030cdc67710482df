package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/etnz/portfel"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testPositions = `BTC-USD,0.02,35000
AAPL,10,150
VWCE.DE,2,100,IKE
bad
`

// fakeMarket serves fixed quotes and rates into PLN.
type fakeMarket struct {
	quotes portfel.Quotes
	rates  map[string]portfel.Price
}

func (f fakeMarket) Quotes(_ context.Context, tickers []string) (portfel.Quotes, error) {
	res := make(portfel.Quotes)
	for _, t := range tickers {
		if q, ok := f.quotes[t]; ok {
			res[t] = q
		}
	}
	return res, nil
}

func (f fakeMarket) Rate(_ context.Context, from, to string) (portfel.Price, error) {
	if r, ok := f.rates[from]; ok {
		return r, nil
	}
	return portfel.None[decimal.Decimal](), errors.New("no rate")
}

type fakeNamer map[string]string

func (f fakeNamer) Name(_ context.Context, ticker string) (string, error) {
	if n, ok := f[ticker]; ok {
		return n, nil
	}
	return "", errors.New("unknown ticker")
}

// testEnv is an Env on a temporary data dir, with the test positions saved.
type testEnv struct {
	*Env
	out, err *bytes.Buffer
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	config := NewDefaultConfig()
	config.DataDir = dir
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	env := &Env{
		Config: config,
		Store:  portfel.NewStore(dir, zerolog.Nop()),
		Market: fakeMarket{
			quotes: portfel.Quotes{
				"BTC-USD": {Price: portfel.P(40000), First1M: portfel.P(38000), First1W: portfel.P(41000)},
				"AAPL":    {Price: portfel.P(200), First1M: portfel.P(190), First1W: portfel.P(195)},
			},
			rates: map[string]portfel.Price{"USD": portfel.P(4), "EUR": portfel.P(4.5)},
		},
		Namer: fakeNamer{"AAPL": "Apple Inc."},
		Log:   zerolog.Nop(),
		Out:   out,
		Err:   errOut,
		Raw:   true,
		Now:   func() time.Time { return time.Date(2025, time.March, 28, 17, 30, 0, 0, time.UTC) },
	}
	require.NoError(t, env.Store.SavePositions(testPositions))
	return testEnv{Env: env, out: out, err: errOut}
}
