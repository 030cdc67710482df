package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/portfel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte("\x89PNG")

func TestValue(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, (&valueCmd{}).run(context.Background(), env.Env))

	out := env.out.String()
	assert.Contains(t, out, "# Portfolio")
	assert.Contains(t, out, "*Updated 2025-03-28 17:30*")
	assert.Contains(t, out, "| Bitcoin |")
	assert.Contains(t, out, "| Apple Inc. |")
	assert.Contains(t, out, "| VWCE.DE |")
	assert.Contains(t, out, "| Total value | **"+portfel.M(11200, "PLN").String()+"** |")

	warnings := env.err.String()
	assert.Contains(t, warnings, `Warning: positions line 4 "bad": missing quantity`)
	assert.Contains(t, warnings, "Warning: no market data for VWCE.DE, excluded from the totals")
}

func TestValue_Filter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, (&valueCmd{filterFlags: filterFlags{categories: "crypto"}}).run(ctx, env.Env))
	assert.Contains(t, env.out.String(), "Bitcoin")
	assert.NotContains(t, env.out.String(), "Apple")
	assert.NotContains(t, env.err.String(), "no market data", "VWCE.DE is filtered out")

	settings, err := env.Store.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, []portfel.Category{portfel.CategoryCrypto}, settings.Filter.Categories)

	// the saved filter applies
	env.out.Reset()
	require.NoError(t, (&valueCmd{}).run(ctx, env.Env))
	assert.NotContains(t, env.out.String(), "Apple")

	// until cleared
	env.out.Reset()
	require.NoError(t, (&valueCmd{filterFlags: filterFlags{all: true}}).run(ctx, env.Env))
	assert.Contains(t, env.out.String(), "Apple")
	settings, err = env.Store.LoadSettings()
	require.NoError(t, err)
	assert.True(t, settings.Filter.IsZero())
}

func TestValue_Glamour(t *testing.T) {
	env := newTestEnv(t)
	env.Raw = false

	require.NoError(t, (&valueCmd{}).run(context.Background(), env.Env))
	assert.Contains(t, env.out.String(), "Portfolio")
	assert.Contains(t, env.out.String(), "Bitcoin")
	assert.NotContains(t, env.out.String(), "|:---|")
}

func TestExport(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, (&exportCmd{output: "-"}).run(ctx, env.Env))
	lines := strings.Split(strings.TrimSpace(env.out.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "Name,PL_Value_PLN,PL_Percent,"))
	assert.True(t, strings.HasPrefix(lines[1], "Bitcoin,400.00,14.29,up,down,BTC-USD,"), lines[1])

	file := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, (&exportCmd{output: file, filterFlags: filterFlags{accounts: "ike"}}).run(ctx, env.Env))
	content, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(content), "VWCE.DE")
	assert.NotContains(t, string(content), "AAPL")
	assert.Contains(t, env.err.String(), "Exported 1 positions to "+file)
}

func TestRetire(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	c := &retireCmd{age: 30, netWorth: 100000, set: map[string]bool{"age": true, "net-worth": true}}
	require.NoError(t, c.run(ctx, env.Env))
	assert.Contains(t, env.out.String(), "# Retirement Plan")
	assert.Contains(t, env.out.String(), "Retiring at 65 in 35 years, for 25 years")

	settings, err := env.Store.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, 30, settings.Retirement.CurrentAge)
	assert.Equal(t, portfel.DefaultSettings().Retirement.MonthlySpending, settings.Retirement.MonthlySpending)

	// the net worth is the portfolio value by default, and saved assumptions are reused.
	r, err := (&retireCmd{}).evaluate(ctx, env.Env)
	require.NoError(t, err)
	assert.InDelta(t, 11200, r.NetWorth, 1e-6)
	assert.Equal(t, 30, r.Assumptions.CurrentAge)
}

func TestRetire_Apply(t *testing.T) {
	c := &retireCmd{spending: 5000, pension: 1000, endAge: 95, set: map[string]bool{"spending": true, "pension": true, "end-age": true}}
	s := portfel.DefaultSettings()
	assert.True(t, c.apply(&s))
	assert.Equal(t, 5000.0, s.Retirement.MonthlySpending)
	assert.Equal(t, 1000.0, s.Retirement.PensionMonthly)
	assert.Equal(t, 95, s.EndOfPlanAge)
	assert.Equal(t, 40, s.Retirement.CurrentAge)

	assert.False(t, (&retireCmd{}).apply(&s))
}

func TestChart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	dir := t.TempDir()

	for _, kind := range []string{"category", "wealth"} {
		file := filepath.Join(dir, kind+".png")
		require.NoError(t, (&chartCmd{kind: kind, output: file}).run(ctx, env.Env), kind)
		content, err := os.ReadFile(file)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(content, pngMagic), kind)
	}

	assert.Error(t, (&chartCmd{kind: "bars"}).run(ctx, env.Env))
}

func TestPositions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, (&positionsCmd{}).run(ctx, env.Env))
	assert.Equal(t, testPositions, env.out.String())

	require.NoError(t, (&positionsCmd{add: " MSFT,5 "}).run(ctx, env.Env))
	text, err := env.Store.LoadPositions()
	require.NoError(t, err)
	assert.Equal(t, testPositions+"MSFT,5\n", text)
	assert.Contains(t, env.err.String(), "Saved 4 positions")

	assert.Error(t, (&positionsCmd{add: "NVDA,-1"}).run(ctx, env.Env))
	assert.Error(t, (&positionsCmd{add: "X,1", set: "-"}).run(ctx, env.Env))

	require.NoError(t, (&positionsCmd{set: "-", in: strings.NewReader("AAPL,1\nETH-USD,2,1500\n")}).run(ctx, env.Env))
	text, err = env.Store.LoadPositions()
	require.NoError(t, err)
	assert.Equal(t, "AAPL,1\nETH-USD,2,1500\n", text)

	file := filepath.Join(t.TempDir(), "positions.txt")
	require.NoError(t, os.WriteFile(file, []byte("TSLA,3,250\n"), 0o644))
	require.NoError(t, (&positionsCmd{set: file}).run(ctx, env.Env))
	text, err = env.Store.LoadPositions()
	require.NoError(t, err)
	assert.Equal(t, "TSLA,3,250\n", text)
}
