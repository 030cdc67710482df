// Package cmd implements the CLI application to value a portfolio and plan a retirement.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/portfel"
	"github.com/etnz/portfel/eodhd"
	"github.com/etnz/portfel/httpcache"
	"github.com/etnz/portfel/yahoo"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile   = flag.String("config", "portfel.toml", "Path to the TOML configuration file")
	dataDir      = flag.String("data-dir", "", "Folder holding the positions and the settings (overrides the configuration)")
	providerName = flag.String("provider", "", "Market data provider, yahoo or eodhd (overrides the configuration)")
	baseCurrency = flag.String("base", "", "Base currency of the valuation (overrides the configuration)")
	verbose      = flag.Bool("v", false, "Print debug logs")
	rawMarkdown  = flag.Bool("md", false, "Print raw markdown instead of formatting it for the terminal")
)

// Env is everything a command needs to run.
type Env struct {
	Config *Config
	Store  *portfel.Store
	Market portfel.MarketData
	Namer  portfel.Namer
	Log    zerolog.Logger
	Out    io.Writer // reports
	Err    io.Writer // warnings
	Raw    bool      // print markdown as is
	Now    func() time.Time
}

// NewEnv builds the environment from the configuration file, the .env file,
// the environment and the global flags, in increasing priority.
// refresh disables the quote cache.
func NewEnv(refresh bool) (*Env, error) {
	_ = godotenv.Load()

	config, err := LoadConfig(*configFile)
	if err != nil {
		return nil, err
	}
	if *dataDir != "" {
		config.DataDir = *dataDir
	}
	if *providerName != "" {
		config.Provider = *providerName
	}
	if *baseCurrency != "" {
		config.BaseCurrency = *baseCurrency
	}
	if *verbose {
		config.LogLevel = "debug"
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	log := NewLogger(config.LogLevel, os.Stderr)
	dir, err := config.DataPath()
	if err != nil {
		return nil, err
	}
	market, namer := newMarket(config, log, refresh)
	log.Debug().Str("dir", dir).Str("provider", config.Provider).Str("base", config.BaseCurrency).Msg("environment ready")

	return &Env{
		Config: config,
		Store:  portfel.NewStore(dir, log),
		Market: market,
		Namer:  namer,
		Log:    log,
		Out:    os.Stdout,
		Err:    os.Stderr,
		Raw:    *rawMarkdown,
		Now:    time.Now,
	}, nil
}

// newMarket creates the configured market data provider.
func newMarket(config *Config, log zerolog.Logger, refresh bool) (portfel.MarketData, portfel.Namer) {
	timeout := config.Market.GetTimeout()
	quoteBucket := config.Market.GetQuoteCache()
	if refresh {
		quoteBucket = 0
	}
	quotes := &http.Client{
		Transport: &httpcache.Transport{Bucket: quoteBucket, Dir: config.Market.CacheDir, Log: log},
		Timeout:   timeout,
	}
	names := &http.Client{
		Transport: &httpcache.Transport{Bucket: config.Market.GetNameCache(), Dir: config.Market.CacheDir, Log: log},
		Timeout:   timeout,
	}

	if config.Provider == "eodhd" {
		c := eodhd.NewClient(config.EODHD.APIKey,
			eodhd.WithBaseURL(config.EODHD.BaseURL),
			eodhd.WithLogger(log),
			eodhd.WithRateLimit(config.Market.RateLimit),
			eodhd.WithHTTPClients(quotes, names),
		)
		return c, c
	}
	c := yahoo.NewClient(
		yahoo.WithLogger(log),
		yahoo.WithRateLimit(config.Market.RateLimit),
		yahoo.WithHTTPClients(quotes, names),
	)
	return c, c
}

// Context returns ctx carrying the env logger.
func (e *Env) Context(ctx context.Context) context.Context {
	return e.Log.WithContext(ctx)
}

// printMarkdown prints markdown to the env output, formatted for the terminal unless raw.
func (e *Env) printMarkdown(md string) {
	if e.Raw {
		fmt.Fprint(e.Out, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Fprint(e.Out, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(e.Out, md)
		return
	}
	fmt.Fprint(e.Out, out)
}

// warnf prints a warning for the user.
func (e *Env) warnf(format string, args ...any) {
	fmt.Fprintf(e.Err, "Warning: "+format+"\n", args...)
}

// holdings loads and parses the saved positions, warning about skipped lines.
func (e *Env) holdings() ([]portfel.Holding, error) {
	text, err := e.Store.LoadPositions()
	if err != nil {
		return nil, err
	}
	holdings, warnings := portfel.ParsePositions(text)
	for _, w := range warnings {
		e.warnf("positions %s", w)
	}
	return holdings, nil
}

// valuate values the saved positions at the latest prices, with display names.
func (e *Env) valuate(ctx context.Context) (*portfel.Valuation, error) {
	holdings, err := e.holdings()
	if err != nil {
		return nil, err
	}
	base := e.Config.BaseCurrency
	quotes, fx := portfel.FetchMarket(ctx, e.Market, holdings, base, e.Config.Market.GetTimeout())
	v := portfel.Valuate(holdings, quotes, fx, base)
	v.Names(ctx, e.Namer)
	return v, nil
}

// warnMissing warns about positions excluded from the totals.
func (e *Env) warnMissing(v *portfel.Valuation) {
	if len(v.Missing) > 0 {
		e.warnf("no market data for %s, excluded from the totals", strings.Join(v.Missing, ", "))
	}
	if len(v.MissingFX) > 0 {
		e.warnf("no exchange rate for %s into %s", strings.Join(v.MissingFX, ", "), v.Base)
	}
}
