// Package eodhd fetches quotes, FX rates and names from the EODHD API.
//
// Positions use Yahoo style tickers, they are mapped to EODHD symbols before
// each call (see Symbol).
package eodhd

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/etnz/portfel"
	"github.com/etnz/portfel/date"
	"github.com/etnz/portfel/httpcache"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// nice to redirect to https://eodhd.com/financial-summary/00XN.XETRA

const (
	DefaultBaseURL   = "https://eodhd.com/api"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10 // requests per second
	DefaultWorkers   = 4
)

// Client implements portfel.MarketData and portfel.Namer.
type Client struct {
	baseURL string
	apiKey  string
	quotes  *http.Client // short lived cache
	names   *http.Client // daily cache
	limiter *rate.Limiter
	workers int
	log     zerolog.Logger
	today   func() date.Date
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(baseURL, "/") }
}

// WithLogger sets the logger
func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) { c.log = log }
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithHTTPClients sets the clients used for prices and for names.
func WithHTTPClients(quotes, names *http.Client) ClientOption {
	return func(c *Client) {
		c.quotes = quotes
		c.names = names
	}
}

// NewClient creates a new EODHD client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		workers: DefaultWorkers,
		log:     zerolog.Nop(),
		today:   date.Today,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.quotes == nil {
		c.quotes = httpcache.NewClient(5*time.Minute, DefaultTimeout, c.log)
	}
	if c.names == nil {
		c.names = httpcache.NewClient(24*time.Hour, DefaultTimeout, c.log)
	}
	return c
}

// exchanges maps Yahoo exchange suffixes to EODHD exchange codes.
var exchanges = map[string]string{
	".WA": ".WAR",
	".DE": ".XETRA",
	".L":  ".LSE",
	".SW": ".SW",
	".F":  ".F",
	".AS": ".AS",
	".PA": ".PA",
	".MI": ".MI",
	".TO": ".TO",
}

// Symbol returns the EODHD symbol of a Yahoo style ticker.
//
//	AAPL    -> AAPL.US
//	BTC-USD -> BTC-USD.CC
//	PKO.WA  -> PKO.WAR
//	VWCE.DE -> VWCE.XETRA
func Symbol(ticker string) string {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	if i := strings.LastIndex(t, "."); i > 0 {
		if code, ok := exchanges[t[i:]]; ok {
			return t[:i] + code
		}
		// unknown suffixes are assumed to be EODHD exchange codes already.
		return t
	}
	if _, quote, ok := strings.Cut(t, "-"); ok && len(quote) == 3 {
		return t + ".CC"
	}
	return t + ".US"
}

// ForexSymbol returns the EODHD symbol of a currency pair.
func ForexSymbol(from, to string) string {
	// The Ticker for forex is in the format "fromCurrency+toCurrency.FOREX".
	return fmt.Sprintf("%s%s.FOREX", strings.ToUpper(from), strings.ToUpper(to))
}

var (
	_ portfel.MarketData = (*Client)(nil)
	_ portfel.Namer      = (*Client)(nil)
)
