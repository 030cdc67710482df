// Package yahoo fetches quotes, FX rates and names from the Yahoo Finance chart API.
//
// Tickers are Yahoo tickers (AAPL, BTC-USD, VWCE.DE, PKO.WA), which is the
// format users type their positions in, so no symbol mapping is needed.
package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/portfel"
	"github.com/etnz/portfel/date"
	"github.com/etnz/portfel/httpcache"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://query1.finance.yahoo.com"
	DefaultTimeout   = 15 * time.Second
	DefaultRateLimit = 5 // requests per second
	DefaultWorkers   = 4

	// QuoteBucket is how long quotes are reused.
	QuoteBucket = 5 * time.Minute
	// NameBucket is how long names are reused.
	NameBucket = 24 * time.Hour

	// yahoo rejects requests without a browser-like user agent.
	userAgent = "Mozilla/5.0 (X11; Linux x86_64) portfel"
)

// Client implements portfel.MarketData and portfel.Namer.
type Client struct {
	baseURL string
	quotes  *http.Client
	names   *http.Client
	limiter *rate.Limiter
	workers int
	log     zerolog.Logger
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

// WithRateLimit sets the rate limit, in requests per second.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithWorkers sets the number of concurrent requests of a bulk fetch.
func WithWorkers(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithHTTPClients sets the clients used for quotes and for names.
func WithHTTPClients(quotes, names *http.Client) ClientOption {
	return func(c *Client) {
		c.quotes = quotes
		c.names = names
	}
}

// NewClient creates a new Yahoo client. By default responses are cached on
// disk, quotes for QuoteBucket and names for NameBucket.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		workers: DefaultWorkers,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.quotes == nil {
		c.quotes = httpcache.NewClient(QuoteBucket, DefaultTimeout, c.log)
	}
	if c.names == nil {
		c.names = httpcache.NewClient(NameBucket, DefaultTimeout, c.log)
	}
	return c
}

// APIError is an error reported by the chart API.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
	Symbol      string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("yahoo chart %s: %s %s (status: %d)", e.Symbol, e.Code, e.Description, e.StatusCode)
}

// chart fetches the chart of a symbol over a range (e.g. "1mo") as a generic json value.
func (c *Client) chart(ctx context.Context, client *http.Client, symbol, rng string) (any, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	params := url.Values{}
	params.Set("range", rng)
	params.Set("interval", "1d")
	addr := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(symbol), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot http GET chart %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var jobj any
	if err := json.Unmarshal(body, &jobj); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, &APIError{StatusCode: resp.StatusCode, Code: resp.Status, Symbol: symbol}
		}
		return nil, fmt.Errorf("failed to decode chart %s: %w", symbol, err)
	}
	if code, ok := lookup(jobj, "$.chart.error.code").(string); ok || resp.StatusCode != http.StatusOK {
		desc, _ := lookup(jobj, "$.chart.error.description").(string)
		if code == "" {
			code = resp.Status
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Code: code, Description: desc, Symbol: symbol}
	}
	return jobj, nil
}

// lookup evaluates a jsonpath, returning nil if it does not resolve.
func lookup(jobj any, path string) any {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil
	}
	return jval
}

// closes extracts the daily closes, one per exchange day, in chronological order.
// Missing closes are NaN.
func closes(jobj any) ([]float64, error) {
	rawCloses, ok := lookup(jobj, "$.chart.result[0].indicators.quote[0].close").([]any)
	if !ok {
		return nil, errors.New("no close prices in chart")
	}
	rawTimes, _ := lookup(jobj, "$.chart.result[0].timestamp").([]any)
	offset, _ := lookup(jobj, "$.chart.result[0].meta.gmtoffset").(float64)
	loc := time.FixedZone("exchange", int(offset))

	values := make([]float64, 0, len(rawCloses))
	var last date.Date
	for i, raw := range rawCloses {
		v, ok := raw.(float64)
		if !ok {
			v = math.NaN()
		}
		// the live bar is sometimes repeated for the current day: keep the latest.
		if i < len(rawTimes) {
			if ts, ok := rawTimes[i].(float64); ok {
				day := date.FromUnix(int64(ts), loc)
				if day == last && len(values) > 0 {
					if !math.IsNaN(v) {
						values[len(values)-1] = v
					}
					continue
				}
				last = day
			}
		}
		values = append(values, v)
	}
	return values, nil
}

// Quote returns the quote of a single ticker over the last month.
func (c *Client) Quote(ctx context.Context, ticker string) (portfel.PriceQuote, error) {
	jobj, err := c.chart(ctx, c.quotes, ticker, "1mo")
	if err != nil {
		return portfel.PriceQuote{}, err
	}
	values, err := closes(jobj)
	if err != nil {
		return portfel.PriceQuote{}, fmt.Errorf("%s: %w", ticker, err)
	}
	return portfel.NewPriceQuote(values), nil
}

// Quotes fetches the quotes of all tickers, concurrently. Tickers that fail
// are logged and left out, an error is returned only if they all fail.
func (c *Client) Quotes(ctx context.Context, tickers []string) (portfel.Quotes, error) {
	res := make(portfel.Quotes, len(tickers))
	var mu sync.Mutex
	var errs []error

	var g errgroup.Group
	g.SetLimit(c.workers)
	for _, ticker := range tickers {
		g.Go(func() error {
			q, err := c.Quote(ctx, ticker)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				c.log.Warn().Err(err).Str("ticker", ticker).Msg("no quote")
				errs = append(errs, err)
				return nil
			}
			if !q.Price.Known() {
				c.log.Warn().Str("ticker", ticker).Msg("no close price")
				return nil
			}
			res[ticker] = q
			return nil
		})
	}
	g.Wait()

	if len(tickers) > 0 && len(errs) == len(tickers) {
		return res, fmt.Errorf("no quote could be fetched: %w", errors.Join(errs...))
	}
	return res, nil
}

// Rate returns the latest rate to convert one unit of 'from' into 'to'.
func (c *Client) Rate(ctx context.Context, from, to string) (portfel.Price, error) {
	if strings.EqualFold(from, to) {
		return portfel.P(1), nil
	}
	symbol := strings.ToUpper(from+to) + "=X"
	jobj, err := c.chart(ctx, c.quotes, symbol, "5d")
	if err != nil {
		return portfel.None[decimal.Decimal](), err
	}
	values, err := closes(jobj)
	if err != nil {
		return portfel.None[decimal.Decimal](), fmt.Errorf("%s: %w", symbol, err)
	}
	q := portfel.NewPriceQuote(values)
	if !q.Price.Known() {
		return q.Price, fmt.Errorf("%s: no close price", symbol)
	}
	return q.Price, nil
}

// Name returns the short name of the ticker, or its long name.
func (c *Client) Name(ctx context.Context, ticker string) (string, error) {
	jobj, err := c.chart(ctx, c.names, ticker, "1d")
	if err != nil {
		return "", err
	}
	for _, path := range []string{"$.chart.result[0].meta.shortName", "$.chart.result[0].meta.longName"} {
		if name, ok := lookup(jobj, path).(string); ok && strings.TrimSpace(name) != "" {
			return name, nil
		}
	}
	return "", fmt.Errorf("%s: no name in chart", ticker)
}

var (
	_ portfel.MarketData = (*Client)(nil)
	_ portfel.Namer      = (*Client)(nil)
)
