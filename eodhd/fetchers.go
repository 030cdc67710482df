package eodhd

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/etnz/portfel"
	"github.com/etnz/portfel/date"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// bar is a daily bar of the /eod endpoint.
//
//	{
//		"date": "2024-02-13",
//		"open": 675.066,
//		"high": 684.219,
//		"low": 648.659,
//		"close": 668.445,
//		"adjusted_close": 67.705,
//		"volume": 0
//	},
type bar struct {
	Date  date.Date       `json:"date"`
	Open  decimal.Decimal `json:"open"`
	Close decimal.Decimal `json:"close"`
}

// fetchBars returns the daily bars of a symbol, bounds included, in chronological order.
func (c *Client) fetchBars(ctx context.Context, symbol string, r date.Range) ([]bar, error) {
	params := url.Values{}
	params.Set("from", r.From.String())
	params.Set("to", r.To.String())
	params.Set("period", "d")
	params.Set("order", "a")

	bars := make([]bar, 0)
	if err := c.jwget(ctx, c.quotes, "/eod/"+url.PathEscape(symbol), params, &bars); err != nil {
		return nil, err
	}
	return bars, nil
}

// Quote returns the quote of a single ticker over the last month.
func (c *Client) Quote(ctx context.Context, ticker string) (portfel.PriceQuote, error) {
	bars, err := c.fetchBars(ctx, Symbol(ticker), date.LastMonth(c.today()))
	if err != nil {
		return portfel.PriceQuote{}, err
	}
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close.InexactFloat64()
	}
	return portfel.NewPriceQuote(closes), nil
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
				c.log.Warn().Err(err).Str("ticker", ticker).Str("symbol", Symbol(ticker)).Msg("no quote")
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
	today := c.today()
	bars, err := c.fetchBars(ctx, ForexSymbol(from, to), date.Range{From: today.Add(-7), To: today})
	if err != nil {
		return portfel.None[decimal.Decimal](), err
	}
	// eodhd forex sucks, the so called close value is probably buggy and equal to the open most of the time.
	// Instead the open of the next day is the closer to the truth, so the latest open is used.
	for i := len(bars) - 1; i >= 0; i-- {
		if bars[i].Open.IsPositive() {
			return portfel.P(bars[i].Open), nil
		}
	}
	return portfel.None[decimal.Decimal](), fmt.Errorf("no %s%s rate", from, to)
}
