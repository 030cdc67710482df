package eodhd

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// SearchResult matches the structure of a single item in the EODHD search API response.
type SearchResult struct {
	Code              string  `json:"Code"`
	Exchange          string  `json:"Exchange"`
	Name              string  `json:"Name"`
	Type              string  `json:"Type"`
	Country           string  `json:"Country"`
	Currency          string  `json:"Currency"`
	ISIN              string  `json:"ISIN"`
	PreviousClose     float64 `json:"previousClose"`
	PreviousCloseDate string  `json:"previousCloseDate"`
}

// Search searches for securities via EOD Historical Data API.
func (c *Client) Search(ctx context.Context, searchTerm string) ([]SearchResult, error) {
	var results []SearchResult
	if err := c.jwget(ctx, c.names, "/search/"+url.PathEscape(searchTerm), nil, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// Name returns the name of the security behind ticker.
func (c *Client) Name(ctx context.Context, ticker string) (string, error) {
	symbol := Symbol(ticker)
	results, err := c.Search(ctx, symbol)
	if err != nil {
		return "", err
	}
	code, exchange, _ := strings.Cut(symbol, ".")
	// prefer the exact listing, otherwise the first result with that code.
	for _, exact := range []bool{true, false} {
		for _, r := range results {
			if !strings.EqualFold(r.Code, code) || r.Name == "" {
				continue
			}
			if exact && !strings.EqualFold(r.Exchange, exchange) {
				continue
			}
			return r.Name, nil
		}
	}
	return "", fmt.Errorf("no security named %s", symbol)
}
