package renderer

import (
	"slices"
	"strings"
	"time"

	"github.com/etnz/portfel"
)

// AssetCurrencies are always listed in the report summary, other currencies
// are listed only when held.
var AssetCurrencies = []string{"USD", "EUR", "PLN"}

// Report is the view of a valuation. Every figure is already formatted,
// unknown ones as Unknown.
type Report struct {
	Updated string `json:"updated"`
	Base    string `json:"base"`
	Total   string `json:"total"`
	// Assets are the values of assets traded in each currency, in base.
	Assets []ReportAsset `json:"assets"`
	// Missing lists the tickers without a value, comma separated.
	Missing string `json:"missing,omitempty"`
	// MissingFX lists the currencies without a rate, comma separated.
	MissingFX string           `json:"missingFX,omitempty"`
	Positions []ReportPosition `json:"positions"`
	Structure []ReportShare    `json:"structure"`
}

// ReportAsset is the value of the assets traded in a currency.
type ReportAsset struct {
	Currency string `json:"currency"`
	Value    string `json:"value"`
}

// ReportPosition is a row of the positions table.
type ReportPosition struct {
	Name              string `json:"name"`
	ProfitLoss        string `json:"profitLoss"`
	ProfitLossPercent string `json:"profitLossPercent"`
	Trend1M           string `json:"trend1m"`
	Trend1W           string `json:"trend1w"`
	Ticker            string `json:"ticker"`
	Category          string `json:"category"`
	Currency          string `json:"currency"`
	Quantity          string `json:"quantity"`
	PurchasePrice     string `json:"purchasePrice"`
	Price             string `json:"price"`
	Value             string `json:"value"`
}

// ReportShare is a row of the structure table.
type ReportShare struct {
	Category string `json:"category"`
	Value    string `json:"value"`
	Share    string `json:"share"`
}

// NewReport creates the view of a valuation updated at a given time.
func NewReport(v *portfel.Valuation, updated time.Time) *Report {
	r := &Report{
		Updated:   updated.Format("2006-01-02 15:04"),
		Base:      v.Base,
		Total:     v.Aggregate.Total.String(),
		Missing:   strings.Join(v.Missing, ", "),
		MissingFX: strings.Join(v.MissingFX, ", "),
		Positions: make([]ReportPosition, 0, len(v.Positions)),
		Structure: make([]ReportShare, 0),
	}

	for _, c := range assetCurrencies(v) {
		r.Assets = append(r.Assets, ReportAsset{Currency: c, Value: v.Aggregate.Currency(c).String()})
	}

	for _, p := range v.Positions {
		r.Positions = append(r.Positions, ReportPosition{
			Name:              cell(p.Name),
			ProfitLoss:        signedMoney(p.ProfitLoss),
			ProfitLossPercent: percent(p.ProfitLossPercent),
			Trend1M:           Arrow(p.Trend1M),
			Trend1W:           Arrow(p.Trend1W),
			Ticker:            cell(p.Ticker()),
			Category:          string(p.Category()),
			Currency:          p.Currency(),
			Quantity:          p.Quantity().String(),
			PurchasePrice:     price(p.PurchasePrice(), p.Currency()),
			Price:             price(p.Price, p.Currency()),
			Value:             money(p.Value),
		})
	}

	for _, s := range v.Aggregate.Shares() {
		r.Structure = append(r.Structure, ReportShare{
			Category: string(s.Category),
			Value:    s.Value.String(),
			Share:    s.Share.String(),
		})
	}
	return r
}

// assetCurrencies returns AssetCurrencies followed by the other held currencies, sorted.
func assetCurrencies(v *portfel.Valuation) []string {
	res := slices.Clone(AssetCurrencies)
	var others []string
	for c := range v.Aggregate.ByCurrency {
		if !slices.Contains(res, c) {
			others = append(others, c)
		}
	}
	slices.Sort(others)
	return append(res, others...)
}

// Arrow renders a trend.
func Arrow(t portfel.Trend) string {
	switch t {
	case portfel.TrendUp:
		return "▲"
	case portfel.TrendDown:
		return "▼"
	case portfel.TrendFlat:
		return "="
	}
	return Unknown
}

func money(m portfel.Opt[portfel.Money]) string {
	if v, ok := m.Get(); ok {
		return v.String()
	}
	return Unknown
}

func signedMoney(m portfel.Opt[portfel.Money]) string {
	if v, ok := m.Get(); ok {
		return v.SignedString()
	}
	return Unknown
}

func percent(p portfel.Opt[portfel.Percent]) string {
	if v, ok := p.Get(); ok {
		return v.SignedString()
	}
	return Unknown
}

// price renders a raw price in its currency.
func price(p portfel.Price, currency string) string {
	if v, ok := p.Get(); ok {
		return portfel.M(v, currency).String()
	}
	return Unknown
}

// cell escapes text for a markdown table cell.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
