package portfel

import (
	"sort"
)

// Trend is the direction of a price move over a reference window.
type Trend int

const (
	TrendUnknown Trend = iota
	TrendUp
	TrendDown
	TrendFlat
)

func (t Trend) String() string {
	switch t {
	case TrendUp:
		return "up"
	case TrendDown:
		return "down"
	case TrendFlat:
		return "flat"
	}
	return ""
}

// ClassifyTrend compares the current price to a reference price. The trend is
// unknown if either price is unknown or the reference is zero.
func ClassifyTrend(price, reference Price) Trend {
	p, ok := price.Get()
	r, rok := reference.Get()
	if !ok || !rok || r.IsZero() {
		return TrendUnknown
	}
	switch p.Cmp(r) {
	case 1:
		return TrendUp
	case -1:
		return TrendDown
	}
	return TrendFlat
}

// ValuedPosition is a Holding valued in the base currency.
//
// Monetary fields are unknown, not zero, when the price, the purchase price or
// the FX rate they depend on is unavailable.
type ValuedPosition struct {
	Holding
	Name              string // display name, defaults to the ticker
	Price             Price  // latest price in the holding's currency
	Trend1M           Trend
	Trend1W           Trend
	Value             Opt[Money] // price * quantity, in base
	CostBasis         Opt[Money] // purchase price * quantity, in base
	ProfitLoss        Opt[Money] // Value - CostBasis
	ProfitLossPercent Opt[Percent]
}

// PortfolioAggregate sums the value of positions with a known value.
type PortfolioAggregate struct {
	Base       string
	Total      Money
	ByCurrency map[string]Money
	ByCategory map[Category]Money
}

// CategoryShare is the value of one category.
type CategoryShare struct {
	Category Category
	Value    Money
	Share    Percent // of the total
}

// Shares returns the categories with a non zero value, largest first.
func (a PortfolioAggregate) Shares() []CategoryShare {
	var shares []CategoryShare
	for c, v := range a.ByCategory {
		if v.IsZero() {
			continue
		}
		s := CategoryShare{Category: c, Value: v}
		if !a.Total.IsZero() {
			s.Share = v.Ratio(a.Total)
		}
		shares = append(shares, s)
	}
	sort.Slice(shares, func(i, j int) bool {
		if !shares[i].Value.Equal(shares[j].Value) {
			return shares[i].Value.GreaterThan(shares[j].Value)
		}
		return shares[i].Category < shares[j].Category
	})
	return shares
}

// Currency returns the total value of assets traded in currency, in base.
func (a PortfolioAggregate) Currency(currency string) Money {
	if m, ok := a.ByCurrency[currency]; ok {
		return m
	}
	return M(0, a.Base)
}

// Valuation is the result of valuing a list of holdings.
type Valuation struct {
	Base      string
	Positions []ValuedPosition
	Aggregate PortfolioAggregate
	// Missing lists the tickers whose value is unknown, in input order.
	Missing []string
	// MissingFX lists the currencies whose rate was unavailable.
	MissingFX []string
}

// Valuate values holdings into the base currency.
//
// It is a pure transform: a missing quote or FX rate makes the affected
// figures unknown and lists the ticker in Missing, it never aborts the
// valuation nor defaults to zero.
func Valuate(holdings []Holding, quotes Quotes, fx FXRates, base string) *Valuation {
	positions := make([]ValuedPosition, 0, len(holdings))
	missingFX := make(map[string]bool)

	for _, h := range holdings {
		q := quotes[h.Ticker()]
		rate := fx.rate(h.Currency(), base)
		if !rate.Known() {
			missingFX[h.Currency()] = true
		}

		p := ValuedPosition{
			Holding: h,
			Name:    h.Ticker(),
			Price:   q.Price,
			Trend1M: ClassifyTrend(q.Price, q.First1M),
			Trend1W: ClassifyTrend(q.Price, q.First1W),
		}
		p.Value = convert(q.Price, h.Quantity(), rate, base)
		p.CostBasis = convert(h.PurchasePrice(), h.Quantity(), rate, base)

		value, vok := p.Value.Get()
		cost, cok := p.CostBasis.Get()
		if vok && cok {
			pl := value.Sub(cost)
			p.ProfitLoss = Some(pl)
			if cost.IsPositive() {
				p.ProfitLossPercent = Some(pl.Ratio(cost))
			}
		}
		positions = append(positions, p)
	}

	v := &Valuation{Base: base, Positions: positions}
	for _, c := range currencies(holdings, base) {
		if missingFX[c] {
			v.MissingFX = append(v.MissingFX, c)
		}
	}
	v.aggregate()
	return v
}

// convert returns price * quantity * rate as Money in base, unknown if price or rate is.
func convert(price Price, quantity Quantity, rate Price, base string) Opt[Money] {
	p, ok := price.Get()
	r, rok := rate.Get()
	if !ok || !rok {
		return None[Money]()
	}
	return Some(M(p.Mul(quantity.value).Mul(r), base))
}

// aggregate computes the aggregate and the missing list from the positions.
func (v *Valuation) aggregate() {
	a := PortfolioAggregate{
		Base:       v.Base,
		Total:      M(0, v.Base),
		ByCurrency: make(map[string]Money),
		ByCategory: make(map[Category]Money),
	}
	seen := make(map[string]bool)
	v.Missing = nil
	for _, p := range v.Positions {
		value, ok := p.Value.Get()
		if !ok {
			if !seen[p.Ticker()] {
				seen[p.Ticker()] = true
				v.Missing = append(v.Missing, p.Ticker())
			}
			continue
		}
		a.Total = a.Total.Add(value)
		a.ByCurrency[p.Currency()] = a.Currency(p.Currency()).Add(value)
		sum, ok := a.ByCategory[p.Category()]
		if !ok {
			sum = M(0, v.Base)
		}
		a.ByCategory[p.Category()] = sum.Add(value)
	}
	v.Aggregate = a
}

// Filter returns a new valuation restricted to the positions matching f, with
// its aggregate and missing list recomputed.
func (v *Valuation) Filter(f Filter) *Valuation {
	res := &Valuation{Base: v.Base}
	curs := make(map[string]bool)
	for _, p := range v.Positions {
		if f.Match(p.Holding) {
			res.Positions = append(res.Positions, p)
			curs[p.Currency()] = true
		}
	}
	for _, c := range v.MissingFX {
		if curs[c] {
			res.MissingFX = append(res.MissingFX, c)
		}
	}
	res.aggregate()
	return res
}
