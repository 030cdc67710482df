package portfel

import (
	"encoding/csv"
	"io"
)

// EncodeCSV writes one row per position of v, unknown values as empty cells.
func EncodeCSV(w io.Writer, v *Valuation) error {
	cw := csv.NewWriter(w)
	header := []string{
		"Name", "PL_Value_" + v.Base, "PL_Percent", "Trend1m", "Trend1w",
		"Ticker", "Account", "Category", "Currency",
		"Quantity", "PurchasePrice", "Price", "Value_" + v.Base,
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, p := range v.Positions {
		row := []string{
			p.Name,
			csvMoney(p.ProfitLoss),
			csvPercent(p.ProfitLossPercent),
			p.Trend1M.String(),
			p.Trend1W.String(),
			p.Ticker(),
			string(p.Account()),
			string(p.Category()),
			p.Currency(),
			p.Quantity().String(),
			csvPrice(p.PurchasePrice()),
			csvPrice(p.Price),
			csvMoney(p.Value),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvMoney(m Opt[Money]) string {
	if v, ok := m.Get(); ok {
		return v.Decimal().StringFixed(2)
	}
	return ""
}

func csvPrice(p Price) string {
	if v, ok := p.Get(); ok {
		return v.String()
	}
	return ""
}

func csvPercent(p Opt[Percent]) string {
	if v, ok := p.Get(); ok {
		return newDecimal(float64(v)).StringFixed(2)
	}
	return ""
}
