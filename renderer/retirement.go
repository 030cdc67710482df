package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/portfel"
	md "github.com/nao1215/markdown"
)

// RenderRetirement renders a retirement evaluation, amounts in base currency.
func RenderRetirement(r *portfel.Retirement, base string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	amount := func(v float64) string { return portfel.M(v, base).String() }
	a := r.Assumptions

	doc.H1("Retirement Plan")
	doc.PlainText(fmt.Sprintf("Retiring at %d in %d years, for %d years, with %.1f%% inflation and a %.1f%% real return.",
		a.RetirementAge, r.Plan.YearsToRetirement, a.YearsOfRetirement, a.Inflation*100, a.RealReturn*100))

	doc.Table(md.TableSet{
		Header: []string{"Plan", "Value"},
		Rows: [][]string{
			{"Monthly spending today", amount(a.MonthlySpending)},
			{"Monthly pension today", amount(a.PensionMonthly)},
			{"Monthly needs at retirement", amount(r.Plan.FutureMonthlyNeeds)},
			{"Yearly needs at retirement", amount(r.Plan.FutureYearlyNeeds)},
			{"Yearly gap", amount(r.Plan.YearlyGap)},
			{md.Bold("Required capital"), md.Bold(amount(r.Plan.RequiredCapital))},
		},
	})

	doc.H2("Savings")
	doc.Table(md.TableSet{
		Header: []string{"Savings", "Value"},
		Rows: [][]string{
			{"Net worth", amount(r.NetWorth)},
			{"Monthly saving", amount(r.MonthlySaving)},
			{md.Bold("Required monthly saving"), md.Bold(amount(r.RequiredSaving))},
		},
	})

	p := r.Projection
	if len(p.Trajectories) == 0 || r.Plan.YearsToRetirement == 0 {
		return doc.String()
	}

	doc.H2("Scenarios")
	rows := make([][]string, 0, len(p.Trajectories))
	for _, t := range p.Trajectories {
		reached := "no"
		if t.Reached {
			reached = "yes"
		}
		rows = append(rows, []string{
			t.Name,
			fmt.Sprintf("%.1f%%", t.Return*100),
			amount(t.Final),
			reached,
			amount(t.Saving),
		})
	}
	doc.Table(md.TableSet{
		Header: []string{"Scenario", "Return", "Wealth at retirement", "Target reached", "Required saving"},
		Rows:   rows,
	})
	if n := len(p.Low); n > 0 {
		doc.PlainText(fmt.Sprintf("Wealth at retirement ranges from %s to %s.", amount(p.Low[n-1]), amount(p.High[n-1])))
	}
	return doc.String()
}
