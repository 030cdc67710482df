package portfel

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// RetirementAssumptions are the user's inputs for a retirement plan.
//
// Amounts are in today's money, rates are fractions (0.04 is 4%).
type RetirementAssumptions struct {
	MonthlySpending   float64 `json:"monthlySpending"`   // monthly spending today
	CurrentAge        int     `json:"currentAge"`        //
	RetirementAge     int     `json:"retirementAge"`     //
	YearsOfRetirement int     `json:"yearsOfRetirement"` // length of the drawdown period
	Inflation         float64 `json:"inflation"`         // yearly
	RealReturn        float64 `json:"realReturn"`        // yearly, during retirement, net of inflation
	PensionMonthly    float64 `json:"pensionMonthly"`    // monthly pension in today's money
}

// YearsToRetirement returns the accumulation horizon, never negative.
func (a RetirementAssumptions) YearsToRetirement() int {
	return max(a.RetirementAge-a.CurrentAge, 0)
}

// RetirementPlan is the capital needed to fund the retirement.
type RetirementPlan struct {
	YearsToRetirement  int
	FutureMonthlyNeeds float64 // monthly spending at retirement, inflated
	FutureYearlyNeeds  float64
	YearlyGap          float64 // yearly needs not covered by the pension
	RequiredCapital    float64 // capital needed at retirement age
}

// RequiredCapital computes the capital needed at retirement age to pay the
// yearly gap left by the pension for YearsOfRetirement years.
//
// The capital is the present value of that annuity at the real return, or the
// plain sum of the gaps if the real return is not positive. It is zero if there
// is no gap or no retirement period.
func RequiredCapital(a RetirementAssumptions) RetirementPlan {
	years := a.YearsToRetirement()
	growth := math.Pow(1+a.Inflation, float64(years))

	plan := RetirementPlan{YearsToRetirement: years}
	plan.FutureMonthlyNeeds = a.MonthlySpending * growth
	plan.FutureYearlyNeeds = plan.FutureMonthlyNeeds * 12
	pension := a.PensionMonthly * 12 * growth
	plan.YearlyGap = max(plan.FutureYearlyNeeds-pension, 0)

	n := float64(a.YearsOfRetirement)
	switch {
	case a.YearsOfRetirement <= 0 || plan.YearlyGap == 0:
		plan.RequiredCapital = 0
	case a.RealReturn > 0:
		r := a.RealReturn
		plan.RequiredCapital = plan.YearlyGap * (1 - math.Pow(1+r, -n)) / r
	default:
		plan.RequiredCapital = plan.YearlyGap * n
	}
	return plan
}

// monthlyRate returns the monthly rate equivalent to a yearly rate.
func monthlyRate(annualReturn float64) float64 {
	return math.Pow(1+annualReturn, 1.0/12) - 1
}

// SimulateWealth returns the wealth at the end of each year, saving
// monthlySaving at the beginning of every month, compounding monthly.
// It returns an empty slice if years is not positive.
func SimulateWealth(initial, monthlySaving float64, years int, annualReturn float64) []float64 {
	if years <= 0 {
		return []float64{}
	}
	r := monthlyRate(annualReturn)
	values := make([]float64, 0, years)
	value := initial
	for month := 1; month <= years*12; month++ {
		value = (value + monthlySaving) * (1 + r)
		if month%12 == 0 {
			values = append(values, value)
		}
	}
	return values
}

// RequiredMonthlySaving returns the monthly saving that grows current into
// target in years, with the same monthly schedule as SimulateWealth.
//
// It never returns a negative saving: 0 is returned if the target is already
// met, if there is no time left, or if the inputs are degenerate.
func RequiredMonthlySaving(target, current float64, years int, annualReturn float64) float64 {
	if years <= 0 || target <= current {
		return 0
	}
	n := float64(years * 12)
	r := monthlyRate(annualReturn)
	if r == 0 {
		return max((target-current)/n, 0)
	}
	growth := math.Pow(1+r, n)
	// deposits are made at the beginning of the month (annuity due).
	denominator := (growth - 1) / r * (1 + r)
	if denominator <= 0 || math.IsNaN(denominator) || math.IsInf(denominator, 0) {
		return 0
	}
	return max((target-current*growth)/denominator, 0)
}

// Scenario is a named yearly return assumption.
type Scenario struct {
	Name   string  `json:"name"`
	Return float64 `json:"return"`
}

// DefaultScenarios are the pessimistic, base and optimistic return assumptions.
var DefaultScenarios = []Scenario{
	{Name: "pessimistic", Return: 0.03},
	{Name: "base", Return: 0.05},
	{Name: "optimistic", Return: 0.07},
}

// Trajectory is the simulated wealth under one scenario.
type Trajectory struct {
	Scenario
	Values  []float64 // one value per year
	Final   float64
	Reached bool // final value reaches the target
	// Saving is the monthly saving that would reach the target under this scenario.
	Saving float64
}

// Projection is a set of trajectories with their envelope.
type Projection struct {
	Target       float64
	Trajectories []Trajectory
	Low, High    []float64 // yearly min and max across scenarios
}

// ProjectScenarios simulates the wealth for every scenario.
func ProjectScenarios(initial, monthlySaving float64, years int, target float64, scenarios []Scenario) Projection {
	p := Projection{Target: target}
	for _, s := range scenarios {
		t := Trajectory{Scenario: s, Values: SimulateWealth(initial, monthlySaving, years, s.Return)}
		t.Final = initial
		if len(t.Values) > 0 {
			t.Final = t.Values[len(t.Values)-1]
		}
		t.Reached = t.Final >= target
		t.Saving = RequiredMonthlySaving(target, initial, years, s.Return)
		p.Trajectories = append(p.Trajectories, t)
	}
	if len(p.Trajectories) == 0 || years <= 0 {
		return p
	}
	p.Low = make([]float64, years)
	p.High = make([]float64, years)
	column := make([]float64, len(p.Trajectories))
	for y := 0; y < years; y++ {
		for i, t := range p.Trajectories {
			column[i] = t.Values[y]
		}
		p.Low[y] = floats.Min(column)
		p.High[y] = floats.Max(column)
	}
	return p
}
