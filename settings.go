package portfel

// DefaultPositions is the example portfolio proposed on first use.
const DefaultPositions = `BTC-USD,0.02,35000
ETH-USD,0.5,2000
TSLA,3,250
ETFSP500.WA,10,125,IKZE
ACN,26,320
VWCE.DE,2,100,IKE
`

// Settings are the user's persisted choices.
type Settings struct {
	Retirement RetirementAssumptions `json:"retirement"`
	// EndOfPlanAge is the age at which the retirement plan ends.
	EndOfPlanAge int `json:"endOfPlanAge"`
	// MonthlySaving is what the user currently saves each month.
	MonthlySaving float64    `json:"monthlySaving"`
	Scenarios     []Scenario `json:"scenarios,omitempty"`
	Filter        Filter     `json:"filter"`
}

// DefaultSettings returns the settings used when none were saved.
func DefaultSettings() Settings {
	return Settings{
		Retirement: RetirementAssumptions{
			MonthlySpending: 8000,
			CurrentAge:      40,
			RetirementAge:   65,
			Inflation:       0.04,
			RealReturn:      0.02,
		},
		EndOfPlanAge:  90,
		MonthlySaving: 2000,
		Scenarios:     DefaultScenarios,
	}
}

// Assumptions returns the retirement assumptions, the retirement period
// lasting from the retirement age to the end of the plan.
func (s Settings) Assumptions() RetirementAssumptions {
	a := s.Retirement
	a.YearsOfRetirement = max(s.EndOfPlanAge-a.RetirementAge, 0)
	return a
}

// scenarios returns the configured scenarios, or the default ones.
func (s Settings) scenarios() []Scenario {
	if len(s.Scenarios) == 0 {
		return DefaultScenarios
	}
	return s.Scenarios
}

// Retirement is a complete retirement evaluation for a given net worth.
type Retirement struct {
	Assumptions   RetirementAssumptions
	Plan          RetirementPlan
	NetWorth      float64
	MonthlySaving float64
	// RequiredSaving is the monthly saving to reach the required capital, at
	// the base (middle) scenario.
	RequiredSaving float64
	Projection     Projection
}

// EvaluateRetirement evaluates the plan from the settings for the given net worth.
func (s Settings) EvaluateRetirement(netWorth float64) *Retirement {
	a := s.Assumptions()
	plan := RequiredCapital(a)
	scenarios := s.scenarios()
	r := &Retirement{
		Assumptions:   a,
		Plan:          plan,
		NetWorth:      netWorth,
		MonthlySaving: s.MonthlySaving,
		Projection:    ProjectScenarios(netWorth, s.MonthlySaving, plan.YearsToRetirement, plan.RequiredCapital, scenarios),
	}
	base := scenarios[len(scenarios)/2]
	r.RequiredSaving = RequiredMonthlySaving(plan.RequiredCapital, netWorth, plan.YearsToRetirement, base.Return)
	return r
}
