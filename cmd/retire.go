package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/portfel"
	"github.com/etnz/portfel/renderer"
	"github.com/google/subcommands"
)

type retireCmd struct {
	spending   float64
	age        int
	retireAge  int
	endAge     int
	inflation  float64
	realReturn float64
	pension    float64
	saving     float64
	netWorth   float64

	set map[string]bool // flags given on the command line
}

func (*retireCmd) Name() string     { return "retire" }
func (*retireCmd) Synopsis() string { return "compute the capital and the savings needed to retire" }
func (*retireCmd) Usage() string {
	return `portfel retire [-spending <amount>] [-age <age>] [-retire-age <age>] [-end-age <age>]
	[-inflation <rate>] [-real-return <rate>] [-pension <amount>] [-saving <amount>] [-net-worth <amount>]

  Computes the capital needed at retirement, the monthly saving that reaches it
  and projects the wealth under pessimistic, base and optimistic returns.
  The net worth is the value of the portfolio unless -net-worth is given.
  Rates are fractions: 0.04 is 4%. Assumptions given are saved.

Usage Examples:
$ portfel retire -age 35 -retire-age 60 -spending 6000
$ portfel retire -pension 2500 -net-worth 150000
`
}

func (c *retireCmd) SetFlags(f *flag.FlagSet) {
	d := portfel.DefaultSettings()
	f.Float64Var(&c.spending, "spending", d.Retirement.MonthlySpending, "Monthly spending, in today's money.")
	f.IntVar(&c.age, "age", d.Retirement.CurrentAge, "Current age.")
	f.IntVar(&c.retireAge, "retire-age", d.Retirement.RetirementAge, "Retirement age.")
	f.IntVar(&c.endAge, "end-age", d.EndOfPlanAge, "Age at which the plan ends.")
	f.Float64Var(&c.inflation, "inflation", d.Retirement.Inflation, "Yearly inflation.")
	f.Float64Var(&c.realReturn, "real-return", d.Retirement.RealReturn, "Yearly return after inflation, during retirement.")
	f.Float64Var(&c.pension, "pension", d.Retirement.PensionMonthly, "Monthly pension, in today's money.")
	f.Float64Var(&c.saving, "saving", d.MonthlySaving, "Current monthly saving.")
	f.Float64Var(&c.netWorth, "net-worth", 0, "Net worth to use instead of the portfolio value.")
}

func (c *retireCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	c.set = make(map[string]bool)
	f.Visit(func(fl *flag.Flag) { c.set[fl.Name] = true })

	env, err := NewEnv(false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := c.run(env.Context(ctx), env); err != nil {
		fmt.Fprintf(os.Stderr, "Error planning the retirement: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// apply overrides the settings with the flags given, and reports whether any was.
func (c *retireCmd) apply(s *portfel.Settings) bool {
	changed := false
	float := func(name string, dst *float64, v float64) {
		if c.set[name] {
			*dst, changed = v, true
		}
	}
	integer := func(name string, dst *int, v int) {
		if c.set[name] {
			*dst, changed = v, true
		}
	}
	float("spending", &s.Retirement.MonthlySpending, c.spending)
	integer("age", &s.Retirement.CurrentAge, c.age)
	integer("retire-age", &s.Retirement.RetirementAge, c.retireAge)
	integer("end-age", &s.EndOfPlanAge, c.endAge)
	float("inflation", &s.Retirement.Inflation, c.inflation)
	float("real-return", &s.Retirement.RealReturn, c.realReturn)
	float("pension", &s.Retirement.PensionMonthly, c.pension)
	float("saving", &s.MonthlySaving, c.saving)
	return changed
}

// evaluate returns the retirement evaluation, saving the assumptions given.
func (c *retireCmd) evaluate(ctx context.Context, env *Env) (*portfel.Retirement, error) {
	settings, err := env.Store.LoadSettings()
	if err != nil {
		return nil, err
	}
	if c.apply(&settings) {
		if err := env.Store.SaveSettings(settings); err != nil {
			return nil, err
		}
	}

	netWorth := c.netWorth
	if !c.set["net-worth"] {
		v, err := env.valuate(ctx)
		if err != nil {
			return nil, err
		}
		env.warnMissing(v)
		netWorth = v.Aggregate.Total.AsFloat()
	}
	return settings.EvaluateRetirement(netWorth), nil
}

func (c *retireCmd) run(ctx context.Context, env *Env) error {
	r, err := c.evaluate(ctx, env)
	if err != nil {
		return err
	}
	env.printMarkdown(renderer.RenderRetirement(r, env.Config.BaseCurrency))
	return nil
}
