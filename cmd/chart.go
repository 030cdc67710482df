package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/portfel/renderer"
	"github.com/google/subcommands"
)

type chartCmd struct {
	filterFlags
	retire retireCmd
	kind   string
	output string
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "draw the portfolio structure or the wealth projection" }
func (*chartCmd) Usage() string {
	return `portfel chart [-kind category|wealth] [-o <file>]

  Draws a PNG chart: the value of the portfolio by category, or the wealth
  projected until retirement under each return scenario. The wealth chart uses
  the saved retirement assumptions.

Usage Examples:
$ portfel chart -o structure.png
$ portfel chart -kind wealth -o wealth.png
`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	c.filterFlags.SetFlags(f)
	f.StringVar(&c.kind, "kind", "category", "Chart kind, category or wealth.")
	f.StringVar(&c.output, "o", "", "Output PNG file, portfel-<kind>.png by default.")
}

func (c *chartCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	env, err := NewEnv(false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := c.run(env.Context(ctx), env); err != nil {
		fmt.Fprintf(os.Stderr, "Error drawing the chart: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *chartCmd) run(ctx context.Context, env *Env) error {
	var png []byte
	switch c.kind {
	case "category":
		filter, err := c.resolve(env)
		if err != nil {
			return err
		}
		v, err := env.valuate(ctx)
		if err != nil {
			return err
		}
		v = v.Filter(filter)
		env.warnMissing(v)
		if png, err = renderer.CategoryChart(v); err != nil {
			return err
		}
	case "wealth":
		r, err := c.retire.evaluate(ctx, env)
		if err != nil {
			return err
		}
		if png, err = renderer.WealthChart(r); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown chart kind %q, want category or wealth", c.kind)
	}

	output := c.output
	if output == "" {
		output = "portfel-" + c.kind + ".png"
	}
	if err := os.WriteFile(output, png, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(env.Err, "Chart written to %s\n", output)
	return nil
}
