package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/portfel"
	"github.com/google/subcommands"
)

type exportCmd struct {
	filterFlags
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the valued positions as CSV" }
func (*exportCmd) Usage() string {
	return `portfel export [-o <file>] [-account <list>] [-category <list>] [-currency <list>] [-all]

  Values the portfolio like 'value' and writes every position as a CSV row.
  Unknown figures are left empty.

Usage Examples:
$ portfel export -o portfolio.csv
$ portfel export -category CRYPTO > crypto.csv
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	c.filterFlags.SetFlags(f)
	f.StringVar(&c.output, "o", "-", "Output file, '-' for the standard output.")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	env, err := NewEnv(false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := c.run(env.Context(ctx), env); err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting the portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *exportCmd) run(ctx context.Context, env *Env) error {
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

	if c.output == "-" || c.output == "" {
		return portfel.EncodeCSV(env.Out, v)
	}
	f, err := os.Create(c.output)
	if err != nil {
		return err
	}
	if err := portfel.EncodeCSV(f, v); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(env.Err, "Exported %d positions to %s\n", len(v.Positions), c.output)
	return nil
}
