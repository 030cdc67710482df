package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/portfel/renderer"
	"github.com/google/subcommands"
)

type valueCmd struct {
	filterFlags
	refresh bool
}

func (*valueCmd) Name() string     { return "value" }
func (*valueCmd) Synopsis() string { return "value the portfolio at the latest prices" }
func (*valueCmd) Usage() string {
	return `portfel value [-account <list>] [-category <list>] [-currency <list>] [-all] [-refresh]

  Fetches the latest prices and exchange rates, and reports the value, the
  profit and loss and the 1 month and 1 week trends of every position, in the
  base currency. Filters given are saved and reused next time, -all clears them.

Usage Examples:
$ portfel value
$ portfel value -account IKE,IKZE
$ portfel -base USD value -category CRYPTO
`
}

func (c *valueCmd) SetFlags(f *flag.FlagSet) {
	c.filterFlags.SetFlags(f)
	f.BoolVar(&c.refresh, "refresh", false, "Ignore cached quotes.")
}

func (c *valueCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	env, err := NewEnv(c.refresh)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := c.run(env.Context(ctx), env); err != nil {
		fmt.Fprintf(os.Stderr, "Error valuing the portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *valueCmd) run(ctx context.Context, env *Env) error {
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
	env.printMarkdown(renderer.RenderReport(renderer.NewReport(v, env.Now())))
	return nil
}
