package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/portfel"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

type positionsCmd struct {
	set string
	add string
	in  io.Reader // standard input for '-set -'
}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "show or edit the positions" }
func (*positionsCmd) Usage() string {
	return `portfel positions [-set <file>|-] [-add <line>]

  Without flags, prints the saved positions. Positions are written one per line
  as TICKER,QUANTITY[,PURCHASE_PRICE][,ACCOUNT], see 'portfel topic positions'.

Usage Examples:
$ portfel positions
$ portfel positions -add "AAPL,10,150"
$ portfel positions -set my-positions.txt
$ pbpaste | portfel positions -set -
`
}

func (c *positionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.set, "set", "", "Replace the positions with the content of a file, '-' for the standard input.")
	f.StringVar(&c.add, "add", "", "Append a position line.")
}

func (c *positionsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	env, err := NewEnv(false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.in == nil {
		c.in = os.Stdin
	}
	if err := c.run(env.Context(ctx), env); err != nil {
		fmt.Fprintf(os.Stderr, "Error editing positions: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *positionsCmd) run(ctx context.Context, env *Env) error {
	if c.set != "" && c.add != "" {
		return errors.New("-set and -add are exclusive")
	}

	text, err := env.Store.LoadPositions()
	if err != nil {
		return err
	}

	switch {
	case c.set != "":
		text, err = c.read()
		if err != nil {
			return err
		}
	case c.add != "":
		line := strings.TrimSpace(c.add)
		if line == "" {
			return errors.New("empty position")
		}
		if _, warnings := portfel.ParsePositions(line); len(warnings) > 0 && warnings[0].Skipped {
			return fmt.Errorf("invalid position %s", warnings[0])
		}
		if text != "" && !strings.HasSuffix(text, "\n") {
			text += "\n"
		}
		text += line + "\n"
	default:
		fmt.Fprint(env.Out, text)
		return nil
	}

	holdings, warnings := portfel.ParsePositions(text)
	for _, w := range warnings {
		env.warnf("positions %s", w)
	}
	if err := env.Store.SavePositions(text); err != nil {
		return err
	}
	zerolog.Ctx(ctx).Debug().Int("positions", len(holdings)).Msg("positions saved")
	fmt.Fprintf(env.Err, "Saved %d positions\n", len(holdings))
	return nil
}

// read returns the content of the -set file.
func (c *positionsCmd) read() (string, error) {
	if c.set == "-" {
		content, err := io.ReadAll(c.in)
		return string(content), err
	}
	content, err := os.ReadFile(c.set)
	return string(content), err
}
