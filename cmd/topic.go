package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/portfel/docs"
	"github.com/google/subcommands"
)

type topicCmd struct{}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "show documentation" }
func (*topicCmd) Usage() string {
	return `portfel topic [<topic>...]

  Show documentation for the given topics, '*' for all of them. Without topic,
  show the list of topics.
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	topics := f.Args()
	if len(topics) == 0 {
		topics = []string{docs.Index}
	}

	doc, err := docs.Topics(topics...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading doc: %v\n", err)
		return subcommands.ExitFailure
	}
	env := &Env{Out: os.Stdout, Raw: *rawMarkdown}
	env.printMarkdown(doc)
	return subcommands.ExitSuccess
}
