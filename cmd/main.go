package cmd

import "github.com/google/subcommands"

// Commands are the portfel subcommands, in help order.
var Commands = []subcommands.Command{
	&valueCmd{},
	&exportCmd{},
	&chartCmd{},
	&retireCmd{},
	&positionsCmd{},
	&topicCmd{},
}
