package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/tienda/docs"
	"github.com/google/subcommands"
)

type topicCmd struct{}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "show documentation" }
func (*topicCmd) Usage() string {
	return `tnd topic [<topic>...]

  Shows the documentation of the given topics, the list of topics without
  arguments, and everything with "*".
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		printMarkdown(docs.Index())
		return subcommands.ExitSuccess
	}
	var parts []string
	for _, topic := range f.Args() {
		doc, err := docs.GetTopic(topic)
		if err != nil {
			fmt.Fprintf(stderr, "Error reading doc: %v\n", err)
			return subcommands.ExitFailure
		}
		parts = append(parts, doc)
	}
	printMarkdown(strings.Join(parts, "\n"))
	return subcommands.ExitSuccess
}
