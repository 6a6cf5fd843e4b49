package cmd

import (
	"flag"

	"github.com/etnz/tienda/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// boolFlag is implemented by the flag.Value of boolean flags.
type boolFlag interface {
	IsBoolFlag() bool
}

// Completion describes the commands registered in c for shell completion.
func Completion(c *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flagPredictors(flag.CommandLine),
	}
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
		cmd.SetFlags(f)
		sub := &complete.Command{Flags: flagPredictors(f)}
		switch cmd.Name() {
		case "topic":
			topics, _ := docs.GetAllTopics()
			sub.Args = predict.Set(topics)
		case "hoja":
			sub.Flags["format"] = predict.Set{"md", "html", "pdf"}
		case "query":
			sub.Flags["collection"] = predict.Set{"insumos", "productos", "ventas"}
		}
		if _, ok := sub.Flags["o"]; ok {
			sub.Flags["o"] = predict.Files("*")
		}
		root.Sub[cmd.Name()] = sub
	})
	return root
}

func flagPredictors(f *flag.FlagSet) map[string]complete.Predictor {
	flags := map[string]complete.Predictor{}
	f.VisitAll(func(fl *flag.Flag) {
		if b, ok := fl.Value.(boolFlag); ok && b.IsBoolFlag() {
			flags[fl.Name] = predict.Nothing
			return
		}
		flags[fl.Name] = predict.Something
	})
	return flags
}
