// Command dfo is a live dashboard of a cryptocurrency price, a few portfolios holding it, and
// the latest news.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/dogefolio/cmd"
	"github.com/etnz/dogefolio/docs"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// GEMINI_API_KEY and DFO_* variables may come from a local .env file.
	_ = godotenv.Load()

	// COMP_INSTALL=1 dfo installs the shell completion.
	completion().Complete("dfo")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()

	if name := flag.Arg(0); name != "" && !registered(commander, name) {
		if found, code := cmd.RunExtension(name, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}

func registered(c *subcommands.Commander, name string) (found bool) {
	c.VisitCommands(func(_ *subcommands.CommandGroup, sub subcommands.Command) {
		if sub.Name() == name {
			found = true
		}
	})
	return found
}

func completion() *complete.Command {
	portfolio := predict.Something
	json := predict.Nothing
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"config": predict.Files("*.yaml"),
			"v":      predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"price":     {Flags: map[string]complete.Predictor{"json": json}},
			"portfolio": {Flags: map[string]complete.Predictor{"p": portfolio, "json": json}},
			"summary":   {Flags: map[string]complete.Predictor{"json": json}},
			"news":      {Flags: map[string]complete.Predictor{"n": predict.Something, "json": json}},
			"publish":   {Flags: map[string]complete.Predictor{"o": predict.Dirs("*"), "frontmatter": predict.Files("*"), "n": predict.Something}},
			"watch":     {Flags: map[string]complete.Predictor{"p": portfolio, "n": predict.Something}},
			"serve":     {Flags: map[string]complete.Predictor{"addr": predict.Something, "n": predict.Something}},
			"brief":     {Flags: map[string]complete.Predictor{"i": predict.Nothing}},
			"topic":     {Args: predict.Set(topics())},
			"help":      {},
			"flags":     {},
			"commands":  {},
		},
	}
}

// topics returns the documentation topics, "*" included.
func topics() []string {
	names, _ := docs.All()
	return append(names, "*")
}
