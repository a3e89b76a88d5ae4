package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/dogefolio/dashboard"
	"github.com/etnz/dogefolio/renderer"
	"github.com/google/subcommands"
)

// portfolioCmd holds the flags for the 'portfolio' subcommand.
type portfolioCmd struct {
	name string
	json bool
}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "display a portfolio valued at the current price" }
func (*portfolioCmd) Usage() string {
	return `dfo portfolio [-p <name>] [-json]

  Displays the holdings of a portfolio with their current value and profit or loss.
  Defaults to the first portfolio of the roster.
`
}

func (c *portfolioCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "p", "", "Portfolio to display, e.g. 'harshi'.")
	f.BoolVar(&c.json, "json", false, "Print the portfolio as JSON.")
}

func (c *portfolioCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	d, _, ok := openDashboard(newLogger())
	if !ok {
		return subcommands.ExitFailure
	}
	v := d.Load(ctx, dashboard.JobPrice, dashboard.JobRoster)
	if c.name != "" {
		if err := d.Store.Select(c.name); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		v = d.Store.View()
	}
	if v.PriceError != "" {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", v.PriceError)
	}
	p, _ := v.Current()
	if c.json {
		return printJSON(p)
	}
	printMarkdown(renderer.PortfolioMarkdown(p))
	return subcommands.ExitSuccess
}
