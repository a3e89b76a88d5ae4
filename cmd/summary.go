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

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	json bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the profit or loss of every portfolio" }
func (*summaryCmd) Usage() string {
	return `dfo summary [-json]

  Displays the value and profit or loss of every portfolio, and their total.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "Print the summary as JSON.")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	d, _, ok := openDashboard(newLogger())
	if !ok {
		return subcommands.ExitFailure
	}
	v := d.Load(ctx, dashboard.JobPrice, dashboard.JobRoster)
	if v.PriceError != "" {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", v.PriceError)
	}
	if c.json {
		return printJSON(v.Summary)
	}

	printMarkdown(renderer.SummaryMarkdown(v.Portfolios, v.Summary))

	return subcommands.ExitSuccess
}
