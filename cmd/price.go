package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/dogefolio/dashboard"
	"github.com/etnz/dogefolio/renderer"
	"github.com/google/subcommands"
)

// priceCmd holds the flags for the 'price' subcommand.
type priceCmd struct {
	json bool
}

func (*priceCmd) Name() string     { return "price" }
func (*priceCmd) Synopsis() string { return "display the current price and 24h statistics" }
func (*priceCmd) Usage() string {
	return `dfo price [-json]

  Fetches the spot price and the 24h statistics of the configured pair.
`
}

func (c *priceCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "Print the snapshot as JSON.")
}

func (c *priceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	d, _, ok := openDashboard(newLogger())
	if !ok {
		return subcommands.ExitFailure
	}
	v := d.Load(ctx, dashboard.JobPrice)
	if v.Snapshot == nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", v.PriceError)
		return subcommands.ExitFailure
	}
	if c.json {
		return printJSON(v.Snapshot)
	}
	printMarkdown(renderer.PriceMarkdown(v))
	return subcommands.ExitSuccess
}

func printJSON(data any) subcommands.ExitStatus {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
