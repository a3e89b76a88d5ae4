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

// newsCmd holds the flags for the 'news' subcommand.
type newsCmd struct {
	limit int
	json  bool
}

func (*newsCmd) Name() string     { return "news" }
func (*newsCmd) Synopsis() string { return "display the latest news" }
func (*newsCmd) Usage() string {
	return `dfo news [-n <count>] [-json]

  Displays the latest news, newest first. When the news source is unavailable
  the community feed is used instead.
`
}

func (c *newsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", 10, "Maximum number of items to display, 0 for all.")
	f.BoolVar(&c.json, "json", false, "Print the items as JSON.")
}

func (c *newsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	d, _, ok := openDashboard(newLogger())
	if !ok {
		return subcommands.ExitFailure
	}
	v := d.Load(ctx, dashboard.JobNews)
	if v.NewsError != "" {
		fmt.Fprintf(os.Stderr, "Error: %s\n", v.NewsError)
		return subcommands.ExitFailure
	}
	items := v.News
	if c.limit > 0 && len(items) > c.limit {
		items = items[:c.limit]
	}
	if c.json {
		return printJSON(items)
	}
	printMarkdown(renderer.NewsMarkdown(items, v.Now, renderer.NewsOptions{Source: v.NewsSource, Degraded: v.Degraded}))
	return subcommands.ExitSuccess
}
