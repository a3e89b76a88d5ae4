package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/etnz/dogefolio/dashboard"
	"github.com/etnz/dogefolio/renderer"
	"github.com/google/subcommands"
)

// watchCmd holds the flags for the 'watch' subcommand.
type watchCmd struct {
	portfolio string
	limit     int
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "display the live dashboard in the terminal" }
func (*watchCmd) Usage() string {
	return `dfo watch [-p <name>] [-n <count>]

  Displays the dashboard and refreshes it as new prices, news and portfolios arrive.

  Type a command followed by Enter:
    n  next portfolio
    p  previous portfolio
    r  refresh now
    q  quit
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "Portfolio to display first.")
	f.IntVar(&c.limit, "n", 5, "Maximum number of news items, 0 for all.")
}

func (c *watchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// coalesces updates, a single pending redraw is enough.
	updates := make(chan struct{}, 1)
	notify := func(dashboard.View) {
		select {
		case updates <- struct{}{}:
		default:
		}
	}

	d, _, ok := openDashboard(newLogger(), dashboard.OnChange(notify))
	if !ok {
		return subcommands.ExitFailure
	}
	if c.portfolio != "" {
		if err := d.Store.Select(c.portfolio); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	if err := d.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error starting the dashboard: %v\n", err)
		return subcommands.ExitFailure
	}
	defer d.Stop()

	keys := readKeys(ctx, os.Stdin)

	c.draw(d.Store.View())
	for {
		select {
		case <-ctx.Done():
			return subcommands.ExitSuccess
		case <-updates:
			c.draw(d.Store.View())
		case key, ok := <-keys:
			if !ok {
				// stdin closed, keep watching until interrupted.
				keys = nil
				continue
			}
			switch key {
			case "n":
				d.Store.Next()
			case "p":
				d.Store.Prev()
			case "r":
				d.Refresh()
			case "q":
				return subcommands.ExitSuccess
			}
			c.draw(d.Store.View())
		}
	}
}

// readKeys sends every line of r, trimmed, until r ends or ctx is done. The channel is closed
// then.
func readKeys(ctx context.Context, r io.Reader) <-chan string {
	keys := make(chan string)
	go func() {
		defer close(keys)
		s := bufio.NewScanner(r)
		for s.Scan() {
			if ctx.Err() != nil {
				return
			}
			select {
			case keys <- strings.TrimSpace(s.Text()):
			case <-ctx.Done():
				return
			}
		}
	}()
	return keys
}

// draw clears the terminal and prints the dashboard.
func (c *watchCmd) draw(v dashboard.View) {
	fmt.Print("\033[H\033[2J")
	printMarkdown(renderer.DashboardMarkdown(v, c.limit))
	fmt.Println("[n]ext [p]rev [r]efresh [q]uit")
}
