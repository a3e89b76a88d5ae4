// Package cmd implements the dfo command line: one-shot reports, a live terminal dashboard,
// an HTTP server and a market brief.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/etnz/dogefolio/config"
	"github.com/etnz/dogefolio/dashboard"
	"github.com/etnz/dogefolio/logger"
	"github.com/etnz/dogefolio/renderer"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&priceCmd{}, "reports")
	c.Register(&portfolioCmd{}, "reports")
	c.Register(&summaryCmd{}, "reports")
	c.Register(&newsCmd{}, "reports")
	c.Register(&publishCmd{}, "reports")

	c.Register(&watchCmd{}, "live")
	c.Register(&serveCmd{}, "live")

	c.Register(&briefCmd{}, "assistant")
	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", os.Getenv(EnvConfigFile), "Path to the YAML configuration file. Defaults are used when empty.")

// Verbose enables debug logs.
var Verbose = flag.Bool("v", envBool(EnvVerbose), "Log debug information, including every HTTP request, to stderr.")

func envBool(name string) bool {
	v, _ := strconv.ParseBool(os.Getenv(name))
	return v
}

// loadConfig loads the configuration file named by the -config flag.
func loadConfig() (config.Config, error) {
	return config.Load(*configFile)
}

func newLogger() *zap.SugaredLogger {
	return logger.New(*Verbose)
}

// openDashboard loads the configuration and builds the dashboard it describes.
// It prints the error and returns false on failure.
func openDashboard(log *zap.SugaredLogger, opts ...dashboard.Option) (*dashboard.Dashboard, config.Config, bool) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return nil, cfg, false
	}
	d, err := dashboard.FromConfig(cfg, log, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating dashboard: %v\n", err)
		return nil, cfg, false
	}
	return d, cfg, true
}

// terminalWidth returns the width of the terminal, from $COLUMNS, or 100.
func terminalWidth() int {
	if n, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && n > 0 {
		return n
	}
	return 100
}

// printMarkdown prints md to stdout, styled for the terminal.
func printMarkdown(md string) {
	out, err := renderer.Terminal(md, terminalWidth())
	if err != nil {
		// unstyled is still readable.
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
