package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etnz/dogefolio/dashboard"
	"github.com/etnz/dogefolio/server"
	"github.com/google/subcommands"
)

// serveCmd holds the flags for the 'serve' subcommand.
type serveCmd struct {
	addr  string
	limit int
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the live dashboard over HTTP" }
func (*serveCmd) Usage() string {
	return `dfo serve [-addr <host:port>]

  Refreshes the dashboard in the background and serves:
    GET /                      the dashboard as HTML (?p=<name> selects the portfolio)
    GET /api/price             the last price snapshot
    GET /api/portfolios        every portfolio valued at the last price
    GET /api/portfolios/{name} one portfolio
    GET /api/summary           the total across portfolios
    GET /api/news              the latest news
    GET /metrics               Prometheus metrics
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Address to listen on. Defaults to the configured server.addr.")
	f.IntVar(&c.limit, "n", 10, "Maximum number of news items on the HTML page, 0 for all.")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := newLogger()
	defer log.Sync()

	metrics := dashboard.NewMetrics()
	d, cfg, ok := openDashboard(log, dashboard.WithMetrics(metrics))
	if !ok {
		return subcommands.ExitFailure
	}
	addr := c.addr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	if err := d.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error starting the dashboard: %v\n", err)
		return subcommands.ExitFailure
	}
	defer d.Stop()

	srv := &http.Server{
		Addr: addr,
		Handler: server.New(d.Store, server.Options{
			Metrics:   metrics,
			Refresh:   cfg.Price.Interval,
			NewsLimit: c.limit,
			Log:       log,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			log.Warnw("shutdown", "error", err)
		}
	}()

	log.Infow("serving dashboard", "addr", addr, "pair", cfg.Pair)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintf(os.Stderr, "Error serving: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
