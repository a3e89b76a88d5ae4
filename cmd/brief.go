package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/dogefolio/agent"
	"github.com/etnz/dogefolio/renderer"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

const defaultQuestion = "Give me a short brief of the market and of how my portfolios are doing."

// briefCmd holds the flags for the 'brief' subcommand.
type briefCmd struct {
	interactive bool
}

func (*briefCmd) Name() string     { return "brief" }
func (*briefCmd) Synopsis() string { return "ask an AI assistant for a market brief" }
func (*briefCmd) Usage() string {
	return `dfo brief [-i] [question...]

  Asks a Gemini model for a brief grounded on the current dashboard.
  The GEMINI_API_KEY environment variable (or .env file) must be set.
  With -i, starts an interactive session.
`
}

func (c *briefCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.interactive, "i", false, "Start an interactive session.")
}

func (c *briefCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	question := strings.Join(f.Args(), " ")

	log := newLogger()
	d, cfg, ok := openDashboard(log)
	if !ok {
		return subcommands.ExitFailure
	}
	// the assistant reads the dashboard as loaded now.
	d.Load(ctx)

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	model := cfg.Agent.Model
	if model == "" {
		model = agent.DefaultModel
	}
	researcher := agent.NewResearcher(model)
	analyst := agent.NewAnalyst(model, d.Store)
	researcher.Log, analyst.Log = log, log
	a := agent.New(os.Stdout, os.Stdin, model, researcher, analyst)
	a.Print = func(w io.Writer, md string) {
		out, err := renderer.Terminal(md, terminalWidth())
		if err != nil {
			out = md
		}
		fmt.Fprint(w, out)
	}

	if c.interactive {
		var prompts []string
		if question != "" {
			prompts = append(prompts, question)
		}
		if err := a.Run(ctx, client, prompts...); err != nil {
			fmt.Fprintln(os.Stderr, "Assistant failed:", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	if question == "" {
		question = defaultQuestion
	}
	answer, err := a.Brief(ctx, client, question)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Assistant failed:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(answer)
	return subcommands.ExitSuccess
}
