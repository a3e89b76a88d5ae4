package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"text/template"
	"time"

	"github.com/etnz/dogefolio/dashboard"
	"github.com/etnz/dogefolio/renderer"
	"github.com/google/subcommands"
)

// reportTask is one published file. Its exported fields are available to the front matter template.
type reportTask struct {
	Report string    // "price", "summary", "news" or "portfolio"
	Name   string    // the portfolio key for portfolio reports, the report otherwise
	Title  string    // a human readable title
	Date   time.Time // when the data was fetched
	md     string
}

// File returns the path of the report, relative to the output directory.
func (t reportTask) File() string {
	if t.Report == "portfolio" {
		return path.Join("portfolio", t.Name+".md")
	}
	return t.Report + ".md"
}

type publishCmd struct {
	outputDir      string
	frontMatterTpl string
	newsLimit      int
}

func (*publishCmd) Name() string { return "publish" }

func (*publishCmd) Synopsis() string { return "writes every report as a markdown file" }

func (*publishCmd) Usage() string {
	return `dfo publish [-o <dir>] [-frontmatter <file>] [-n <count>]

  Fetches the price, the news and the portfolios once, then writes the price,
  summary and news reports and one report per portfolio to a directory tree:

    <dir>/price.md
    <dir>/summary.md
    <dir>/news.md
    <dir>/portfolio/<key>.md

  The front matter template is a Go template executed for every file, with
  {{.Report}}, {{.Name}}, {{.Title}} and {{.Date}}.
`
}

func (c *publishCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.outputDir, "o", "reports", "Root directory for the generated reports")
	f.StringVar(&c.frontMatterTpl, "frontmatter", "", "Path to a Go template file for the report front matter")
	f.IntVar(&c.newsLimit, "n", 10, "Maximum number of news items to publish, all when 0.")
}

func (c *publishCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var frontMatterTpl *template.Template
	if c.frontMatterTpl != "" {
		var err error
		frontMatterTpl, err = template.ParseFiles(c.frontMatterTpl)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to parse front matter template: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	log := newLogger()
	defer log.Sync()
	d, _, ok := openDashboard(log)
	if !ok {
		return subcommands.ExitFailure
	}
	v := d.Load(ctx)
	if v.PriceError != "" {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", v.PriceError)
	}

	if err := os.MkdirAll(c.outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create output directory: %v\n", err)
		return subcommands.ExitFailure
	}

	for _, task := range reportTasks(v, c.newsLimit) {
		md := task.md
		if frontMatterTpl != nil {
			fm, err := renderFrontMatter(frontMatterTpl, task)
			if err != nil {
				fmt.Fprintf(os.Stderr, "failed to render front matter for %s: %v\n", task.File(), err)
				continue
			}
			md = fm + "\n" + md
		}

		fullPath := filepath.Join(c.outputDir, filepath.FromSlash(task.File()))
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create output directory for file %s: %v\n", task.File(), err)
			return subcommands.ExitFailure
		}
		if err := os.WriteFile(fullPath, []byte(md), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write file %s: %v\n", task.File(), err)
			return subcommands.ExitFailure
		}
		log.Infow("report published", "report", task.Report, "file", fullPath)
	}
	return subcommands.ExitSuccess
}

// reportTasks renders every report of v.
func reportTasks(v dashboard.View, newsLimit int) []reportTask {
	tasks := []reportTask{
		{Report: "price", Name: "price", Title: v.Asset + " price", md: renderer.PriceMarkdown(v)},
		{Report: "summary", Name: "summary", Title: "Portfolio summary", md: renderer.SummaryMarkdown(v.Portfolios, v.Summary)},
		{Report: "news", Name: "news", Title: v.Asset + " news", md: renderer.NewsMarkdown(v.News, v.Now, renderer.NewsOptions{
			Limit:    newsLimit,
			Source:   v.NewsSource,
			Degraded: v.Degraded,
			Error:    v.NewsError,
		})},
	}
	for _, vp := range v.Portfolios {
		tasks = append(tasks, reportTask{Report: "portfolio", Name: vp.Key, Title: vp.Name + "'s portfolio", md: renderer.PortfolioMarkdown(vp)})
	}
	for i := range tasks {
		tasks[i].Date = v.UpdatedAt
	}
	return tasks
}

func renderFrontMatter(tpl *template.Template, task reportTask) (string, error) {
	var fmBuffer bytes.Buffer
	if err := tpl.Execute(&fmBuffer, task); err != nil {
		return "", err
	}
	return fmBuffer.String(), nil
}
