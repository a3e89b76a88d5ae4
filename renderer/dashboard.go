package renderer

import (
	"strings"

	"github.com/etnz/dogefolio/dashboard"
)

// DashboardMarkdown renders the whole dashboard: price, selected portfolio, summary and news.
func DashboardMarkdown(v dashboard.View, newsLimit int) string {
	var b strings.Builder
	b.WriteString(PriceMarkdown(v))
	b.WriteString("\n")
	if p, ok := v.Current(); ok {
		b.WriteString(PortfolioMarkdown(p))
		b.WriteString("\n")
	}
	b.WriteString(SummaryMarkdown(v.Portfolios, v.Summary))
	b.WriteString("\n")
	b.WriteString(NewsMarkdown(v.News, v.Now, NewsOptions{
		Limit:    newsLimit,
		Source:   v.NewsSource,
		Degraded: v.Degraded,
		Error:    v.NewsError,
	}))
	return b.String()
}
