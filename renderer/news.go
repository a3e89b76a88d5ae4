package renderer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/etnz/dogefolio"
	md "github.com/nao1215/markdown"
)

// NewsOptions controls the news card.
type NewsOptions struct {
	Limit    int    // maximum number of items, all when zero
	Source   string // name of the source that served the items
	Degraded bool   // the fallback source served the items
	Error    string // user message of the last failed fetch
}

// NewsMarkdown renders news items as a list of linked titles with their source and age.
func NewsMarkdown(items []dogefolio.NewsItem, now time.Time, opts NewsOptions) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2("Latest News")
	if opts.Error != "" {
		doc.Blockquote(md.Bold(opts.Error))
	}
	if opts.Degraded {
		doc.PlainText(md.Italic(fmt.Sprintf("News served by %s, the primary source is unavailable.", opts.Source)))
	}
	if len(items) == 0 {
		if opts.Error == "" {
			doc.PlainText("No news.")
		}
		return doc.String()
	}

	if opts.Limit > 0 && len(items) > opts.Limit {
		items = items[:opts.Limit]
	}
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("%s · %s · %s",
			md.Link(it.Title, it.URL),
			it.Source,
			dogefolio.TimeAgo(now, it.PublishedAt),
		))
	}
	doc.BulletList(lines...)

	return doc.String()
}
