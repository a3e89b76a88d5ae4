package news

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/etnz/dogefolio"
	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"
)

// RSS reads an RSS or Atom feed directly.
type RSS struct {
	Client  *http.Client
	FeedURL string
	Log     *zap.SugaredLogger
}

func (*RSS) Name() string { return "rss" }

// Fetch downloads and parses the feed. Items without a publication date are skipped. Titles
// may carry HTML, only their text is kept.
func (s *RSS) Fetch(ctx context.Context) ([]dogefolio.NewsItem, error) {
	body, err := dogefolio.Fetch(ctx, s.Client, s.FeedURL)
	if err != nil {
		return nil, err
	}
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, &dogefolio.SchemaError{Source: "rss", Err: err}
	}

	items := make([]dogefolio.NewsItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		if it.PublishedParsed == nil {
			s.skip(it.Link, errors.New("missing publication date"))
			continue
		}
		author := ""
		if it.Author != nil {
			author = it.Author.Name
		}
		item, err := normalize(it.GUID, plainText(it.Title), it.Link, author, it.PublishedParsed.UTC())
		if err != nil {
			s.skip(it.Link, err)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *RSS) skip(link string, err error) {
	if s.Log != nil {
		s.Log.Warnw("news item skipped", "source", s.Name(), "link", link, "error", err)
	}
}
