package news

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/etnz/dogefolio"
	"go.uber.org/zap"
)

const (
	// DefaultRSS2JSONURL is the public rss2json translation endpoint.
	DefaultRSS2JSONURL = "https://api.rss2json.com/v1/api.json"
	// DefaultRSSURL searches Google News for the asset.
	DefaultRSSURL = "https://news.google.com/rss/search?q=dogecoin&hl=en-US&gl=US&ceid=US:en"
)

// rss2json publishes dates in UTC in this layout.
const rss2jsonDate = "2006-01-02 15:04:05"

// RSS2JSON reads an RSS feed through the rss2json translation service.
type RSS2JSON struct {
	Client   *http.Client
	Endpoint string // e.g. DefaultRSS2JSONURL
	FeedURL  string // the RSS feed to translate, e.g. DefaultRSSURL
	Log      *zap.SugaredLogger
}

func (*RSS2JSON) Name() string { return "rss2json" }

// Fetch returns the feed items. Items that cannot be normalized are skipped.
func (s *RSS2JSON) Fetch(ctx context.Context) ([]dogefolio.NewsItem, error) {
	// {"status":"ok","feed":{...},"items":[{"title":"...","pubDate":"2025-01-01 10:00:00",
	//   "link":"https://...","guid":"...","author":"..."}]}
	type payload struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Items   []struct {
			Title   string `json:"title"`
			PubDate string `json:"pubDate"`
			Link    string `json:"link"`
			GUID    string `json:"guid"`
			Author  string `json:"author"`
		} `json:"items"`
	}

	addr := s.Endpoint + "?" + url.Values{"rss_url": {s.FeedURL}}.Encode()
	var content payload
	if err := dogefolio.FetchJSON(ctx, s.Client, addr, "rss2json", &content); err != nil {
		return nil, err
	}
	if content.Status != "ok" {
		return nil, &dogefolio.SchemaError{Source: "rss2json", Field: "status", Err: errors.New(content.Status + ": " + content.Message)}
	}

	items := make([]dogefolio.NewsItem, 0, len(content.Items))
	for _, it := range content.Items {
		published, err := time.Parse(rss2jsonDate, it.PubDate)
		if err != nil {
			s.skip(it.Link, err)
			continue
		}
		item, err := normalize(it.GUID, it.Title, it.Link, it.Author, published)
		if err != nil {
			s.skip(it.Link, err)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *RSS2JSON) skip(link string, err error) {
	if s.Log != nil {
		s.Log.Warnw("news item skipped", "source", s.Name(), "link", link, "error", err)
	}
}

// normalize builds a NewsItem, the id defaults to the link.
func normalize(id, title, link, author string, published time.Time) (dogefolio.NewsItem, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return dogefolio.NewsItem{}, errors.New("title is required")
	}
	if link == "" {
		return dogefolio.NewsItem{}, errors.New("link is required")
	}
	if id == "" {
		id = link
	}
	return dogefolio.NewsItem{
		ID:          id,
		Title:       title,
		URL:         link,
		Source:      sourceOf(author, link),
		PublishedAt: published,
	}, nil
}
