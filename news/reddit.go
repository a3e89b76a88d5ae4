package news

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/etnz/dogefolio"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	// DefaultRedditURL is the base of the community feed and of post permalinks.
	DefaultRedditURL = "https://www.reddit.com"
	// DefaultCommunity is the community followed by the fallback source.
	DefaultCommunity = "dogecoin"
	// DefaultPageSize is the number of posts requested from the community feed.
	DefaultPageSize = 20
)

// Reddit reads the hot posts of a community.
type Reddit struct {
	Client    *http.Client
	BaseURL   string // e.g. DefaultRedditURL
	Community string // e.g. DefaultCommunity
	Limit     int    // page size, DefaultPageSize when zero
	Log       *zap.SugaredLogger
}

func (*Reddit) Name() string { return "reddit" }

// Fetch returns one page of hot posts. The source of every item is "r/<community>".
func (s *Reddit) Fetch(ctx context.Context) ([]dogefolio.NewsItem, error) {
	limit := s.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	addr := fmt.Sprintf("%s/r/%s/hot.json?%s", s.BaseURL, url.PathEscape(s.Community), url.Values{"limit": {strconv.Itoa(limit)}}.Encode())

	// {"kind":"Listing","data":{"children":[{"kind":"t3","data":{"id":"abc","title":"...",
	//   "permalink":"/r/dogecoin/comments/abc/...","subreddit":"dogecoin","created_utc":1735725600.0}}]}}
	body, err := dogefolio.Fetch(ctx, s.Client, addr)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, &dogefolio.SchemaError{Source: "reddit", Err: errors.New("invalid json")}
	}
	children := gjson.GetBytes(body, "data.children")
	if !children.IsArray() {
		return nil, &dogefolio.SchemaError{Source: "reddit", Field: "data.children", Err: errors.New("not an array")}
	}

	items := make([]dogefolio.NewsItem, 0, len(children.Array()))
	for _, child := range children.Array() {
		post := child.Get("data")
		created := post.Get("created_utc")
		if created.Type != gjson.Number {
			s.skip(post.Get("id").String(), errors.New("missing created_utc"))
			continue
		}
		community := post.Get("subreddit").String()
		if community == "" {
			community = s.Community
		}
		sec, frac := math.Modf(created.Float())
		item, err := normalize(
			post.Get("id").String(),
			post.Get("title").String(),
			s.permalink(post.Get("permalink").String()),
			"r/"+community,
			time.Unix(int64(sec), int64(frac*1e9)).UTC(),
		)
		if err != nil {
			s.skip(post.Get("id").String(), err)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *Reddit) permalink(path string) string {
	if path == "" {
		return ""
	}
	return s.BaseURL + path
}

func (s *Reddit) skip(id string, err error) {
	if s.Log != nil {
		s.Log.Warnw("news item skipped", "source", s.Name(), "id", id, "error", err)
	}
}
