package news

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/etnz/dogefolio"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// stubSource returns fixed items or a fixed error and counts its calls.
type stubSource struct {
	name  string
	items []dogefolio.NewsItem
	err   error
	calls int
}

func (s *stubSource) Name() string { return s.name }
func (s *stubSource) Fetch(context.Context) ([]dogefolio.NewsItem, error) {
	s.calls++
	return append([]dogefolio.NewsItem(nil), s.items...), s.err
}

func at(hour int) time.Time { return time.Date(2025, 1, 1, hour, 0, 0, 0, time.UTC) }

func TestFeed_PrimarySucceeds(t *testing.T) {
	primary := &stubSource{name: "primary", items: []dogefolio.NewsItem{
		{ID: "a", PublishedAt: at(1)},
		{ID: "b", PublishedAt: at(3)},
	}}
	fallback := &stubSource{name: "fallback"}
	feed := &Feed{Primary: primary, Fallback: fallback}

	res, err := feed.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, "primary", res.Source)
	require.False(t, res.Degraded)
	require.Equal(t, []string{"b", "a"}, ids(res.Items))
	require.Zero(t, fallback.calls, "fallback must not be queried when the primary succeeds")
}

func TestFeed_FallsBackAndSortsNewestFirst(t *testing.T) {
	primary := &stubSource{name: "primary", err: &dogefolio.NetworkError{URL: "x", Status: 429}}
	fallback := &stubSource{name: "fallback", items: []dogefolio.NewsItem{
		{ID: "old", PublishedAt: at(1)},
		{ID: "tie1", PublishedAt: at(2)},
		{ID: "new", PublishedAt: at(5)},
		{ID: "tie2", PublishedAt: at(2)},
	}}
	feed := &Feed{Primary: primary, Fallback: fallback}

	res, err := feed.Fetch(context.Background())
	require.NoError(t, err)
	require.True(t, res.Degraded)
	require.Equal(t, "fallback", res.Source)
	// ties keep their original relative order.
	require.Equal(t, []string{"new", "tie1", "tie2", "old"}, ids(res.Items))
}

func TestFeed_BothFail(t *testing.T) {
	primaryErr := errors.New("primary down")
	fallbackErr := &dogefolio.SchemaError{Source: "reddit", Err: errors.New("bad")}
	feed := &Feed{
		Primary:  &stubSource{name: "primary", err: primaryErr, items: []dogefolio.NewsItem{{ID: "partial"}}},
		Fallback: &stubSource{name: "fallback", err: fallbackErr},
	}

	res, err := feed.Fetch(context.Background())
	var degraded *dogefolio.DegradedModeError
	require.ErrorAs(t, err, &degraded)
	require.ErrorIs(t, err, primaryErr)
	require.True(t, dogefolio.IsSchema(err))
	require.Empty(t, res.Items, "no partial result may leak from a failed source")
}

func ids(items []dogefolio.NewsItem) []string {
	res := make([]string, len(items))
	for i, it := range items {
		res[i] = it.ID
	}
	return res
}

func TestRSS2JSON_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("rss_url") != "https://example.com/rss" {
			http.Error(w, "bad rss_url", http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, `{"status":"ok","items":[
			{"title":"DOGE <$0.10 and >$0.05 next week?","pubDate":"2025-01-01 10:00:00","link":"https://www.coindesk.com/a","guid":"g1","author":""},
			{"title":"Musk tweets","pubDate":"2025-01-01 12:00:00","link":"https://news.example.org/b","guid":"","author":"Jane Doe"},
			{"title":"Broken date","pubDate":"yesterday","link":"https://example.org/c"},
			{"title":"","pubDate":"2025-01-01 11:00:00","link":"https://example.org/d"}
		]}`)
	}))
	defer srv.Close()

	s := &RSS2JSON{Client: srv.Client(), Endpoint: srv.URL, FeedURL: "https://example.com/rss"}
	items, err := s.Fetch(context.Background())
	require.NoError(t, err)

	want := []dogefolio.NewsItem{
		{ID: "g1", Title: "DOGE <$0.10 and >$0.05 next week?", URL: "https://www.coindesk.com/a", Source: "coindesk.com", PublishedAt: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)},
		{ID: "https://news.example.org/b", Title: "Musk tweets", URL: "https://news.example.org/b", Source: "Jane Doe", PublishedAt: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)},
	}
	if diff := cmp.Diff(want, items); diff != "" {
		t.Errorf("Fetch() mismatch (-want +got):\n%s", diff)
	}
}

func TestRSS2JSON_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"error","message":"rate limited"}`)
	}))
	defer srv.Close()

	s := &RSS2JSON{Client: srv.Client(), Endpoint: srv.URL, FeedURL: DefaultRSSURL}
	_, err := s.Fetch(context.Background())
	require.True(t, dogefolio.IsSchema(err), "got %v", err)
}

func TestRSS_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Google News</title>
<item><title>Dogecoin &lt;b&gt;ETF&lt;/b&gt; filed</title><link>https://www.reuters.com/x</link><guid>id-1</guid>
<pubDate>Wed, 01 Jan 2025 09:00:00 GMT</pubDate></item>
<item><title>No date</title><link>https://example.com/y</link></item>
</channel></rss>`)
	}))
	defer srv.Close()

	s := &RSS{Client: srv.Client(), FeedURL: srv.URL}
	items, err := s.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "id-1", items[0].ID)
	require.Equal(t, "Dogecoin ETF filed", items[0].Title)
	require.Equal(t, "reuters.com", items[0].Source)
	require.True(t, items[0].PublishedAt.Equal(time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)))
}

func TestReddit_Fetch(t *testing.T) {
	var gotPath, gotLimit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotLimit = r.URL.Path, r.URL.Query().Get("limit")
		fmt.Fprint(w, `{"kind":"Listing","data":{"children":[
			{"kind":"t3","data":{"id":"p1","title":"To the moon","permalink":"/r/dogecoin/comments/p1/x/","subreddit":"dogecoin","created_utc":1735725600.0}},
			{"kind":"t3","data":{"id":"p2","title":"Such wow","permalink":"/r/dogecoin/comments/p2/y/","subreddit":"dogecoin","created_utc":1735729200}},
			{"kind":"t3","data":{"id":"p3","title":"no date","permalink":"/r/dogecoin/comments/p3/z/"}}
		]}}`)
	}))
	defer srv.Close()

	s := &Reddit{Client: srv.Client(), BaseURL: srv.URL, Community: "dogecoin"}
	items, err := s.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, "/r/dogecoin/hot.json", gotPath)
	require.Equal(t, "20", gotLimit)

	want := []dogefolio.NewsItem{
		{ID: "p1", Title: "To the moon", URL: srv.URL + "/r/dogecoin/comments/p1/x/", Source: "r/dogecoin", PublishedAt: time.Unix(1735725600, 0).UTC()},
		{ID: "p2", Title: "Such wow", URL: srv.URL + "/r/dogecoin/comments/p2/y/", Source: "r/dogecoin", PublishedAt: time.Unix(1735729200, 0).UTC()},
	}
	if diff := cmp.Diff(want, items); diff != "" {
		t.Errorf("Fetch() mismatch (-want +got):\n%s", diff)
	}
}

func TestReddit_InvalidListing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"message":"Too Many Requests","error":429}`)
	}))
	defer srv.Close()

	s := &Reddit{Client: srv.Client(), BaseURL: srv.URL, Community: "dogecoin"}
	_, err := s.Fetch(context.Background())
	require.True(t, dogefolio.IsSchema(err), "got %v", err)
}

func TestSourceOf(t *testing.T) {
	testCases := []struct {
		author, link, want string
	}{
		{"Reuters", "https://www.reuters.com/a", "Reuters"},
		{"", "https://www.reuters.com/a", "reuters.com"},
		{"", "https://news.www.example.com/a", "news.www.example.com"},
		{"  ", "https://example.com", "example.com"},
	}
	for _, tc := range testCases {
		if got := sourceOf(tc.author, tc.link); got != tc.want {
			t.Errorf("sourceOf(%q, %q) = %q, want %q", tc.author, tc.link, got, tc.want)
		}
	}
}

func TestPlainText(t *testing.T) {
	testCases := []struct {
		in, want string
	}{
		{"Is 1 < 2 > 0?", "Is 1 < 2 > 0?"},
		{"DOGE <$0.10 and >$0.05 next week?", "DOGE <$0.10 and >$0.05 next week?"},
		{"Doge <b>rallies</b> again", "Doge rallies again"},
		{"AT&amp;T &lt;3 Doge", "AT&T <3 Doge"},
		{"<a href=\"https://example.com\">Such</a> wow", "Such wow"},
		{"plain title", "plain title"},
	}
	for _, tc := range testCases {
		if got := plainText(tc.in); got != tc.want {
			t.Errorf("plainText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalize_KeepsTitle(t *testing.T) {
	for _, title := range []string{"Is 1 < 2 > 0?", "DOGE <$0.10 and >$0.05 next week?", "<b>not markup</b> here"} {
		item, err := normalize("id", "  "+title+" ", "https://example.com/a", "", at(1))
		require.NoError(t, err)
		require.Equal(t, title, item.Title)
	}
}
