package dashboard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/etnz/dogefolio"
	"github.com/etnz/dogefolio/news"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func snapshot(t *testing.T, price float64) dogefolio.PriceSnapshot {
	t.Helper()
	snap, err := dogefolio.NewPriceSnapshot("DOGEUSDT", dogefolio.USD(price), 3.76, dogefolio.Q(1200000), dogefolio.USD(0.03), dogefolio.USD(0.02), now)
	require.NoError(t, err)
	return snap
}

func TestStore_InitialView(t *testing.T) {
	s := NewStore("DOGEUSDT", "DOGE", func() time.Time { return now })
	v := s.View()

	require.True(t, v.Loading())
	require.Nil(t, v.Snapshot)
	require.Equal(t, "harshi", v.Selected)
	require.Len(t, v.Portfolios, 2)
	// without a price every derived figure is zero.
	for _, p := range v.Portfolios {
		require.False(t, p.Priced)
		require.True(t, p.TotalValue.IsZero())
		require.True(t, p.TotalChange.IsZero())
	}
	require.True(t, v.Summary.TotalInvested.Equal(dogefolio.USD(2925)))
	require.True(t, v.Summary.TotalCurrent.IsZero())
}

func TestStore_PriceFailureKeepsSnapshot(t *testing.T) {
	s := NewStore("DOGEUSDT", "DOGE", func() time.Time { return now })
	s.SetSnapshot(snapshot(t, 0.025))
	s.PriceFailed(errors.New("timeout"))

	v := s.View()
	require.False(t, v.Loading())
	require.NotNil(t, v.Snapshot)
	require.Equal(t, "Failed to fetch DOGEUSDT data. Retrying...", v.PriceError)

	harshi, ok := v.Current()
	require.True(t, ok)
	require.True(t, harshi.TotalValue.Equal(dogefolio.USD(1875)), "got %v", harshi.TotalValue)
	require.True(t, harshi.TotalChange.Equal(dogefolio.USD(187.5)), "got %v", harshi.TotalChange)

	s.SetSnapshot(snapshot(t, 0.02))
	require.Empty(t, s.View().PriceError, "a successful fetch clears the error")
}

func TestStore_NewsFailureKeepsItems(t *testing.T) {
	s := NewStore("DOGEUSDT", "DOGE", nil)
	s.SetNews(news.Result{Items: []dogefolio.NewsItem{{ID: "a"}}, Source: "reddit", Degraded: true})
	s.NewsFailed(&dogefolio.DegradedModeError{})

	v := s.View()
	require.Len(t, v.News, 1)
	require.True(t, v.Degraded)
	require.Equal(t, NewsErrorMessage, v.NewsError)
}

func TestStore_Selection(t *testing.T) {
	s := NewStore("DOGEUSDT", "DOGE", nil)
	require.Equal(t, "arun", s.Next())
	require.Equal(t, "harshi", s.Next())
	require.Equal(t, "arun", s.Prev())
	require.Error(t, s.Select("nobody"))

	// a roster without the selection moves it to the first portfolio.
	s.SetRoster(dogefolio.NewRoster(
		dogefolio.Portfolio{Key: "sam", Name: "Sam"},
		dogefolio.Portfolio{Key: "harshi", Name: "Harshi"},
	))
	require.Equal(t, "sam", s.View().Selected)

	require.NoError(t, s.Select("harshi"))
	s.SetRoster(dogefolio.NewRoster(dogefolio.Portfolio{Key: "kim"}, dogefolio.Portfolio{Key: "harshi"}))
	require.Equal(t, "harshi", s.View().Selected)

	// an empty roster is ignored.
	s.SetRoster(dogefolio.NewRoster())
	require.Len(t, s.View().Portfolios, 2)
}

func TestStore_UpdatedAtTracksPrice(t *testing.T) {
	clock := now
	s := NewStore("DOGEUSDT", "DOGE", func() time.Time { return clock })
	s.SetSnapshot(snapshot(t, 0.025))
	require.Equal(t, now, s.View().UpdatedAt)

	// news and roster commits do not move the price timestamp.
	clock = now.Add(time.Minute)
	s.SetNews(news.Result{Items: []dogefolio.NewsItem{{ID: "a"}}, Source: "rss2json"})
	s.SetRoster(dogefolio.NewRoster(dogefolio.Portfolio{Key: "sam", Name: "Sam"}))
	require.Equal(t, now, s.View().UpdatedAt)

	s.SetSnapshot(snapshot(t, 0.026))
	require.Equal(t, clock, s.View().UpdatedAt)
}

type stubPrice struct {
	snap dogefolio.PriceSnapshot
	err  error
}

func (s stubPrice) FetchSnapshot(context.Context, string) (dogefolio.PriceSnapshot, error) {
	return s.snap, s.err
}

type stubNews struct {
	res news.Result
	err error
}

func (s stubNews) Fetch(context.Context) (news.Result, error) { return s.res, s.err }

type stubRoster struct{ r dogefolio.Roster }

func (s stubRoster) FetchRoster(context.Context) (dogefolio.Roster, error) { return s.r, nil }

func TestDashboard_Load(t *testing.T) {
	store := NewStore("DOGEUSDT", "DOGE", func() time.Time { return now })
	metrics := NewMetrics()
	var mu sync.Mutex
	var changes int

	d, err := New(store, Sources{
		Price: stubPrice{snap: snapshot(t, 0.025)},
		News:  stubNews{err: &dogefolio.DegradedModeError{Primary: errors.New("a"), Fallback: errors.New("b")}},
		Roster: stubRoster{r: dogefolio.NewRoster(dogefolio.Portfolio{Key: "sam", Name: "Sam", Holdings: []dogefolio.Holding{
			dogefolio.NewHolding("DOGE", dogefolio.Q(1000), dogefolio.USD(0.02)),
		}})},
	}, Intervals{Price: time.Hour, News: time.Hour, Roster: time.Hour},
		WithMetrics(metrics),
		OnChange(func(View) {
			mu.Lock()
			defer mu.Unlock()
			changes++
		}),
	)
	require.NoError(t, err)

	v := d.Load(context.Background())
	require.NotNil(t, v.Snapshot)
	require.Equal(t, NewsErrorMessage, v.NewsError)
	require.Equal(t, "sam", v.Selected)
	require.True(t, v.Summary.TotalCurrent.Equal(dogefolio.USD(25)), "got %v", v.Summary.TotalCurrent)
	require.Equal(t, 3, changes)

	require.Equal(t, 1.0, testutil.ToFloat64(metrics.fetches.WithLabelValues(JobPrice, "applied")))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.fetches.WithLabelValues(JobNews, "failed")))
	require.Equal(t, 0.025, testutil.ToFloat64(metrics.price))

	expected := `
# HELP dogefolio_portfolio_value Current value per portfolio.
# TYPE dogefolio_portfolio_value gauge
dogefolio_portfolio_value{portfolio="sam"} 25
`
	require.NoError(t, testutil.CollectAndCompare(metrics.currentValue, strings.NewReader(expected)))
}

func TestNew_InvalidInterval(t *testing.T) {
	store := NewStore("DOGEUSDT", "DOGE", nil)
	_, err := New(store, Sources{Price: stubPrice{}, News: stubNews{}}, Intervals{Price: 0, News: time.Hour})
	require.Error(t, err)
}
