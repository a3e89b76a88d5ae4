// Package dashboard keeps the live state of the dashboard and refreshes it from the feeds.
package dashboard

import (
	"fmt"
	"sync"
	"time"

	"github.com/etnz/dogefolio"
	"github.com/etnz/dogefolio/news"
)

// NewsErrorMessage is shown when no news source could be read.
const NewsErrorMessage = "Failed to fetch news. Please try again later."

// Store is the state of the dashboard. It is safe for concurrent use.
//
// Failed fetches never erase data: the last snapshot, news and roster are retained and an
// error message is set until the next successful fetch of the same feed.
type Store struct {
	pair  string
	asset string
	now   func() time.Time

	mu         sync.RWMutex
	snapshot   *dogefolio.PriceSnapshot
	priceError string
	news       news.Result
	newsLoaded bool
	newsError  string
	roster     dogefolio.Roster
	selected   string
	updatedAt  time.Time // when the last price snapshot was applied
}

// NewStore returns a store for pair whose holdings are in asset, starting with the built-in
// roster.
func NewStore(pair, asset string, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	roster := dogefolio.DefaultRoster(asset)
	return &Store{
		pair:     pair,
		asset:    asset,
		now:      now,
		roster:   roster,
		selected: roster.Next(""),
	}
}

// SetSnapshot replaces the price snapshot and clears the price error.
func (s *Store) SetSnapshot(snap dogefolio.PriceSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = &snap
	s.priceError = ""
	s.updatedAt = s.now()
}

// PriceFailed records a failed price fetch. The previous snapshot is kept.
func (s *Store) PriceFailed(error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.priceError = fmt.Sprintf("Failed to fetch %s data. Retrying...", s.pair)
}

// SetNews replaces the news and clears the news error.
func (s *Store) SetNews(res news.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.news = res
	s.newsLoaded = true
	s.newsError = ""
}

// NewsFailed records that both news sources failed. The previous items are kept.
func (s *Store) NewsFailed(error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.newsError = NewsErrorMessage
}

// SetRoster replaces the portfolios. The selection is kept when it is still in the roster.
func (s *Store) SetRoster(r dogefolio.Roster) {
	if r.Len() == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roster = r
	if !r.Has(s.selected) {
		s.selected = r.Next("")
	}
}

// Select makes key the current portfolio.
func (s *Store) Select(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.roster.Has(key) {
		return fmt.Errorf("unknown portfolio %q, want one of %v", key, s.roster.Keys())
	}
	s.selected = key
	return nil
}

// Next selects the next portfolio, wrapping around, and returns its key.
func (s *Store) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = s.roster.Next(s.selected)
	return s.selected
}

// Prev selects the previous portfolio, wrapping around, and returns its key.
func (s *Store) Prev() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = s.roster.Prev(s.selected)
	return s.selected
}

// View returns an immutable copy of the state with every portfolio valued at the current price.
func (s *Store) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := View{
		Pair:       s.pair,
		Asset:      s.asset,
		PriceError: s.priceError,
		News:       append([]dogefolio.NewsItem(nil), s.news.Items...),
		NewsSource: s.news.Source,
		Degraded:   s.news.Degraded,
		NewsLoaded: s.newsLoaded,
		NewsError:  s.newsError,
		Selected:   s.selected,
		UpdatedAt:  s.updatedAt,
		Now:        s.now(),
	}
	price := dogefolio.USD(0)
	if s.snapshot != nil {
		snap := *s.snapshot
		v.Snapshot = &snap
		price = snap.Price
	}
	v.Portfolios = dogefolio.ValuePortfolios(s.roster.Portfolios(), price)
	v.Summary = dogefolio.Aggregate(v.Portfolios...)
	return v
}

// View is a consistent picture of the dashboard.
type View struct {
	Pair       string                   `json:"pair"`
	Asset      string                   `json:"asset"`
	Snapshot   *dogefolio.PriceSnapshot `json:"snapshot,omitempty"` // nil until the first price
	PriceError string                   `json:"priceError,omitempty"`

	News       []dogefolio.NewsItem `json:"news"`
	NewsSource string               `json:"newsSource,omitempty"`
	Degraded   bool                 `json:"degraded"`
	NewsLoaded bool                 `json:"-"`
	NewsError  string               `json:"newsError,omitempty"`

	Selected   string                      `json:"selected"`
	Portfolios []dogefolio.ValuedPortfolio `json:"portfolios"`
	Summary    dogefolio.Summary           `json:"summary"`

	UpdatedAt time.Time `json:"updatedAt"` // when the last price snapshot was applied, zero before
	Now       time.Time `json:"-"`
}

// Loading reports whether no price has been received nor failed yet.
func (v View) Loading() bool { return v.Snapshot == nil && v.PriceError == "" }

// Current returns the selected portfolio.
func (v View) Current() (dogefolio.ValuedPortfolio, bool) { return v.Portfolio(v.Selected) }

// Portfolio returns the portfolio with the given key.
func (v View) Portfolio(key string) (dogefolio.ValuedPortfolio, bool) {
	for _, p := range v.Portfolios {
		if p.Key == key {
			return p, true
		}
	}
	return dogefolio.ValuedPortfolio{}, false
}
