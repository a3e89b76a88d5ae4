package dashboard

import (
	"context"
	"time"

	"github.com/etnz/dogefolio"
	"github.com/etnz/dogefolio/binance"
	"github.com/etnz/dogefolio/config"
	"github.com/etnz/dogefolio/news"
	"github.com/etnz/dogefolio/schedule"
	"go.uber.org/zap"
)

// Job names, also used as metric labels.
const (
	JobPrice  = "price"
	JobNews   = "news"
	JobRoster = "roster"
)

// PriceSource fetches price snapshots, e.g. *binance.Client.
type PriceSource interface {
	FetchSnapshot(ctx context.Context, pair string) (dogefolio.PriceSnapshot, error)
}

// NewsSource fetches news with their fallback policy, e.g. *news.Feed.
type NewsSource interface {
	Fetch(ctx context.Context) (news.Result, error)
}

// RosterSource fetches the portfolios, e.g. *dogefolio.RosterFeed.
type RosterSource interface {
	FetchRoster(ctx context.Context) (dogefolio.Roster, error)
}

// Sources are the feeds of a dashboard. Roster is optional.
type Sources struct {
	Price  PriceSource
	News   NewsSource
	Roster RosterSource
}

// Intervals are the refresh periods of each feed.
type Intervals struct {
	Price  time.Duration
	News   time.Duration
	Roster time.Duration
}

// Dashboard refreshes a Store from its sources.
type Dashboard struct {
	Store     *Store
	Metrics   *Metrics
	scheduler *schedule.Scheduler
	onChange  func(View)
	log       *zap.SugaredLogger
}

// Option configures a Dashboard.
type Option func(*options)

type options struct {
	clock    schedule.Clock
	metrics  *Metrics
	onChange func(View)
	log      *zap.SugaredLogger
}

// WithClock drives the refresh timers with clock.
func WithClock(c schedule.Clock) Option { return func(o *options) { o.clock = c } }

// WithMetrics records feed outcomes and state in m.
func WithMetrics(m *Metrics) Option { return func(o *options) { o.metrics = m } }

// OnChange calls f with the new view after every applied update, success or failure.
// f is called from the refresh goroutines, one call at a time.
func OnChange(f func(View)) Option { return func(o *options) { o.onChange = f } }

// WithLogger logs scheduling events to log.
func WithLogger(log *zap.SugaredLogger) Option { return func(o *options) { o.log = log } }

// New returns a dashboard refreshing store from src at the given intervals.
func New(store *Store, src Sources, every Intervals, opts ...Option) (*Dashboard, error) {
	o := options{clock: schedule.System, log: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(&o)
	}
	d := &Dashboard{Store: store, Metrics: o.metrics, onChange: o.onChange, log: o.log}

	var sopts []schedule.Option
	if o.metrics != nil {
		sopts = append(sopts, schedule.WithObserver(o.metrics.Observe))
	}
	d.scheduler = schedule.New(o.clock, o.log, sopts...)

	pair := store.pair
	jobs := []schedule.Job{
		{
			Name:  JobPrice,
			Every: every.Price,
			Fetch: func(ctx context.Context) (func(), error) {
				snap, err := src.Price.FetchSnapshot(ctx, pair)
				if err != nil {
					return nil, err
				}
				return func() {
					store.SetSnapshot(snap)
					d.changed()
				}, nil
			},
			OnError: func(err error) {
				store.PriceFailed(err)
				d.changed()
			},
		},
		{
			Name:  JobNews,
			Every: every.News,
			Fetch: func(ctx context.Context) (func(), error) {
				res, err := src.News.Fetch(ctx)
				if err != nil {
					return nil, err
				}
				return func() {
					store.SetNews(res)
					d.changed()
				}, nil
			},
			OnError: func(err error) {
				store.NewsFailed(err)
				d.changed()
			},
		},
	}
	if src.Roster != nil {
		jobs = append(jobs, schedule.Job{
			Name:  JobRoster,
			Every: every.Roster,
			Fetch: func(ctx context.Context) (func(), error) {
				r, err := src.Roster.FetchRoster(ctx)
				if err != nil {
					return nil, err
				}
				return func() {
					store.SetRoster(r)
					d.changed()
				}, nil
			},
			// the current roster is kept, the scheduler already logged the error.
		})
	}
	for _, j := range jobs {
		if err := d.scheduler.Add(j); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// changed publishes the current view. It runs under the scheduler lock.
func (d *Dashboard) changed() {
	if d.Metrics == nil && d.onChange == nil {
		return
	}
	v := d.Store.View()
	if d.Metrics != nil {
		d.Metrics.Update(v)
	}
	if d.onChange != nil {
		d.onChange(v)
	}
}

// Start fetches every feed now, then at its interval, until Stop.
func (d *Dashboard) Start(ctx context.Context) error { return d.scheduler.Start(ctx) }

// Stop stops the refresh. Results of fetches still in flight are ignored.
func (d *Dashboard) Stop() { d.scheduler.Stop() }

// Refresh fetches every feed now, in addition to the periodic refresh.
func (d *Dashboard) Refresh() {
	for _, name := range []string{JobPrice, JobNews, JobRoster} {
		d.scheduler.Trigger(name)
	}
}

// Load fetches the given feeds (JobPrice, JobNews, JobRoster), or all of them when none is
// given, once and applies the results, without starting the refresh.
func (d *Dashboard) Load(ctx context.Context, feeds ...string) View {
	d.scheduler.Once(ctx, feeds...)
	return d.Store.View()
}

// Wait blocks until every fetch issued so far has been applied or discarded.
func (d *Dashboard) Wait() { d.scheduler.Wait() }

// FromConfig builds the store and sources described by cfg and returns the dashboard.
func FromConfig(cfg config.Config, log *zap.SugaredLogger, opts ...Option) (*Dashboard, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	src := NewSources(cfg, log)
	store := NewStore(cfg.Pair, cfg.Asset, nil)
	every := Intervals{Price: cfg.Price.Interval, News: cfg.News.Interval, Roster: cfg.Roster.Interval}
	return New(store, src, every, append([]Option{WithLogger(log)}, opts...)...)
}

// NewSources returns the feeds described by cfg, sharing one rate limited HTTP client.
func NewSources(cfg config.Config, log *zap.SugaredLogger) Sources {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	client := dogefolio.NewHTTPClient(cfg.HTTP.Timeout, cfg.HTTP.Rate, cfg.HTTP.Burst, log)

	var primary news.Source
	switch cfg.News.Mode {
	case config.ModeRSS:
		primary = &news.RSS{Client: client, FeedURL: cfg.News.FeedURL, Log: log}
	default:
		primary = &news.RSS2JSON{Client: client, Endpoint: cfg.News.RSS2JSONURL, FeedURL: cfg.News.FeedURL, Log: log}
	}
	src := Sources{
		Price: binance.New(client, cfg.Price.BaseURL),
		News: &news.Feed{
			Primary: primary,
			Fallback: &news.Reddit{
				Client:    client,
				BaseURL:   cfg.News.RedditURL,
				Community: cfg.News.Community,
				Limit:     cfg.News.Limit,
				Log:       log,
			},
			Log: log,
		},
	}
	if cfg.Roster.URL != "" {
		src.Roster = &dogefolio.RosterFeed{Client: client, URL: cfg.Roster.URL, Symbol: cfg.Asset, Log: log}
	}
	return src
}
