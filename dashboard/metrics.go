package dashboard

import (
	"net/http"

	"github.com/etnz/dogefolio/schedule"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes the dashboard state and the feed outcomes to Prometheus.
type Metrics struct {
	// Registry holds the dashboard collectors.
	Registry *prometheus.Registry

	fetches      *prometheus.CounterVec
	price        prometheus.Gauge
	change       prometheus.Gauge
	degraded     prometheus.Gauge
	newsItems    prometheus.Gauge
	invested     *prometheus.GaugeVec
	currentValue *prometheus.GaugeVec
}

// NewMetrics returns metrics registered in a new registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dogefolio",
				Subsystem: "feed",
				Name:      "fetches_total",
				Help:      "Total number of feed fetches by outcome.",
			},
			[]string{"feed", "outcome"},
		),
		price: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dogefolio",
			Name:      "price",
			Help:      "Last observed spot price.",
		}),
		change: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dogefolio",
			Name:      "price_change_percent",
			Help:      "Last observed 24h price change, in percent.",
		}),
		degraded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dogefolio",
			Subsystem: "news",
			Name:      "degraded",
			Help:      "1 when the news are served by the fallback source.",
		}),
		newsItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dogefolio",
			Subsystem: "news",
			Name:      "items",
			Help:      "Number of news items displayed.",
		}),
		invested: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "dogefolio",
				Subsystem: "portfolio",
				Name:      "invested",
				Help:      "Amount invested per portfolio.",
			},
			[]string{"portfolio"},
		),
		currentValue: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "dogefolio",
				Subsystem: "portfolio",
				Name:      "value",
				Help:      "Current value per portfolio.",
			},
			[]string{"portfolio"},
		),
	}
	m.Registry.MustRegister(m.fetches, m.price, m.change, m.degraded, m.newsItems, m.invested, m.currentValue)
	return m
}

// Observe counts the outcome of a feed run. It is a schedule.Observer.
func (m *Metrics) Observe(job string, _ uint64, o schedule.Outcome) {
	m.fetches.WithLabelValues(job, o.String()).Inc()
}

// Update sets the gauges from v.
func (m *Metrics) Update(v View) {
	if v.Snapshot != nil {
		m.price.Set(v.Snapshot.Price.Decimal().InexactFloat64())
		m.change.Set(float64(v.Snapshot.PriceChangePercent))
	}
	if v.Degraded {
		m.degraded.Set(1)
	} else {
		m.degraded.Set(0)
	}
	m.newsItems.Set(float64(len(v.News)))
	m.invested.Reset()
	m.currentValue.Reset()
	for _, p := range v.Portfolios {
		m.invested.WithLabelValues(p.Key).Set(p.TotalInvested.Decimal().InexactFloat64())
		if p.Priced {
			m.currentValue.WithLabelValues(p.Key).Set(p.TotalValue.Decimal().InexactFloat64())
		}
	}
}

// Handler returns an HTTP handler exposing the registered metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
