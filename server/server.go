// Package server exposes the dashboard over HTTP: an HTML page, a JSON API and metrics.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/etnz/dogefolio"
	"github.com/etnz/dogefolio/dashboard"
	"github.com/etnz/dogefolio/renderer"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Viewer provides the current dashboard, e.g. *dashboard.Store.
type Viewer interface {
	View() dashboard.View
}

// Options configures the handler.
type Options struct {
	// Metrics, when set, is served on /metrics.
	Metrics *dashboard.Metrics
	// Refresh is the reload period of the HTML page, none when zero.
	Refresh time.Duration
	// NewsLimit is the number of news items on the HTML page, all when zero.
	NewsLimit int
	Log       *zap.SugaredLogger
}

// New returns the HTTP handler serving the dashboard of v.
func New(v Viewer, opts Options) http.Handler {
	if opts.Log == nil {
		opts.Log = zap.NewNop().Sugar()
	}
	s := &server{viewer: v, opts: opts}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(logRequests(opts.Log))

	r.Get("/", s.page)
	r.Route("/api", func(r chi.Router) {
		r.Get("/price", s.price)
		r.Get("/portfolios", s.portfolios)
		r.Get("/portfolios/{name}", s.portfolio)
		r.Get("/summary", s.summary)
		r.Get("/news", s.news)
	})
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.Handler())
	}
	return r
}

type server struct {
	viewer Viewer
	opts   Options
}

// page renders the dashboard as HTML. The portfolio shown is chosen with ?p=<key>.
func (s *server) page(w http.ResponseWriter, r *http.Request) {
	v := s.viewer.View()
	if key := r.URL.Query().Get("p"); key != "" {
		if _, ok := v.Portfolio(key); !ok {
			http.Error(w, fmt.Sprintf("unknown portfolio %q", key), http.StatusNotFound)
			return
		}
		v.Selected = key
	}
	html, err := renderer.HTMLPage(v.Pair+" dashboard", renderer.DashboardMarkdown(v, s.opts.NewsLimit), s.opts.Refresh)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, html)
}

type priceResponse struct {
	Snapshot *dogefolio.PriceSnapshot `json:"snapshot"`
	Error    string                   `json:"error,omitempty"`
}

// price returns the last snapshot, which may be stale when error is set.
func (s *server) price(w http.ResponseWriter, r *http.Request) {
	v := s.viewer.View()
	if v.Snapshot == nil {
		msg := v.PriceError
		if msg == "" {
			msg = "no price yet"
		}
		writeError(w, http.StatusServiceUnavailable, errors.New(msg))
		return
	}
	writeJSON(w, http.StatusOK, priceResponse{Snapshot: v.Snapshot, Error: v.PriceError})
}

func (s *server) portfolios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.viewer.View().Portfolios)
}

func (s *server) portfolio(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p, ok := s.viewer.View().Portfolio(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("unknown portfolio %q", name))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *server) summary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.viewer.View().Summary)
}

type newsResponse struct {
	Items    []dogefolio.NewsItem `json:"items"`
	Source   string               `json:"source,omitempty"`
	Degraded bool                 `json:"degraded"`
	Error    string               `json:"error,omitempty"`
}

func (s *server) news(w http.ResponseWriter, r *http.Request) {
	v := s.viewer.View()
	items := v.News
	if items == nil {
		items = []dogefolio.NewsItem{}
	}
	writeJSON(w, http.StatusOK, newsResponse{Items: items, Source: v.NewsSource, Degraded: v.Degraded, Error: v.NewsError})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// logRequests logs every request at debug level.
func logRequests(log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Debugw("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "elapsed", time.Since(start))
		})
	}
}
