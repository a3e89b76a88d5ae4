// Package news fetches news items from a primary source and falls back to a community feed.
package news

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"

	"github.com/etnz/dogefolio"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// Source is a provider of news items.
type Source interface {
	// Name identifies the source in logs and reports, e.g. "rss2json".
	Name() string
	// Fetch returns the normalized items in the order the source published them.
	Fetch(ctx context.Context) ([]dogefolio.NewsItem, error)
}

// Result is the outcome of a successful Feed.Fetch.
type Result struct {
	Items    []dogefolio.NewsItem `json:"items"`
	Source   string               `json:"source"`   // name of the source that served the items
	Degraded bool                 `json:"degraded"` // true when the fallback served the items
}

// Feed fetches news from Primary and, when it fails, from Fallback.
type Feed struct {
	Primary  Source
	Fallback Source
	Log      *zap.SugaredLogger
}

// Fetch runs one primary attempt and, on failure, one fallback attempt.
//
// Items are sorted newest first. Items of both sources are never mixed: either the primary
// served them, or the fallback did. When both fail the error is a *dogefolio.DegradedModeError.
func (f *Feed) Fetch(ctx context.Context) (Result, error) {
	log := f.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	items, primaryErr := f.Primary.Fetch(ctx)
	if primaryErr == nil {
		dogefolio.SortNewest(items)
		return Result{Items: items, Source: f.Primary.Name()}, nil
	}
	log.Warnw("primary news source failed, falling back", "primary", f.Primary.Name(), "error", primaryErr)

	if f.Fallback == nil {
		return Result{}, &dogefolio.DegradedModeError{Primary: primaryErr}
	}
	items, fallbackErr := f.Fallback.Fetch(ctx)
	if fallbackErr != nil {
		log.Errorw("fallback news source failed", "fallback", f.Fallback.Name(), "error", fallbackErr)
		return Result{}, &dogefolio.DegradedModeError{Primary: primaryErr, Fallback: fallbackErr}
	}
	dogefolio.SortNewest(items)
	return Result{Items: items, Source: f.Fallback.Name(), Degraded: true}, nil
}

// plainText returns the text content of an HTML fragment, entities decoded and tags dropped.
// A "<" that does not open a tag is text, e.g. "1 < 2".
func plainText(fragment string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if !errors.Is(z.Err(), io.EOF) {
				return fragment
			}
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}

// sourceOf returns the author when known, otherwise the host of link without its "www." prefix.
func sourceOf(author, link string) string {
	if a := strings.TrimSpace(author); a != "" {
		return a
	}
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
