package dogefolio

import (
	"sort"
	"time"
)

// NewsItem is a news or discussion entry, normalized from any of the news sources.
type NewsItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"publishedAt"`
}

// SortNewest sorts items by publication time, newest first. Items published at the same
// instant keep their relative order.
func SortNewest(items []NewsItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PublishedAt.After(items[j].PublishedAt)
	})
}
