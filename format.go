package dogefolio

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// PriceDigits is the number of fractional digits used to display prices.
const PriceDigits = 6

// FormatPrice formats a price in its currency with exactly six fractional digits, e.g. "$0.022500".
func FormatPrice(m Money) string { return m.Format(PriceDigits) }

// FormatPercent formats a percentage with an explicit sign and two digits, e.g. "+3.76%".
func FormatPercent(p Percent) string { return p.SignedString() }

// compact suffixes in en-US short notation.
var compactUnits = []struct {
	exp    float64
	suffix string
}{
	{1e12, "T"},
	{1e9, "B"},
	{1e6, "M"},
	{1e3, "K"},
}

// FormatVolume formats a quantity in en-US compact notation with at most one fractional digit:
// 999 -> "999", 1234 -> "1.2K", 1000000 -> "1M", 2.5e9 -> "2.5B".
func FormatVolume(q Quantity) string {
	v := q.InexactFloat64()
	sign := ""
	if v < 0 {
		sign, v = "-", -v
	}
	for i, u := range compactUnits {
		if v < u.exp {
			continue
		}
		scaled := roundTo1(v / u.exp)
		// 999.96K rounds to 1000K, which reads as 1M.
		if scaled >= 1000 && i > 0 {
			scaled, u = roundTo1(v/compactUnits[i-1].exp), compactUnits[i-1]
		}
		return sign + trim1(scaled) + u.suffix
	}
	scaled := roundTo1(v)
	if scaled >= 1000 {
		return sign + "1K"
	}
	return sign + trim1(scaled)
}

func roundTo1(v float64) float64 { return math.Round(v*10) / 10 }

// trim1 prints v with one fractional digit, dropping a trailing ".0".
func trim1(v float64) string {
	return strings.TrimSuffix(strconv.FormatFloat(v, 'f', 1, 64), ".0")
}

// time buckets, coarsest first.
var ageUnits = []struct {
	seconds int64
	name    string
}{
	{31536000, "year"},
	{2592000, "month"},
	{86400, "day"},
	{3600, "hour"},
	{60, "minute"},
}

// TimeAgo returns the age of t relative to now, e.g. "3 hours ago".
//
// The coarsest unit that fits at least once is used, floored, and pluralized above one.
// Anything under a minute, including instants in the future, reads in seconds with a minimum of 1.
func TimeAgo(now, t time.Time) string {
	seconds := int64(math.Floor(now.Sub(t).Seconds()))
	for _, u := range ageUnits {
		if n := seconds / u.seconds; n >= 1 {
			return plural(n, u.name) + " ago"
		}
	}
	return plural(max(1, seconds), "second") + " ago"
}

func plural(n int64, unit string) string {
	if n > 1 {
		return fmt.Sprintf("%d %ss", n, unit)
	}
	return fmt.Sprintf("%d %s", n, unit)
}
