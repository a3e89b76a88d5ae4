// Package renderer renders the dashboard as markdown, for the terminal or as HTML.
package renderer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/etnz/dogefolio"
	"github.com/etnz/dogefolio/dashboard"
	md "github.com/nao1215/markdown"
)

// PriceMarkdown renders the header stats: price and 24h change, high, low and volume.
func PriceMarkdown(v dashboard.View) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2(pairTitle(v.Pair, v.Asset))
	if v.PriceError != "" {
		doc.Blockquote(md.Bold(v.PriceError))
	}
	s := v.Snapshot
	if s == nil {
		if v.Loading() {
			doc.PlainText("Loading...")
		}
		return doc.String()
	}

	trend := "▼"
	if s.IsRising() {
		trend = "▲"
	}
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
		},
		Header: []string{
			md.Bold("Price"),
			md.Bold(dogefolio.FormatPrice(s.Price)),
		},
		Rows: [][]string{
			{"24h Change", fmt.Sprintf("%s %s", trend, dogefolio.FormatPercent(s.PriceChangePercent))},
			{"24h High", dogefolio.FormatPrice(s.HighPrice)},
			{"24h Low", dogefolio.FormatPrice(s.LowPrice)},
			{"24h Volume", dogefolio.FormatVolume(s.Volume) + " " + v.Asset},
		},
	})
	doc.PlainText(md.Italic("Updated " + dogefolio.TimeAgo(v.Now, s.ObservedAt)))
	return doc.String()
}

// pairTitle returns "DOGE/USDT" for pair "DOGEUSDT" and asset "DOGE".
func pairTitle(pair, asset string) string {
	if quote, ok := strings.CutPrefix(pair, asset); ok && quote != "" {
		return asset + "/" + quote
	}
	return pair
}
