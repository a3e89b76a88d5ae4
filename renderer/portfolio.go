package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/dogefolio"
	md "github.com/nao1215/markdown"
)

// PortfolioMarkdown renders the holdings of a portfolio and its totals.
func PortfolioMarkdown(p dogefolio.ValuedPortfolio) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2(fmt.Sprintf("%s's Portfolio", p.Name))

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Asset", "Quantity", "Buy Price", "Invested", "Value", "P/L", "P/L %"},
		Rows:   [][]string{},
	}
	for _, h := range p.Holdings {
		table.Rows = append(table.Rows, []string{
			h.Symbol,
			h.Quantity.String(),
			dogefolio.FormatPrice(h.BuyPrice),
			h.InvestedAmount.String(),
			valueOrDash(p.Priced, h.CurrentValue.String()),
			valueOrDash(p.Priced, h.ProfitLoss.SignedString()),
			valueOrDash(p.Priced, dogefolio.FormatPercent(h.ProfitLossPercent)),
		})
	}
	if len(p.Holdings) > 1 {
		table.Rows = append(table.Rows, []string{
			md.Bold("Total"),
			"",
			"",
			md.Bold(p.TotalInvested.String()),
			md.Bold(valueOrDash(p.Priced, p.TotalValue.String())),
			md.Bold(valueOrDash(p.Priced, p.TotalChange.SignedString())),
			md.Bold(valueOrDash(p.Priced, dogefolio.FormatPercent(p.TotalChangePercent))),
		})
	}
	doc.Table(table)

	return doc.String()
}

// valueOrDash hides figures that are only zero because no price is known yet.
func valueOrDash(priced bool, s string) string {
	if !priced {
		return "-"
	}
	return s
}
