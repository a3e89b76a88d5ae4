package renderer

import (
	"bytes"

	"github.com/etnz/dogefolio"
	md "github.com/nao1215/markdown"
)

// SummaryMarkdown renders the profit/loss of every portfolio and the total across them.
func SummaryMarkdown(vps []dogefolio.ValuedPortfolio, s dogefolio.Summary) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2("Summary")

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Portfolio", "Invested", "Value", "P/L", "P/L %"},
		Rows:   [][]string{},
	}
	for _, p := range vps {
		table.Rows = append(table.Rows, []string{
			p.Name,
			p.TotalInvested.String(),
			valueOrDash(p.Priced, p.TotalValue.String()),
			valueOrDash(p.Priced, p.TotalChange.SignedString()),
			valueOrDash(p.Priced, dogefolio.FormatPercent(p.TotalChangePercent)),
		})
	}
	table.Rows = append(table.Rows, []string{
		md.Bold("Total"),
		md.Bold(s.TotalInvested.String()),
		md.Bold(valueOrDash(s.Priced, s.TotalCurrent.String())),
		md.Bold(valueOrDash(s.Priced, s.TotalProfitLoss.SignedString())),
		md.Bold(valueOrDash(s.Priced, dogefolio.FormatPercent(s.TotalProfitLossPercent))),
	})
	doc.Table(table)

	return doc.String()
}
