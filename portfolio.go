package dogefolio

// Portfolio is a named, ordered set of holdings.
type Portfolio struct {
	Key      string    `json:"key"` // lowercase identifier, e.g. "harshi"
	Name     string    `json:"name"`
	Holdings []Holding `json:"holdings"`
}

// ValuedPortfolio is a Portfolio valued at a given price. It is rebuilt on every price tick.
type ValuedPortfolio struct {
	Key                string          `json:"key"`
	Name               string          `json:"name"`
	Holdings           []ValuedHolding `json:"holdings"`
	Priced             bool            `json:"priced"` // false when no price was available
	TotalInvested      Money           `json:"totalInvested"`
	TotalValue         Money           `json:"totalValue"`
	TotalChange        Money           `json:"totalChange"`
	TotalChangePercent Percent         `json:"totalChangePercent"`
}

// ValuePortfolio values every holding of p at price.
//
// A zero price stands for "no snapshot yet": the result is then a valid portfolio whose derived
// fields are all zero. It never fails.
func ValuePortfolio(p Portfolio, price Money) ValuedPortfolio {
	vp := ValuedPortfolio{
		Key:      p.Key,
		Name:     p.Name,
		Holdings: make([]ValuedHolding, 0, len(p.Holdings)),
		Priced:   !price.IsZero(),
	}
	for _, h := range p.Holdings {
		vh := h.Value(price)
		vp.Holdings = append(vp.Holdings, vh)
		vp.TotalInvested = vp.TotalInvested.Add(h.InvestedAmount)
		vp.TotalValue = vp.TotalValue.Add(vh.CurrentValue)
	}
	if !vp.Priced {
		// totals stay at zero, as do the holdings.
		vp.TotalValue = M(0, vp.TotalInvested.Currency())
		vp.TotalChange = vp.TotalValue
		return vp
	}
	vp.TotalChange = vp.TotalValue.Sub(vp.TotalInvested)
	vp.TotalChangePercent = vp.TotalChange.PercentOf(vp.TotalInvested)
	return vp
}

// ValuePortfolios values each portfolio at the same price, keeping their order.
func ValuePortfolios(ps []Portfolio, price Money) []ValuedPortfolio {
	res := make([]ValuedPortfolio, 0, len(ps))
	for _, p := range ps {
		res = append(res, ValuePortfolio(p, price))
	}
	return res
}

// Summary is the cross-portfolio aggregate.
type Summary struct {
	Priced                 bool    `json:"priced"`
	TotalInvested          Money   `json:"totalInvested"`
	TotalCurrent           Money   `json:"totalCurrent"`
	TotalProfitLoss        Money   `json:"totalProfitLoss"`
	TotalProfitLossPercent Percent `json:"totalProfitLossPercent"`
}

// Aggregate sums the invested amount of every holding and the current value of every
// portfolio. The reduction is order independent.
//
// If any portfolio is not priced, the current value and profit/loss are reported as zero
// rather than as a loss of the whole investment.
func Aggregate(vps ...ValuedPortfolio) Summary {
	s := Summary{Priced: len(vps) > 0}
	for _, vp := range vps {
		s = s.merge(vp.summary())
	}
	return s.settle()
}

// summary returns the partial aggregate of a single portfolio.
func (vp ValuedPortfolio) summary() Summary {
	s := Summary{Priced: vp.Priced}
	for _, h := range vp.Holdings {
		s.TotalInvested = s.TotalInvested.Add(h.InvestedAmount)
	}
	s.TotalCurrent = vp.TotalValue
	return s
}

// merge combines two partial aggregates. It is associative and commutative.
func (s Summary) merge(o Summary) Summary {
	return Summary{
		Priced:        s.Priced && o.Priced,
		TotalInvested: s.TotalInvested.Add(o.TotalInvested),
		TotalCurrent:  s.TotalCurrent.Add(o.TotalCurrent),
	}
}

// settle derives profit/loss from the summed totals.
func (s Summary) settle() Summary {
	if !s.Priced {
		s.TotalCurrent = M(0, s.TotalInvested.Currency())
		s.TotalProfitLoss = s.TotalCurrent
		s.TotalProfitLossPercent = 0
		return s
	}
	s.TotalProfitLoss = s.TotalCurrent.Sub(s.TotalInvested)
	s.TotalProfitLossPercent = s.TotalProfitLoss.PercentOf(s.TotalInvested)
	return s
}
