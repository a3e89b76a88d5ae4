package dogefolio

// Holding is a static ownership record: some quantity of an asset acquired at a known price.
type Holding struct {
	Symbol         string   `json:"symbol"`
	Quantity       Quantity `json:"quantity"`
	BuyPrice       Money    `json:"buyPrice"`
	InvestedAmount Money    `json:"investedAmount"`
}

// NewHolding returns a holding whose invested amount is quantity × buyPrice.
func NewHolding(symbol string, quantity Quantity, buyPrice Money) Holding {
	return Holding{
		Symbol:         symbol,
		Quantity:       quantity,
		BuyPrice:       buyPrice,
		InvestedAmount: buyPrice.Mul(quantity),
	}
}

// ValuedHolding is a Holding combined with a current price.
type ValuedHolding struct {
	Holding
	CurrentValue      Money   `json:"currentValue"`
	ProfitLoss        Money   `json:"profitLoss"`
	ProfitLossPercent Percent `json:"profitLossPercent"`
}

// Value returns the holding valued at price. A zero price means the price is not known yet:
// every derived field is then zero.
func (h Holding) Value(price Money) ValuedHolding {
	if price.IsZero() {
		zero := M(0, h.InvestedAmount.Currency())
		return ValuedHolding{Holding: h, CurrentValue: zero, ProfitLoss: zero}
	}
	current := price.Mul(h.Quantity)
	pl := current.Sub(h.InvestedAmount)
	return ValuedHolding{
		Holding:           h,
		CurrentValue:      current,
		ProfitLoss:        pl,
		ProfitLossPercent: pl.PercentOf(h.InvestedAmount),
	}
}

// IsGain reports whether the holding is worth at least what was invested.
func (v ValuedHolding) IsGain() bool { return !v.ProfitLoss.IsNegative() }
