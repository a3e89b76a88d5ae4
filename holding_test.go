package dogefolio

import (
	"testing"
)

func TestHolding_Value(t *testing.T) {
	h := NewHolding("DOGE", Q(75000), USD(0.0225))
	if want := USD(1687.5); !h.InvestedAmount.Equal(want) {
		t.Fatalf("InvestedAmount = %v, want %v", h.InvestedAmount, want)
	}

	v := h.Value(USD(0.025))
	if want := USD(1875); !v.CurrentValue.Equal(want) {
		t.Errorf("CurrentValue = %v, want %v", v.CurrentValue, want)
	}
	if want := USD(187.5); !v.ProfitLoss.Equal(want) {
		t.Errorf("ProfitLoss = %v, want %v", v.ProfitLoss, want)
	}
	if want := Percent(11.1111); !v.ProfitLossPercent.Equal(want) {
		t.Errorf("ProfitLossPercent = %v, want %v", v.ProfitLossPercent, want)
	}
	if !v.IsGain() {
		t.Error("IsGain() = false, want true")
	}
}

func TestHolding_ValueWithoutPrice(t *testing.T) {
	v := NewHolding("DOGE", Q(75000), USD(0.0225)).Value(USD(0))
	if !v.CurrentValue.IsZero() || !v.ProfitLoss.IsZero() || v.ProfitLossPercent != 0 {
		t.Errorf("Value(0) = %+v, want zero derived fields", v)
	}
	if v.InvestedAmount.IsZero() {
		t.Error("the invested amount must be kept")
	}
}

func TestHolding_ZeroInvested(t *testing.T) {
	// the source may provide the invested amount directly, possibly zero.
	h := Holding{Symbol: "DOGE", Quantity: Q(100), BuyPrice: USD(0.02), InvestedAmount: USD(0)}
	v := h.Value(USD(0.03))
	if v.ProfitLossPercent != 0 {
		t.Errorf("ProfitLossPercent = %v, want 0", v.ProfitLossPercent)
	}
	if want := USD(3); !v.ProfitLoss.Equal(want) {
		t.Errorf("ProfitLoss = %v, want %v", v.ProfitLoss, want)
	}
}

func TestHolding_PercentIdentity(t *testing.T) {
	// profitLossPercent * invested / 100 == profitLoss, within rounding.
	for _, price := range []float64{0.001, 0.0225, 0.025, 0.3, 7} {
		h := NewHolding("DOGE", Q(45000), USD(0.0275))
		v := h.Value(USD(price))
		got := float64(v.ProfitLossPercent) * h.InvestedAmount.Decimal().InexactFloat64() / 100
		want := v.ProfitLoss.Decimal().InexactFloat64()
		if d := got - want; d > 1e-6 || d < -1e-6 {
			t.Errorf("price %v: percent * invested = %v, want %v", price, got, want)
		}
	}
}
