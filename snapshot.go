package dogefolio

import (
	"errors"
	"time"
)

// PriceSnapshot is a point-in-time read of the market data of a trading pair.
//
// It is built once from the spot price and the 24h statistics and never modified;
// a newer read replaces it wholesale.
type PriceSnapshot struct {
	Symbol             string    `json:"symbol"`
	Price              Money     `json:"price"`
	PriceChangePercent Percent   `json:"priceChangePercent"`
	Volume             Quantity  `json:"volume"`
	HighPrice          Money     `json:"highPrice"`
	LowPrice           Money     `json:"lowPrice"`
	ObservedAt         time.Time `json:"observedAt"`
}

// NewPriceSnapshot validates and returns a snapshot. The price must be strictly positive.
func NewPriceSnapshot(symbol string, price Money, change Percent, volume Quantity, high, low Money, at time.Time) (PriceSnapshot, error) {
	if symbol == "" {
		return PriceSnapshot{}, &SchemaError{Source: "snapshot", Field: "symbol", Err: errors.New("empty symbol")}
	}
	if !price.IsPositive() {
		return PriceSnapshot{}, &SchemaError{Source: "snapshot", Field: "price", Err: errors.New("price must be positive, got " + price.Decimal().String())}
	}
	if volume.IsNegative() {
		return PriceSnapshot{}, &SchemaError{Source: "snapshot", Field: "volume", Err: errors.New("negative volume")}
	}
	return PriceSnapshot{
		Symbol:             symbol,
		Price:              price,
		PriceChangePercent: change,
		Volume:             volume,
		HighPrice:          high,
		LowPrice:           low,
		ObservedAt:         at,
	}, nil
}

// IsRising reports whether the 24h change is positive or flat.
func (s PriceSnapshot) IsRising() bool { return s.PriceChangePercent >= 0 }
