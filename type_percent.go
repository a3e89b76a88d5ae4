package dogefolio

import "fmt"

type Percent float64

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}

// SignedString always prefixes the sign, zero included: "+0.00%".
func (p Percent) SignedString() string {
	return fmt.Sprintf("%+.2f%%", float64(p))
}
