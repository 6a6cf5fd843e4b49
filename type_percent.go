package tienda

import "fmt"

// Percent is a percentage, 54.5 means 54.5%.
type Percent float64

// Equal compares percentages up to 1e-4.
func (p Percent) Equal(q Percent) bool {
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

// String formats the percentage with one decimal, as the shop reads it.
func (p Percent) String() string {
	return fmt.Sprintf("%.1f%%", float64(p))
}
