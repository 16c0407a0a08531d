package ingredient

import "math"

// RoundingPolicy maps an ingredient category to a purchase increment in
// base units. A deficit is rounded up to the next increment before it is
// priced, modelling the smallest purchasable pack for that category.
// Categories without an increment are purchased in the exact amount.
type RoundingPolicy map[Category]float64

// DefaultRoundingPolicy purchases exact amounts for every category.
func DefaultRoundingPolicy() RoundingPolicy {
	return RoundingPolicy{}
}

// RoundUp returns the purchase amount for a deficit under the policy.
func (p RoundingPolicy) RoundUp(cat Category, deficit float64) float64 {
	if deficit <= 0 {
		return 0
	}
	inc, ok := p[cat]
	if !ok || inc <= 0 {
		return deficit
	}
	packs := math.Ceil(deficit/inc - 1e-9)
	return packs * inc
}
