package ingredient

import "strings"

// Category groups ingredients for purchase rounding and display.
type Category string

const (
	CategoryProduce   Category = "produce"
	CategoryProtein   Category = "protein"
	CategoryDairy     Category = "dairy"
	CategoryGrain     Category = "grain"
	CategorySpice     Category = "spice"
	CategoryCondiment Category = "condiment"
	CategoryOther     Category = "other"
)

// Ingredient identifies a purchasable ingredient. Name plus the unit's
// dimension is the identity used for deduplication: "flour, 2 lb" and
// "flour, 32 oz" resolve to the same ledger entry, while "1 lemon" and
// "30 ml lemon" stay distinct because count and volume do not convert.
type Ingredient struct {
	Name      string   `json:"name"`
	Unit      Unit     `json:"unit"`
	Category  Category `json:"category,omitempty"`
	UnitPrice float64  `json:"unit_price,omitempty"` // per base unit of the unit's dimension
}

// Key is the deduplication identity of an ingredient.
type Key struct {
	Name      string
	Dimension Dimension
}

// Canonical normalizes an ingredient name for identity comparison.
func Canonical(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// Key returns the deduplication key for the ingredient.
func (i Ingredient) Key() Key {
	return Key{
		Name:      Canonical(i.Name),
		Dimension: DimensionOf(i.Unit),
	}
}

// Quantity is an amount of an ingredient in a specific unit.
type Quantity struct {
	Amount float64 `json:"amount"`
	Unit   Unit    `json:"unit"`
}

// Base returns the quantity converted to the base unit of its dimension.
func (q Quantity) Base() float64 {
	return ToBase(q.Amount, q.Unit)
}
