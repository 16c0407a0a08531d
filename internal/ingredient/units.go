package ingredient

import "strings"

// Unit is a unit of measure as it appears in recipes and pantry entries.
type Unit string

// Dimension is the physical dimension a unit measures. Units that are not
// in the conversion table get their own dimension named after the unit, so
// "pinch of saffron" never silently merges with a gram-denominated entry.
type Dimension string

const (
	Mass   Dimension = "mass"
	Volume Dimension = "volume"
	Count  Dimension = "count"
)

// Base units: grams for mass, milliliters for volume, pieces for count.
// The kitchen-unit factors are internally consistent (1 lb = 16 oz,
// 1 cup = 16 tbsp = 48 tsp) so the same physical amount expressed in
// different units always converts to the same base amount.
const (
	gramsPerOunce = 28.3495
	mlPerTsp      = 5
)

type conversion struct {
	dim    Dimension
	factor float64
}

var unitTable = map[Unit]conversion{
	"g":     {Mass, 1},
	"kg":    {Mass, 1000},
	"oz":    {Mass, gramsPerOunce},
	"lb":    {Mass, 16 * gramsPerOunce},
	"ml":    {Volume, 1},
	"l":     {Volume, 1000},
	"tsp":   {Volume, mlPerTsp},
	"tbsp":  {Volume, 3 * mlPerTsp},
	"cup":   {Volume, 48 * mlPerTsp},
	"fl oz": {Volume, 6 * mlPerTsp},
	"piece": {Count, 1},
	"can":   {Count, 1},
	"clove": {Count, 1},
	"slice": {Count, 1},
	"bunch": {Count, 1},
}

var unitAliases = map[Unit]Unit{
	"gram":        "g",
	"grams":       "g",
	"kilogram":    "kg",
	"kilograms":   "kg",
	"ounce":       "oz",
	"ounces":      "oz",
	"pound":       "lb",
	"pounds":      "lb",
	"lbs":         "lb",
	"milliliter":  "ml",
	"milliliters": "ml",
	"liter":       "l",
	"liters":      "l",
	"teaspoon":    "tsp",
	"teaspoons":   "tsp",
	"tablespoon":  "tbsp",
	"tablespoons": "tbsp",
	"cups":        "cup",
	"pieces":      "piece",
	"pcs":         "piece",
	"cans":        "can",
	"cloves":      "clove",
	"slices":      "slice",
	"":            "piece",
}

// NormalizeUnit maps spelled-out and plural unit names onto table units.
func NormalizeUnit(u Unit) Unit {
	u = Unit(strings.TrimSpace(strings.ToLower(string(u))))
	if alias, ok := unitAliases[u]; ok {
		return alias
	}
	return u
}

// DimensionOf returns the dimension a unit measures. Unknown units are
// their own dimension with a conversion factor of one.
func DimensionOf(u Unit) Dimension {
	if c, ok := unitTable[NormalizeUnit(u)]; ok {
		return c.dim
	}
	return Dimension(NormalizeUnit(u))
}

// ToBase converts an amount in the given unit to the base unit of the
// unit's dimension.
func ToBase(amount float64, u Unit) float64 {
	if c, ok := unitTable[NormalizeUnit(u)]; ok {
		return amount * c.factor
	}
	return amount
}

// BaseUnit returns the display unit for a dimension's base amounts.
func BaseUnit(d Dimension) Unit {
	switch d {
	case Mass:
		return "g"
	case Volume:
		return "ml"
	case Count:
		return "piece"
	}
	return Unit(d)
}
