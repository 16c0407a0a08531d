package recipe

import (
	"slices"
	"strings"

	"concierge-chef/internal/ingredient"
)

// Requirement is one quantified ingredient a recipe needs.
type Requirement struct {
	Ingredient ingredient.Ingredient `json:"ingredient"`
	Quantity   ingredient.Quantity   `json:"quantity"`
}

// Recipe is an immutable catalog entry.
type Recipe struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Requirements []Requirement `json:"requirements"`
	Tags         []string      `json:"tags,omitempty"`
	Diets        []string      `json:"diets,omitempty"`
	PrepMinutes  int           `json:"prep_minutes,omitempty"`
	Servings     int           `json:"servings"`
}

// HasDiet reports whether the recipe carries the dietary flag.
func (r Recipe) HasDiet(diet string) bool {
	return slices.ContainsFunc(r.Diets, func(d string) bool {
		return strings.EqualFold(d, diet)
	})
}

// HasTag reports whether the recipe carries the tag.
func (r Recipe) HasTag(tag string) bool {
	return slices.ContainsFunc(r.Tags, func(t string) bool {
		return strings.EqualFold(t, tag)
	})
}

// Uses reports whether the recipe requires the named ingredient.
func (r Recipe) Uses(name string) bool {
	canonical := ingredient.Canonical(name)
	return slices.ContainsFunc(r.Requirements, func(req Requirement) bool {
		return ingredient.Canonical(req.Ingredient.Name) == canonical
	})
}

// ServingFactor is the linear scale from the recipe's base serving
// count to the household serving count. Missing serving counts scale
// by one.
func (r Recipe) ServingFactor(servings int) float64 {
	if servings <= 0 || r.Servings <= 0 {
		return 1
	}
	return float64(servings) / float64(r.Servings)
}

// EstimatedCost is the full ingredient cost of cooking the recipe once
// at its base serving count, in reference prices.
func (r Recipe) EstimatedCost() float64 {
	var total float64
	for _, req := range r.Requirements {
		total += req.Quantity.Base() * req.Ingredient.UnitPrice
	}
	return total
}
