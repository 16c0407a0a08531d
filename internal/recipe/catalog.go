package recipe

import "sort"

// Catalog is a read-only, ordered snapshot of the recipe index used for
// one planning run. Recipes are held in id order so every iteration over
// the catalog is deterministic.
type Catalog struct {
	recipes []Recipe
	byID    map[string]Recipe
}

// NewCatalog builds a catalog snapshot. A duplicate id keeps the first
// occurrence; the loader validates ids before this point.
func NewCatalog(recipes []Recipe) *Catalog {
	c := &Catalog{byID: make(map[string]Recipe, len(recipes))}
	for _, r := range recipes {
		if _, exists := c.byID[r.ID]; exists {
			continue
		}
		c.byID[r.ID] = r
		c.recipes = append(c.recipes, r)
	}
	sort.Slice(c.recipes, func(i, j int) bool { return c.recipes[i].ID < c.recipes[j].ID })
	return c
}

// Recipes returns the ordered recipe list.
func (c *Catalog) Recipes() []Recipe {
	return c.recipes
}

// ByID looks up a recipe by id.
func (c *Catalog) ByID(id string) (Recipe, bool) {
	r, ok := c.byID[id]
	return r, ok
}

// Len returns the number of recipes in the catalog.
func (c *Catalog) Len() int {
	return len(c.recipes)
}
