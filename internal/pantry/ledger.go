package pantry

import (
	"errors"
	"fmt"
	"sort"

	"concierge-chef/internal/ingredient"
)

// ErrConflictingEntry reports a duplicate (name, dimension) key in raw
// pantry input. Duplicates are a load-time error, never a silent
// overwrite.
var ErrConflictingEntry = errors.New("conflicting pantry entry")

// Entry is one ingredient quantity on hand.
type Entry struct {
	Ingredient ingredient.Ingredient `json:"ingredient"`
	Quantity   ingredient.Quantity   `json:"quantity"`
}

// Ledger answers on-hand quantity queries over an immutable snapshot of
// pantry entries. Quantities are normalized to base units at load time.
// The planning core never writes to the ledger; refreshing stock between
// runs is the repository's job.
type Ledger struct {
	entries map[ingredient.Key]Entry
	keys    []ingredient.Key
}

// NewLedger builds a ledger from raw entries, normalizing quantities to
// base units. Two entries resolving to the same key fail with
// ErrConflictingEntry.
func NewLedger(entries []Entry) (*Ledger, error) {
	l := &Ledger{entries: make(map[ingredient.Key]Entry, len(entries))}
	for _, e := range entries {
		key := e.Ingredient.Key()
		if _, exists := l.entries[key]; exists {
			return nil, fmt.Errorf("%w: %q (%s)", ErrConflictingEntry, e.Ingredient.Name, key.Dimension)
		}
		normalized := e
		normalized.Quantity = ingredient.Quantity{
			Amount: e.Quantity.Base(),
			Unit:   ingredient.BaseUnit(key.Dimension),
		}
		l.entries[key] = normalized
		l.keys = append(l.keys, key)
	}
	sort.Slice(l.keys, func(i, j int) bool {
		if l.keys[i].Name != l.keys[j].Name {
			return l.keys[i].Name < l.keys[j].Name
		}
		return l.keys[i].Dimension < l.keys[j].Dimension
	})
	return l, nil
}

// QuantityOf returns the on-hand amount for the ingredient in base
// units. Unknown ingredients are zero.
func (l *Ledger) QuantityOf(ing ingredient.Ingredient) float64 {
	if e, ok := l.entries[ing.Key()]; ok {
		return e.Quantity.Amount
	}
	return 0
}

// Snapshot returns the normalized entries ordered by key.
func (l *Ledger) Snapshot() []Entry {
	out := make([]Entry, 0, len(l.keys))
	for _, k := range l.keys {
		out = append(out, l.entries[k])
	}
	return out
}
