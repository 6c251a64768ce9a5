package pricing

import (
	"errors"
	"fmt"
)

var ErrInvalidCategory = errors.New("invalid ticket category")

// Table maps a ticket category to its unit price. The mapping is fixed at
// construction; lookups never fall back to a default price.
type Table struct {
	prices map[string]float32
}

func NewTable(prices map[string]float32) *Table {
	m := make(map[string]float32, len(prices))
	for k, v := range prices {
		m[k] = v
	}
	return &Table{prices: m}
}

// Default returns the deployed category table.
func Default() *Table {
	return NewTable(map[string]float32{
		"STANDARD": 50,
		"VIP":      100,
		"PREMIUM":  150,
	})
}

func (t *Table) PriceFor(category string) (float32, error) {
	price, ok := t.prices[category]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrInvalidCategory, category)
	}
	return price, nil
}

func (t *Table) Categories() []string {
	keys := make([]string, 0, len(t.prices))
	for k := range t.prices {
		keys = append(keys, k)
	}
	return keys
}
