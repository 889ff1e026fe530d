package domain

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Inventory is an ordered, in-memory collection of items. It does not
// enforce SKU uniqueness; callers that need unique SKUs check Contains
// before Add. Inventory is not safe for concurrent use.
type Inventory struct {
	items []Item
	onAdd func(Item)
}

type InventoryOption func(*Inventory)

// WithAddObserver registers fn to be called after every Add.
func WithAddObserver(fn func(Item)) InventoryOption {
	return func(inv *Inventory) {
		inv.onAdd = fn
	}
}

func NewInventory(opts ...InventoryOption) *Inventory {
	inv := &Inventory{}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Add appends item, preserving insertion order.
func (inv *Inventory) Add(item Item) {
	inv.items = append(inv.items, item)
	if inv.onAdd != nil {
		inv.onAdd(item)
	}
}

// Remove deletes the first item with the given SKU.
func (inv *Inventory) Remove(sku string) error {
	idx := inv.indexOf(sku)
	if idx < 0 {
		return &ProductNotFoundError{SKU: sku}
	}
	inv.items = slices.Delete(inv.items, idx, idx+1)
	return nil
}

// All returns a copy of the items in insertion order.
func (inv *Inventory) All() []Item {
	out := make([]Item, len(inv.items))
	copy(out, inv.items)
	return out
}

// Expired returns the perishable items that are expired as of today,
// in insertion order.
func (inv *Inventory) Expired() []Item {
	out := make([]Item, 0)
	for _, item := range inv.items {
		if item.IsExpired() {
			out = append(out, item)
		}
	}
	return out
}

// TotalValue sums the final price of every item, rounded to two decimals.
func (inv *Inventory) TotalValue() float64 {
	total := decimal.Zero
	for _, item := range inv.items {
		total = total.Add(decimal.NewFromFloat(item.FinalPrice()))
	}
	return total.Round(2).InexactFloat64()
}

// Find returns the first item with the given SKU.
func (inv *Inventory) Find(sku string) (Item, bool) {
	idx := inv.indexOf(sku)
	if idx < 0 {
		return nil, false
	}
	return inv.items[idx], true
}

func (inv *Inventory) Contains(sku string) bool {
	return inv.indexOf(sku) >= 0
}

func (inv *Inventory) Len() int {
	return len(inv.items)
}

func (inv *Inventory) indexOf(sku string) int {
	return slices.IndexFunc(inv.items, func(item Item) bool {
		return item.SKU() == sku
	})
}
