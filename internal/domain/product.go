package domain

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindRegular    Kind = "regular"
	KindPerishable Kind = "perishable"
)

// Near-expiry clearance: perishables with this many days left or fewer
// sell at ClearanceRate of their price.
const (
	ClearanceDays = 3
	ClearanceRate = 0.5
)

// Priceable is anything that can report the price it sells for.
type Priceable interface {
	FinalPrice() float64
}

// Item is a product held by an Inventory.
type Item interface {
	Priceable
	SKU() string
	Name() string
	Price() float64
	SetPrice(value float64) error
	Kind() Kind
	// Expiry reports the expiry date, or false for products that never expire.
	Expiry() (Date, bool)
	IsExpired() bool
	String() string
}

// Product is a regular catalog item. Its final price is its price.
type Product struct {
	sku   string
	name  string
	price float64
}

func NewProduct(sku, name string, initialPrice float64) (*Product, error) {
	p := &Product{sku: sku, name: name}
	if err := p.SetPrice(initialPrice); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Product) SKU() string    { return p.sku }
func (p *Product) Name() string   { return p.name }
func (p *Product) Price() float64 { return p.price }
func (p *Product) Kind() Kind     { return KindRegular }

func (p *Product) Expiry() (Date, bool) { return Date{}, false }
func (p *Product) IsExpired() bool      { return false }

// SetPrice stores value rounded to two decimals. Negative and
// non-finite values are rejected and leave the price unchanged.
func (p *Product) SetPrice(value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return &ValidationError{Field: "price", Value: value, Reason: "must be a finite number"}
	}
	if value < 0 {
		return &ValidationError{Field: "price", Value: value, Reason: "cannot be negative"}
	}
	p.price = Round2(value)
	return nil
}

func (p *Product) FinalPrice() float64 {
	return p.price
}

func (p *Product) String() string {
	return fmt.Sprintf("%s (%s) - %.2f$", p.name, p.sku, p.price)
}

// PerishableProduct is a Product with an expiry date. Its final price
// depends on the current date and is recomputed on every call.
type PerishableProduct struct {
	Product
	expiry Date
	clock  Clock
}

type PerishableOption func(*PerishableProduct)

// WithClock sets the time source used for expiry checks.
func WithClock(clock Clock) PerishableOption {
	return func(p *PerishableProduct) {
		if clock != nil {
			p.clock = clock
		}
	}
}

func NewPerishableProduct(sku, name string, initialPrice float64, expiry Date, opts ...PerishableOption) (*PerishableProduct, error) {
	p := &PerishableProduct{
		Product: Product{sku: sku, name: name},
		expiry:  expiry,
		clock:   SystemClock,
	}
	if err := p.SetPrice(initialPrice); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *PerishableProduct) Kind() Kind { return KindPerishable }

func (p *PerishableProduct) Expiry() (Date, bool) { return p.expiry, true }

// ExpiryDate returns the last day the product is sellable.
func (p *PerishableProduct) ExpiryDate() Date { return p.expiry }

// IsExpired reports whether today is strictly after the expiry date.
func (p *PerishableProduct) IsExpired() bool {
	return p.clock.Today().After(p.expiry)
}

// DaysLeft is the number of days until expiry, negative once expired.
func (p *PerishableProduct) DaysLeft() int {
	return p.clock.Today().DaysUntil(p.expiry)
}

func (p *PerishableProduct) FinalPrice() float64 {
	if p.IsExpired() {
		return 0
	}
	if p.DaysLeft() <= ClearanceDays {
		return round2(decimal.NewFromFloat(p.price).Mul(decimal.NewFromFloat(ClearanceRate)))
	}
	return p.price
}

// Round2 rounds value to two decimal places, half away from zero on
// the shortest decimal form of value: 0.125 gives 0.13 and 2.675 gives
// 2.68, where banker's rounding on the binary float would give 0.12
// and 2.67.
func Round2(value float64) float64 {
	return round2(decimal.NewFromFloat(value))
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// ComparePrice orders items by price ascending. Items with equal prices
// compare equal even when their SKUs differ.
func ComparePrice(a, b Item) int {
	return cmp.Compare(a.Price(), b.Price())
}

// SortByPrice sorts items in place by ascending price, keeping the
// relative order of equally priced items.
func SortByPrice(items []Item) {
	slices.SortStableFunc(items, ComparePrice)
}
