// Package estimate implements quote arithmetic over the price master:
// markup-rate unit pricing, line totals, and tax.
package estimate

import (
	"fmt"
	"math"
)

// PriceItem is a price-master entry. UnitCost is the raw cost per unit;
// MarkupRate is the fractional markup applied to produce the customer price
// (0.25 = 25%).
type PriceItem struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Unit       string  `json:"unit"`
	UnitCost   float64 `json:"unit_cost"`
	MarkupRate float64 `json:"markup_rate"`
}

// UnitPrice returns the customer-facing unit price: cost marked up and rounded
// to a whole currency unit.
func (p PriceItem) UnitPrice() int64 {
	return int64(math.Round(p.UnitCost * (1 + p.MarkupRate)))
}

// LineItem is one estimate row.
type LineItem struct {
	Item     PriceItem
	Quantity float64
	Note     string
}

// Amount returns the line total: unit price times quantity, rounded.
func (l LineItem) Amount() int64 {
	return int64(math.Round(float64(l.Item.UnitPrice()) * l.Quantity))
}

// Estimate is a quote: ordered line items plus a tax rate.
type Estimate struct {
	ID          string
	ProjectID   string
	Title       string
	Lines       []LineItem
	TaxRate     float64 // Fractional, e.g. 0.10
}

// AddLine appends a line item for the given price item and quantity.
func (e *Estimate) AddLine(item PriceItem, qty float64, note string) {
	e.Lines = append(e.Lines, LineItem{Item: item, Quantity: qty, Note: note})
}

// Subtotal returns the sum of line amounts before tax.
func (e *Estimate) Subtotal() int64 {
	var sum int64
	for _, l := range e.Lines {
		sum += l.Amount()
	}
	return sum
}

// Tax returns the tax on the subtotal, rounded down to a whole currency unit.
func (e *Estimate) Tax() int64 {
	return int64(math.Floor(float64(e.Subtotal()) * e.TaxRate))
}

// Total returns subtotal plus tax.
func (e *Estimate) Total() int64 {
	return e.Subtotal() + e.Tax()
}

// PriceMaster provides lookup over price items.
type PriceMaster struct {
	items []PriceItem
	byID  map[string]PriceItem
}

// NewPriceMaster builds a price master. Later duplicates replace earlier
// entries so config-supplied items override built-ins.
func NewPriceMaster(items []PriceItem) *PriceMaster {
	m := &PriceMaster{byID: make(map[string]PriceItem)}
	for _, item := range items {
		if _, exists := m.byID[item.ID]; exists {
			for i := range m.items {
				if m.items[i].ID == item.ID {
					m.items[i] = item
					break
				}
			}
		} else {
			m.items = append(m.items, item)
		}
		m.byID[item.ID] = item
	}
	return m
}

// Get returns the price item with the given ID.
func (m *PriceMaster) Get(id string) (PriceItem, error) {
	item, ok := m.byID[id]
	if !ok {
		return PriceItem{}, fmt.Errorf("price item %q not found", id)
	}
	return item, nil
}

// List returns all items in master order.
func (m *PriceMaster) List() []PriceItem {
	return append([]PriceItem(nil), m.items...)
}
