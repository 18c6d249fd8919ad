// Package cart holds a browsing session's cart lines and prices them under the storefront
// promotion. All money is in cents.
//
// A Cart is not safe for concurrent use; the session store serializes access per session.
package cart

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidQuantity is returned when an add asks for fewer than one unit.
	ErrInvalidQuantity = errors.New("cart: quantity must be at least 1")
	// ErrInvalidProduct is returned when the product has no slug or a negative price.
	ErrInvalidProduct = errors.New("cart: invalid product")
)

// Product is what the storefront knows about a design when it is added.
type Product struct {
	Slug      string
	Name      string
	UnitPrice int64
	Image     string
}

// Line is one cart entry. Lines are keyed by Slug and PhoneModel; a nil model and a set model
// are different keys.
type Line struct {
	Slug       string  `json:"slug"`
	Name       string  `json:"name"`
	UnitPrice  int64   `json:"unitPrice"`
	Image      string  `json:"image,omitempty"`
	Quantity   int     `json:"quantity"`
	PhoneModel *string `json:"phoneModel,omitempty"`
}

func (l Line) matches(slug string, phoneModel *string) bool {
	if l.Slug != slug {
		return false
	}
	if l.PhoneModel == nil || phoneModel == nil {
		return l.PhoneModel == nil && phoneModel == nil
	}
	return *l.PhoneModel == *phoneModel
}

// Summary bundles every aggregate computed from one pricing pass.
type Summary struct {
	Lines         []PricedLine `json:"lines"`
	ItemCount     int          `json:"itemCount"`
	Subtotal      int64        `json:"subtotal"`
	PromoSubtotal int64        `json:"promoSubtotal"`
	TotalDiscount int64        `json:"totalDiscount"`
	Open          bool         `json:"open"`
}

// Cart is an ordered list of lines plus the drawer's open flag.
type Cart struct {
	lines     []Line
	open      bool
	promotion Promotion
}

// Option customises a Cart.
type Option func(*Cart)

// WithPromotion replaces the default promotion.
func WithPromotion(p Promotion) Option {
	return func(c *Cart) {
		if p != nil {
			c.promotion = p
		}
	}
}

// New returns an empty, closed cart.
func New(opts ...Option) *Cart {
	c := &Cart{promotion: DefaultPromotion}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Add puts quantity units of product on the line keyed by (slug, phoneModel), appending a new
// line when none exists. A blank phone model counts as none. Add opens the cart.
func (c *Cart) Add(p Product, phoneModel *string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	slug := strings.TrimSpace(p.Slug)
	if slug == "" || p.UnitPrice < 0 {
		return ErrInvalidProduct
	}
	model := normalizeModel(phoneModel)

	for i := range c.lines {
		if c.lines[i].matches(slug, model) {
			c.lines[i].Quantity += quantity
			c.open = true
			return nil
		}
	}
	c.lines = append(c.lines, Line{
		Slug:       slug,
		Name:       strings.TrimSpace(p.Name),
		UnitPrice:  p.UnitPrice,
		Image:      strings.TrimSpace(p.Image),
		Quantity:   quantity,
		PhoneModel: model,
	})
	c.open = true
	return nil
}

// Remove deletes the line for slug and phoneModel. A nil (or blank) phoneModel removes every
// line for slug. It returns how many lines were removed.
func (c *Cart) Remove(slug string, phoneModel *string) int {
	slug = strings.TrimSpace(slug)
	model := normalizeModel(phoneModel)
	kept := c.lines[:0]
	removed := 0
	for _, line := range c.lines {
		drop := line.Slug == slug && (model == nil || (line.PhoneModel != nil && *line.PhoneModel == *model))
		if drop {
			removed++
			continue
		}
		kept = append(kept, line)
	}
	clear(c.lines[len(kept):])
	c.lines = kept
	return removed
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// SetOpen records whether the cart drawer is shown.
func (c *Cart) SetOpen(open bool) {
	c.open = open
}

// IsOpen reports the drawer flag.
func (c *Cart) IsOpen() bool {
	return c.open
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	for i, line := range c.lines {
		out[i] = line
		if line.PhoneModel != nil {
			model := *line.PhoneModel
			out[i].PhoneModel = &model
		}
	}
	return out
}

// Len is the number of lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// ItemCount is the total number of units.
func (c *Cart) ItemCount() int {
	n := 0
	for _, line := range c.lines {
		n += line.Quantity
	}
	return n
}

// Subtotal is the promotion-free total.
func (c *Cart) Subtotal() int64 {
	var total int64
	for _, line := range c.lines {
		total += line.UnitPrice * int64(line.Quantity)
	}
	return total
}

// PricedItems prices every line under the promotion.
func (c *Cart) PricedItems() []PricedLine {
	return c.promotion.Price(c.Lines())
}

// PromoSubtotal is the sum of effective line totals.
func (c *Cart) PromoSubtotal() int64 {
	var total int64
	for _, line := range c.PricedItems() {
		total += line.EffectiveTotal
	}
	return total
}

// TotalDiscount is Subtotal minus PromoSubtotal.
func (c *Cart) TotalDiscount() int64 {
	return c.Subtotal() - c.PromoSubtotal()
}

// Summary computes every aggregate from a single pricing pass.
func (c *Cart) Summary() Summary {
	priced := c.PricedItems()
	s := Summary{Lines: priced, Open: c.open}
	for _, line := range priced {
		s.ItemCount += line.Quantity
		s.Subtotal += line.BaseTotal
		s.PromoSubtotal += line.EffectiveTotal
	}
	s.TotalDiscount = s.Subtotal - s.PromoSubtotal
	return s
}

func normalizeModel(model *string) *string {
	if model == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*model)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
