package models

import (
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/money"
)

type Variant struct {
	Size  string `json:"size,omitempty"`
	Color string `json:"color,omitempty"`
}

// CartLine holds the unit price captured when the product was added.
type CartLine struct {
	ProductID int64       `json:"product_id"`
	Name      string      `json:"name,omitempty"`
	UnitPrice money.Money `json:"unit_price"`
	Quantity  int         `json:"quantity"`
	Variant   Variant     `json:"variant"`
}

func (l CartLine) Total() money.Money {
	return l.UnitPrice.Multiply(int64(l.Quantity))
}

func (l CartLine) matches(productID int64, variant Variant) bool {
	return l.ProductID == productID && l.Variant == variant
}

// Cart is owned by a single session and is passed explicitly into pricing
// and order creation.
type Cart struct {
	SessionID string     `json:"session_id"`
	Currency  string     `json:"currency"`
	Items     []CartLine `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func NewCart(sessionID, currency string) *Cart {
	return &Cart{
		SessionID: sessionID,
		Currency:  money.New(0, currency).Currency,
		Items:     []CartLine{},
	}
}

// AddItem merges into the line with the same (product, size, color) key.
func (c *Cart) AddItem(productID int64, name string, unitPrice money.Money, quantity int, variant Variant) error {

	if quantity < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}

	if c.Currency == "" {
		c.Currency = unitPrice.Currency
	}

	if !unitPrice.Equal(money.New(unitPrice.Amount, c.Currency)) {
		return fmt.Errorf("%w: cart is %s, item is %s", money.ErrCurrencyMismatch, c.Currency, unitPrice.Currency)
	}

	for i := range c.Items {
		if c.Items[i].matches(productID, variant) {
			c.Items[i].Quantity += quantity
			c.touch()
			return nil
		}
	}

	c.Items = append(c.Items, CartLine{
		ProductID: productID,
		Name:      name,
		UnitPrice: unitPrice,
		Quantity:  quantity,
		Variant:   variant,
	})
	c.touch()

	return nil
}

// RemoveItem is a no-op when the line is absent.
func (c *Cart) RemoveItem(productID int64, variant Variant) {

	kept := c.Items[:0]
	for _, line := range c.Items {
		if !line.matches(productID, variant) {
			kept = append(kept, line)
		}
	}

	if len(kept) != len(c.Items) {
		c.Items = kept
		c.touch()
	}
}

// SetQuantity replaces the quantity of a line; quantity <= 0 removes it.
func (c *Cart) SetQuantity(productID int64, variant Variant, quantity int) error {

	for i := range c.Items {
		if !c.Items[i].matches(productID, variant) {
			continue
		}

		if quantity <= 0 {
			c.RemoveItem(productID, variant)
			return nil
		}

		c.Items[i].Quantity = quantity
		c.touch()

		return nil
	}

	return ErrLineNotFound
}

// Subtotal is recomputed from the lines on every call.
func (c *Cart) Subtotal() money.Money {

	total := money.Zero(c.Currency)
	for _, line := range c.Items {
		total = money.New(total.Amount+line.Total().Amount, c.Currency)
	}

	return total
}

func (c *Cart) Clear() {
	c.Items = []CartLine{}
	c.touch()
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) Lines() []CartLine {
	lines := make([]CartLine, len(c.Items))
	copy(lines, c.Items)

	return lines
}

func (c *Cart) Clone() *Cart {
	clone := *c
	clone.Items = c.Lines()

	return &clone
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now().UTC()
}

type CartItemRequest struct {
	ProductID int64  `json:"product_id" validate:"required,gt=0"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
	Size      string `json:"size,omitempty" validate:"max=32"`
	Color     string `json:"color,omitempty" validate:"max=32"`
}

type UpdateQuantityRequest struct {
	ProductID int64  `json:"product_id" validate:"required,gt=0"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty" validate:"max=32"`
	Color     string `json:"color,omitempty" validate:"max=32"`
}

type RemoveItemRequest struct {
	ProductID int64  `json:"product_id" validate:"required,gt=0"`
	Size      string `json:"size,omitempty" validate:"max=32"`
	Color     string `json:"color,omitempty" validate:"max=32"`
}

type CartResponse struct {
	Cart     *Cart       `json:"cart"`
	Subtotal money.Money `json:"subtotal"`
	Display  string      `json:"subtotal_display"`
}

func NewCartResponse(c *Cart) *CartResponse {
	subtotal := c.Subtotal()

	return &CartResponse{Cart: c, Subtotal: subtotal, Display: subtotal.String()}
}
