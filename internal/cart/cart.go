// Package cart is the storefront cart: one line per product, written through
// to a Storage on every change.
package cart

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/meat_shop/internal/quantity"
)

// Key is the storage key the cart is kept under.
const Key = "cart"

// BadKey holds the last cart blob that could not be read.
const BadKey = Key + ".bad"

var (
	ErrNonPositiveQuantity = errors.New("quantity must be greater than zero")
	ErrOutOfRange          = errors.New("quantity or price out of range")
	ErrNotInCart           = errors.New("item not in cart")
)

// Cart is owned by a single caller and is not safe for concurrent use.
type Cart struct {
	store     Storage
	items     []Item
	recovered error
}

// Open loads the cart from store. A legacy or partially invalid cart is
// cleaned up and written back in the current format. A blob that cannot be
// read at all is copied to BadKey and replaced by an empty cart; Recovered
// then reports why.
func Open(store Storage) (*Cart, error) {
	raw, found, err := store.Load(Key)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	c := &Cart{store: store, items: []Item{}}
	if !found {
		return c, nil
	}

	items, migrated, err := decode(raw)
	if errors.Is(err, ErrCorruptCart) || errors.Is(err, ErrUnsupportedVersion) {
		if sErr := store.Save(BadKey, raw); sErr != nil {
			return nil, fmt.Errorf("set aside unreadable cart: %w", sErr)
		}
		if cErr := c.commit([]Item{}); cErr != nil {
			return nil, cErr
		}
		c.recovered = err
		return c, nil
	}
	if err != nil {
		return nil, err
	}
	if migrated {
		if err := c.commit(items); err != nil {
			return nil, err
		}
		return c, nil
	}
	c.items = items
	return c, nil
}

// Recovered is the decode error of an unreadable cart that Open reset, or nil.
func (c *Cart) Recovered() error { return c.recovered }

// Items returns a copy of the cart lines in insertion order.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Len() int { return len(c.items) }

func (c *Cart) Get(id uint) (Item, bool) {
	if i := c.index(id); i >= 0 {
		return c.items[i], true
	}
	return Item{}, false
}

// GrandTotal is the sum of the line totals.
func (c *Cart) GrandTotal() decimal.Decimal {
	return GrandTotal(c.items)
}

func GrandTotal(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Total)
	}
	return sum.Round(2)
}

// AddOrUpdate replaces the line for it.ID or appends a new one.
func (c *Cart) AddOrUpdate(it Item) error {
	if !inRange(it) {
		return ErrOutOfRange
	}
	it = it.normalized()
	if !it.Quantity.IsPositive() {
		return ErrNonPositiveQuantity
	}
	next := c.Items()
	if i := c.index(it.ID); i >= 0 {
		next[i] = it
	} else {
		next = append(next, it)
	}
	return c.commit(next)
}

func (c *Cart) Remove(id uint) error {
	i := c.index(id)
	if i < 0 {
		return nil
	}
	next := make([]Item, 0, len(c.items)-1)
	next = append(next, c.items[:i]...)
	next = append(next, c.items[i+1:]...)
	return c.commit(next)
}

func (c *Cart) ClearAll() error {
	return c.commit([]Item{})
}

// SetQuantity applies free-hand input. Input that does not parse, is
// negative, or rounds to zero removes the line.
func (c *Cart) SetQuantity(id uint, raw string) error {
	i := c.index(id)
	if i < 0 {
		return ErrNotInCart
	}
	q, ok := quantity.Parse(c.items[i].Unit, raw)
	if !ok || !q.IsPositive() {
		return c.Remove(id)
	}
	return c.setAt(i, q)
}

func (c *Cart) Increment(id uint) error {
	i := c.index(id)
	if i < 0 {
		return ErrNotInCart
	}
	it := c.items[i]
	return c.setAt(i, quantity.Increment(it.Unit, it.Quantity))
}

// Decrement steps the line down by its unit step and removes it at zero.
func (c *Cart) Decrement(id uint) error {
	i := c.index(id)
	if i < 0 {
		return ErrNotInCart
	}
	it := c.items[i]
	q := quantity.Decrement(it.Unit, it.Quantity)
	if !q.IsPositive() {
		return c.Remove(id)
	}
	return c.setAt(i, q)
}

func (c *Cart) setAt(i int, q decimal.Decimal) error {
	if q.GreaterThan(quantity.MaxQuantity) {
		return ErrOutOfRange
	}
	next := c.Items()
	it := next[i]
	it.Quantity = q
	next[i] = it.normalized()
	return c.commit(next)
}

// commit saves next and only then makes it the in-memory state.
func (c *Cart) commit(next []Item) error {
	raw, err := encode(next)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := c.store.Save(Key, raw); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	c.items = next
	return nil
}

func (c *Cart) index(id uint) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}
