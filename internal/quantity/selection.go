package quantity

import (
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/meat_shop/internal/models"
)

// Selection is the per-product quantity picked on the storefront before the
// product goes into the cart. Unset products default to one step.
type Selection struct {
	q map[uint]decimal.Decimal
}

func NewSelection() *Selection {
	return &Selection{q: map[uint]decimal.Decimal{}}
}

func (s *Selection) Get(id uint, u models.Unit) decimal.Decimal {
	if q, ok := s.q[id]; ok {
		return q
	}
	return Step(u)
}

func (s *Selection) Increment(id uint, u models.Unit) decimal.Decimal {
	return s.store(id, Increment(u, s.Get(id, u)))
}

// Decrement removes the entry once it reaches zero.
func (s *Selection) Decrement(id uint, u models.Unit) decimal.Decimal {
	return s.store(id, Decrement(u, s.Get(id, u)))
}

// Set applies free-hand input; invalid, negative or zero input clears the entry.
func (s *Selection) Set(id uint, u models.Unit, raw string) (decimal.Decimal, bool) {
	q, ok := Parse(u, raw)
	if !ok {
		delete(s.q, id)
		return decimal.Zero, false
	}
	return s.store(id, q), q.IsPositive()
}

func (s *Selection) Clear(id uint) { delete(s.q, id) }

func (s *Selection) Len() int { return len(s.q) }

func (s *Selection) store(id uint, q decimal.Decimal) decimal.Decimal {
	if !q.IsPositive() {
		delete(s.q, id)
		return decimal.Zero
	}
	s.q[id] = q
	return q
}
