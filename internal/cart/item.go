package cart

import (
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/meat_shop/internal/models"
	"github.com/Skotchmaster/meat_shop/internal/quantity"
)

type Item struct {
	ID       uint             `json:"id"`
	Label    string           `json:"label"`
	Price    decimal.Decimal  `json:"price"`
	Quantity decimal.Decimal  `json:"quantity"`
	Total    decimal.Decimal  `json:"total"`
	Unit     models.Unit      `json:"unit"`
	Category *models.Category `json:"category,omitempty"`
}

// FromProduct builds a cart line for q units of p.
func FromProduct(p models.Product, q decimal.Decimal) Item {
	cat := p.Category
	it := Item{
		ID:       p.ID,
		Label:    p.Label,
		Price:    p.PricePerUnit,
		Quantity: q,
		Unit:     p.Unit,
	}
	if cat.ID != 0 {
		it.Category = &cat
	}
	return it.normalized()
}

// LineTotal is round(quantity * price, 2).
func LineTotal(q, price decimal.Decimal) decimal.Decimal {
	return q.Mul(price).Round(2)
}

func (it Item) normalized() Item {
	if it.Unit == "" {
		it.Unit = models.UnitKg
	}
	it.Quantity = quantity.Normalize(it.Unit, it.Quantity)
	it.Total = LineTotal(it.Quantity, it.Price)
	return it
}

// inRange reports whether the price fits the price column and the quantity
// stays under quantity.MaxQuantity. Values with absurd exponents fail both.
func inRange(it Item) bool {
	return !it.Price.IsNegative() &&
		models.Bounded(it.Price, models.MaxPrice) &&
		models.Bounded(it.Quantity, quantity.MaxQuantity)
}
