package cart

import (
	"github.com/locallink/locallink-backend/internal/catalog"
	"github.com/shopspring/decimal"
)

// Item is a cart line: a copy of the product taken when it was first added,
// plus how many the shopper wants.
type Item struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

// LineTotal is price times quantity.
func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Summary is the cart as shown to the shopper.
type Summary struct {
	Items []Item          `json:"items"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// Total sums price times quantity over items.
func Total(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}
