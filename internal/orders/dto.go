package orders

import (
	"github.com/locallink/locallink-backend/internal/cart"
	"github.com/locallink/locallink-backend/internal/users"
	"github.com/locallink/locallink-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Order is a placed checkout. Items and Total are frozen at checkout time.
type Order struct {
	ID            string              `json:"id"`
	Items         []cart.Item         `json:"items"`
	Total         decimal.Decimal     `json:"total"`
	Status        enums.OrderStatus   `json:"status"`
	Timestamp     int64               `json:"timestamp"`
	CustomerID    string              `json:"customerId,omitempty"`
	CustomerName  string              `json:"customerName"`
	Address       string              `json:"address"`
	PhoneNumber   string              `json:"phoneNumber"`
	PaymentMethod enums.PaymentMethod `json:"paymentMethod"`
}

// BelongsTo reports whether the order was placed by u. Rows written before
// customerId existed are matched by name.
func (o Order) BelongsTo(u users.User) bool {
	if o.CustomerID != "" {
		return o.CustomerID == u.ID
	}
	return o.CustomerName == u.Name
}

// HasStore reports whether any line item comes from one of storeIDs.
func (o Order) HasStore(storeIDs map[string]struct{}) bool {
	for _, item := range o.Items {
		if _, ok := storeIDs[item.StoreID]; ok {
			return true
		}
	}
	return false
}

// CheckoutInput is the delivery form.
type CheckoutInput struct {
	Address       string
	PhoneNumber   string
	PaymentMethod enums.PaymentMethod
}
