package catalog

import (
	"strings"

	"github.com/locallink/locallink-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Product is a sellable item listed by a store.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	StoreType   enums.StoreType `json:"storeType"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"imageUrl"`
	Stock       int             `json:"stock"`
	StoreName   string          `json:"storeName,omitempty"`
	StoreID     string          `json:"storeId,omitempty"`
	Distance    string          `json:"distance,omitempty"`
}

// Store is a merchant's shop.
type Store struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"ownerId"`
	Name        string          `json:"name"`
	Type        enums.StoreType `json:"type"`
	Address     string          `json:"address"`
	PhoneNumber string          `json:"phoneNumber"`
}

// ProductInput carries the merchant-supplied fields of a new product.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	ImageURL    string
	Stock       int
	StoreID     string
	Distance    string
}

// StoreInput carries the editable fields of a store.
type StoreInput struct {
	Name        string
	Type        enums.StoreType
	Address     string
	PhoneNumber string
}

// AnyValue is the sentinel the browse UI sends for "no constraint".
const AnyValue = "all"

// ListFilter narrows ListProducts. Empty fields do not constrain.
type ListFilter struct {
	StoreType string
	Category  string
	StoreID   string
	Query     string
	Highlight []string
}

func isAny(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, AnyValue)
}

// matches applies the browse precedence: a non-empty highlight set wins,
// then a store drill-down, then the store-type view.
func (f ListFilter) matches(p Product, highlight map[string]struct{}) bool {
	if !f.matchesQuery(p) {
		return false
	}
	if len(highlight) > 0 {
		_, ok := highlight[p.ID]
		return ok
	}
	if !isAny(f.Category) && p.Category != strings.TrimSpace(f.Category) {
		return false
	}
	if storeID := strings.TrimSpace(f.StoreID); storeID != "" {
		return p.StoreID == storeID
	}
	return isAny(f.StoreType) || strings.EqualFold(string(p.StoreType), strings.TrimSpace(f.StoreType))
}

func (f ListFilter) matchesQuery(p Product) bool {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Description), q) ||
		strings.Contains(strings.ToLower(p.Category), q)
}

func (f ListFilter) highlightSet() map[string]struct{} {
	if len(f.Highlight) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(f.Highlight))
	for _, id := range f.Highlight {
		if id = strings.TrimSpace(id); id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}
