// Package seed holds the demo roster and catalog used when storage is empty.
package seed

import (
	"github.com/shopspring/decimal"

	"github.com/locallink/locallink-backend/internal/catalog"
	"github.com/locallink/locallink-backend/internal/users"
	"github.com/locallink/locallink-backend/pkg/enums"
)

// Password is shared by the demo accounts.
const Password = "password"

const (
	MerchantID = "1"
	ShopperID  = "2"
)

type hasher interface {
	Hash(password string) (string, error)
}

// Users returns the demo merchant and shopper with hashed passwords.
func Users(h hasher) ([]users.Account, error) {
	hash, err := h.Hash(Password)
	if err != nil {
		return nil, err
	}
	return []users.Account{
		{
			User:         users.User{ID: MerchantID, Name: "Local Merchant", Email: "merchant@test.com", Role: enums.UserRoleMerchant},
			PasswordHash: hash,
		},
		{
			User:         users.User{ID: ShopperID, Name: "Jane Doe", Email: "shopper@test.com", Role: enums.UserRoleShopper},
			PasswordHash: hash,
		},
	}, nil
}

// Stores returns the demo stores, all run by the demo merchant.
func Stores() []catalog.Store {
	return []catalog.Store{
		{ID: "s1", OwnerID: MerchantID, Name: "Sharma Kirana", Type: enums.StoreTypeKirana, Address: "12 Station Road", PhoneNumber: "9800000001"},
		{ID: "s2", OwnerID: MerchantID, Name: "City Threads", Type: enums.StoreTypeClothing, Address: "4 Market Lane", PhoneNumber: "9800000002"},
		{ID: "s3", OwnerID: MerchantID, Name: "Care Pharmacy", Type: enums.StoreTypeMedical, Address: "88 Hospital Road", PhoneNumber: "9800000003"},
		{ID: "s4", OwnerID: MerchantID, Name: "Fresh Oven", Type: enums.StoreTypeBakery, Address: "21 Baker Street", PhoneNumber: "9800000004"},
	}
}

// Products returns the demo catalog, denormalized against Stores.
func Products() []catalog.Product {
	byID := map[string]catalog.Store{}
	for _, s := range Stores() {
		byID[s.ID] = s
	}
	item := func(id, storeID, name, desc, price, category, distance string, stock int) catalog.Product {
		st := byID[storeID]
		return catalog.Product{
			ID:          id,
			Name:        name,
			Description: desc,
			Price:       decimal.RequireFromString(price),
			StoreType:   st.Type,
			Category:    category,
			ImageURL:    "https://picsum.photos/seed/" + id + "/400/300",
			Stock:       stock,
			StoreName:   st.Name,
			StoreID:     st.ID,
			Distance:    distance,
		}
	}
	return []catalog.Product{
		item("p1", "s1", "Basmati Rice 5kg", "Aged long grain basmati rice", "12.50", "Grains", "0.4 km", 40),
		item("p2", "s1", "Toor Dal 1kg", "Split pigeon peas", "3.20", "Pulses", "0.4 km", 60),
		item("p3", "s1", "Sunflower Oil 1L", "Refined cooking oil", "2.75", "Oils", "0.4 km", 35),
		item("p4", "s2", "Cotton Kurta", "Hand block printed cotton kurta", "18.00", "Apparel", "1.2 km", 15),
		item("p5", "s2", "Denim Jeans", "Slim fit stretch denim", "24.99", "Apparel", "1.2 km", 20),
		item("p6", "s3", "Paracetamol 500mg", "Strip of 10 tablets for fever and pain", "1.10", "Pharmacy", "0.8 km", 100),
		item("p7", "s3", "Hand Sanitizer", "70% alcohol gel, 200ml", "2.40", "Hygiene", "0.8 km", 50),
		item("p8", "s4", "Whole Wheat Bread", "Baked fresh every morning", "1.80", "Bread", "0.6 km", 25),
		item("p9", "s4", "Chocolate Cake", "Half kilo dark chocolate cake", "9.00", "Cakes", "0.6 km", 6),
	}
}
