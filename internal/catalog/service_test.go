package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/locallink/locallink-backend/internal/state"
	"github.com/locallink/locallink-backend/internal/users"
	"github.com/locallink/locallink-backend/pkg/blobstore"
	"github.com/locallink/locallink-backend/pkg/enums"
	pkgerrors "github.com/locallink/locallink-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

var (
	merchant = users.User{ID: "m1", Name: "Ravi", Role: enums.UserRoleMerchant}
	rival    = users.User{ID: "m2", Name: "Other", Role: enums.UserRoleMerchant}
	shopper  = users.User{ID: "s1", Name: "Jane", Role: enums.UserRoleShopper}
)

func fixtureStores() []Store {
	return []Store{
		{ID: "st1", OwnerID: "m1", Name: "Ravi Kirana", Type: enums.StoreTypeKirana, Address: "Lane 1"},
		{ID: "st2", OwnerID: "m2", Name: "Step Up", Type: enums.StoreTypeShoes, Address: "Lane 2"},
	}
}

func fixtureProducts() []Product {
	return []Product{
		{ID: "p1", Name: "Basmati Rice", Description: "Long grain", Price: decimal.NewFromInt(120), StoreType: enums.StoreTypeKirana, Category: "Grocery", StoreID: "st1", StoreName: "Ravi Kirana", Stock: 10},
		{ID: "p2", Name: "Running Shoes", Description: "Lightweight", Price: decimal.NewFromInt(2500), StoreType: enums.StoreTypeShoes, Category: "Footwear", StoreID: "st2", StoreName: "Step Up", Stock: 3},
		{ID: "p3", Name: "Toor Dal", Description: "Split pigeon peas", Price: decimal.NewFromInt(90), StoreType: enums.StoreTypeKirana, Category: "Pulses", StoreID: "st1", StoreName: "Ravi Kirana", Stock: 5},
		{ID: "p4", Name: "Rice Flour", Description: "Fine ground", Price: decimal.NewFromInt(60), StoreType: enums.StoreTypeKirana, Category: "Grocery", StoreID: "st1", StoreName: "Ravi Kirana", Stock: 7},
	}
}

type harness struct {
	svc   Service
	repo  *Repository
	store *blobstore.Memory
}

func newHarness(t *testing.T) harness {
	t.Helper()
	ctx := context.Background()
	mem := blobstore.NewMemory()
	m, err := state.NewMirror(mem, nil, nil)
	if err != nil {
		t.Fatalf("mirror: %v", err)
	}
	products, err := state.LoadCollection(ctx, m, state.KeyProducts, fixtureProducts)
	if err != nil {
		t.Fatalf("products: %v", err)
	}
	stores, err := state.LoadCollection(ctx, m, state.KeyStores, fixtureStores)
	if err != nil {
		t.Fatalf("stores: %v", err)
	}
	repo, err := NewRepository(products, stores)
	if err != nil {
		t.Fatalf("repo: %v", err)
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	seq := 0
	svc.(*service).newID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	return harness{svc: svc, repo: repo, store: mem}
}

func ids(products []Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func assertIDs(t *testing.T, got []Product, want ...string) {
	t.Helper()
	g := ids(got)
	if len(g) != len(want) {
		t.Fatalf("expected %v, got %v", want, g)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, g)
		}
	}
}

func TestNewServiceRequiresRepo(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error creating service without repo")
	}
}

func TestListProductsStoreTypeAndCategory(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	assertIDs(t, h.svc.ListProducts(ctx, ListFilter{}), "p1", "p2", "p3", "p4")
	assertIDs(t, h.svc.ListProducts(ctx, ListFilter{StoreType: "All", Category: "all"}), "p1", "p2", "p3", "p4")
	assertIDs(t, h.svc.ListProducts(ctx, ListFilter{StoreType: "Kirana"}), "p1", "p3", "p4")
	assertIDs(t, h.svc.ListProducts(ctx, ListFilter{StoreType: "Kirana", Category: "Grocery"}), "p1", "p4")
}

func TestListProductsQueryIsCaseInsensitiveSubstring(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	assertIDs(t, h.svc.ListProducts(ctx, ListFilter{Query: "RICE"}), "p1", "p4")
	assertIDs(t, h.svc.ListProducts(ctx, ListFilter{Query: "pigeon"}), "p3")
	assertIDs(t, h.svc.ListProducts(ctx, ListFilter{Query: "footwear"}), "p2")
}

func TestListProductsStoreDrillDownIgnoresStoreType(t *testing.T) {
	h := newHarness(t)
	got := h.svc.ListProducts(context.Background(), ListFilter{StoreID: "st1", StoreType: "Shoes", Category: "Grocery"})
	assertIDs(t, got, "p1", "p4")
}

func TestListProductsHighlightWins(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	got := h.svc.ListProducts(ctx, ListFilter{Highlight: []string{"p2", "p3"}, StoreType: "Kirana", StoreID: "st1", Category: "Grocery"})
	assertIDs(t, got, "p2", "p3")

	got = h.svc.ListProducts(ctx, ListFilter{Highlight: []string{"p2", "p3"}, Query: "dal"})
	assertIDs(t, got, "p3")
}

func TestCategoriesDistinctSorted(t *testing.T) {
	h := newHarness(t)
	got := h.svc.Categories(context.Background())
	want := []string{"Footwear", "Grocery", "Pulses"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestAddProductDenormalizesStore(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	p, err := h.svc.AddProduct(ctx, merchant, ProductInput{Name: " Jaggery ", Price: decimal.RequireFromString("45.50"), Category: "Grocery", Stock: 4})
	if err != nil {
		t.Fatalf("add product: %v", err)
	}
	if p.StoreID != "st1" || p.StoreName != "Ravi Kirana" || p.StoreType != enums.StoreTypeKirana {
		t.Fatalf("store fields not derived: %+v", p)
	}
	if p.Name != "Jaggery" {
		t.Fatalf("expected trimmed name, got %q", p.Name)
	}
	all := h.svc.ListProducts(ctx, ListFilter{})
	if all[len(all)-1].ID != p.ID {
		t.Fatalf("new product should be appended last")
	}
}

func TestAddProductRejections(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if _, err := h.svc.AddProduct(ctx, shopper, ProductInput{Name: "x"}); !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("shopper should be forbidden, got %v", err)
	}
	if _, err := h.svc.AddProduct(ctx, merchant, ProductInput{Name: "x", StoreID: "st2"}); !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("foreign store should be forbidden, got %v", err)
	}
	if _, err := h.svc.AddProduct(ctx, merchant, ProductInput{Name: "x", Price: decimal.NewFromInt(-1)}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("negative price should fail validation, got %v", err)
	}
	if _, err := h.svc.AddProduct(ctx, users.User{ID: "m9", Role: enums.UserRoleMerchant}, ProductInput{Name: "x"}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("merchant without store should fail validation, got %v", err)
	}
}

func TestUpdateStoreResyncsProducts(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	updated, err := h.svc.UpdateStore(ctx, merchant, "st1", StoreInput{Name: "Ravi General", Type: enums.StoreTypeGeneral, Address: "Lane 9"})
	if err != nil {
		t.Fatalf("update store: %v", err)
	}
	if updated.OwnerID != "m1" {
		t.Fatalf("owner must be preserved")
	}
	for _, p := range h.svc.ListProducts(ctx, ListFilter{StoreID: "st1"}) {
		if p.StoreName != "Ravi General" || p.StoreType != enums.StoreTypeGeneral {
			t.Fatalf("product %s not resynced: %+v", p.ID, p)
		}
	}
	other, _ := h.svc.GetProduct(ctx, "p2")
	if other.StoreName != "Step Up" {
		t.Fatalf("products of other stores must be untouched")
	}

	raw, err := h.store.Get(ctx, state.KeyProducts)
	if err != nil {
		t.Fatalf("read mirrored products: %v", err)
	}
	if !strings.Contains(string(raw), "Ravi General") {
		t.Fatalf("resync should be mirrored, got %s", raw)
	}
}

func TestUpdateStoreRejections(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	input := StoreInput{Name: "X", Type: enums.StoreTypeGeneral}

	if _, err := h.svc.UpdateStore(ctx, rival, "st1", input); !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := h.svc.UpdateStore(ctx, merchant, "nope", input); !errors.Is(err, ErrStoreNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := h.svc.UpdateStore(ctx, merchant, "st1", StoreInput{Name: "X", Type: "Jewellery"}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateDefaultStore(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	st, err := h.svc.CreateDefaultStore(ctx, users.User{ID: "m7", Name: "Asha", Role: enums.UserRoleMerchant})
	if err != nil {
		t.Fatalf("default store: %v", err)
	}
	if st.Name != "Asha's Store" || st.Type != enums.StoreTypeGeneral || st.Address != "Main Market" || st.PhoneNumber != "" {
		t.Fatalf("unexpected default store %+v", st)
	}
	if owned := h.svc.StoresByOwner(ctx, "m7"); len(owned) != 1 {
		t.Fatalf("expected exactly one store for new merchant, got %d", len(owned))
	}
}

func TestAddStoreAndListStores(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	if _, err := h.svc.AddStore(ctx, merchant, StoreInput{Name: "Ravi Meds", Type: enums.StoreTypeMedical}); err != nil {
		t.Fatalf("add store: %v", err)
	}
	if got := h.svc.StoresByOwner(ctx, "m1"); len(got) != 2 {
		t.Fatalf("expected two stores for m1, got %d", len(got))
	}
	if got := h.svc.ListStores(ctx, "medical"); len(got) != 1 {
		t.Fatalf("expected one medical store, got %d", len(got))
	}
	if got := h.svc.ListStores(ctx, ""); len(got) != 3 {
		t.Fatalf("expected all stores, got %d", len(got))
	}
}
