package marketplace

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/locallink/locallink-backend/internal/catalog"
	"github.com/locallink/locallink-backend/internal/messages"
	"github.com/locallink/locallink-backend/internal/orders"
	"github.com/locallink/locallink-backend/internal/recommendations"
	"github.com/locallink/locallink-backend/internal/session"
	"github.com/locallink/locallink-backend/internal/state"
	"github.com/locallink/locallink-backend/internal/users"
	"github.com/locallink/locallink-backend/pkg/blobstore"
	"github.com/locallink/locallink-backend/pkg/config"
	"github.com/locallink/locallink-backend/pkg/enums"
	pkgerrors "github.com/locallink/locallink-backend/pkg/errors"
	"github.com/locallink/locallink-backend/pkg/security"
	"github.com/shopspring/decimal"
)

var testHasher = security.NewHasher(config.PasswordConfig{
	ArgonMemoryKB:    64,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
})

func newMarketplace(t *testing.T, store blobstore.Store) *Marketplace {
	t.Helper()
	m, err := New(context.Background(), store, Options{Hasher: testHasher})
	if err != nil {
		t.Fatalf("new marketplace: %v", err)
	}
	return m
}

func login(t *testing.T, m *Marketplace, email string) users.User {
	t.Helper()
	u, err := m.Login(context.Background(), email, "password")
	if err != nil {
		t.Fatalf("login %s: %v", email, err)
	}
	return *u
}

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}
func (brokenStore) Set(context.Context, string, []byte) error {
	return errors.New("connection refused")
}
func (brokenStore) Ping(context.Context) error { return errors.New("connection refused") }

func TestNewSeedsEmptyStore(t *testing.T) {
	m := newMarketplace(t, blobstore.NewMemory())
	ctx := context.Background()

	if got := len(m.ListProducts(ctx, catalog.ListFilter{})); got == 0 {
		t.Fatal("expected seeded products")
	}
	u := login(t, m, "merchant@test.com")
	if u.ID != "1" || u.Role != enums.UserRoleMerchant {
		t.Fatalf("unexpected seed merchant %+v", u)
	}
	if m.Preferences(ctx).DarkMode {
		t.Fatal("dark mode should default off")
	}
}

func TestNewRequiresHasher(t *testing.T) {
	if _, err := New(context.Background(), blobstore.NewMemory(), Options{}); err == nil {
		t.Fatal("expected error without hasher")
	}
}

func TestNewFailsWhenStoreUnreachable(t *testing.T) {
	_, err := New(context.Background(), brokenStore{}, Options{Hasher: testHasher})
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestMalformedBlobFallsBackToSeed(t *testing.T) {
	mem := blobstore.NewMemory()
	ctx := context.Background()
	if err := mem.Set(ctx, state.KeyProducts, []byte("{not json")); err != nil {
		t.Fatalf("set: %v", err)
	}

	m := newMarketplace(t, mem)
	if got := len(m.ListProducts(ctx, catalog.ListFilter{})); got == 0 {
		t.Fatal("malformed products blob should fall back to seed data")
	}
}

func TestOperationsRequireSession(t *testing.T) {
	m := newMarketplace(t, blobstore.NewMemory())
	ctx := context.Background()

	if _, err := m.Checkout(ctx, orders.CheckoutInput{Address: "a", PhoneNumber: "1"}); !errors.Is(err, ErrNoSession) {
		t.Fatalf("checkout: expected no session, got %v", err)
	}
	if _, err := m.SendMessage(ctx, "1", "hello"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("send: expected no session, got %v", err)
	}
	if _, err := m.CurrentUser(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("current: expected no session, got %v", err)
	}
}

func TestShopperCheckoutFlow(t *testing.T) {
	mem := blobstore.NewMemory()
	m := newMarketplace(t, mem)
	ctx := context.Background()
	login(t, m, "shopper@test.com")

	product := m.ListProducts(ctx, catalog.ListFilter{})[0]
	for i := 0; i < 2; i++ {
		if _, err := m.AddToCart(ctx, product.ID); err != nil {
			t.Fatalf("add to cart: %v", err)
		}
	}
	summary := m.Cart(ctx)
	if summary.Count != 2 || !summary.Total.Equal(product.Price.Mul(decimal.NewFromInt(2))) {
		t.Fatalf("unexpected cart %+v", summary)
	}

	order, err := m.Checkout(ctx, orders.CheckoutInput{Address: "7 Hill St", PhoneNumber: "555", PaymentMethod: enums.PaymentMethodGooglePay})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if m.Cart(ctx).Count != 0 {
		t.Fatal("cart should be empty after checkout")
	}
	mine, err := m.MyOrders(ctx)
	if err != nil || len(mine) != 1 || mine[0].ID != order.ID {
		t.Fatalf("unexpected orders %+v (%v)", mine, err)
	}
	latest, err := m.LatestOrder(ctx)
	if err != nil || latest == nil || latest.ID != order.ID {
		t.Fatalf("unexpected latest order %+v (%v)", latest, err)
	}
	raw, err := mem.Get(ctx, state.KeyOrders)
	if err != nil || !strings.Contains(string(raw), order.ID) {
		t.Fatalf("order should be mirrored, got %s (%v)", raw, err)
	}
}

func TestAddToCartUnknownProduct(t *testing.T) {
	m := newMarketplace(t, blobstore.NewMemory())
	if _, err := m.AddToCart(context.Background(), "missing"); !errors.Is(err, catalog.ErrProductNotFound) {
		t.Fatalf("expected product not found, got %v", err)
	}
}

func TestMerchantRegistrationAndStoreResync(t *testing.T) {
	m := newMarketplace(t, blobstore.NewMemory())
	ctx := context.Background()

	u, err := m.Register(ctx, session.RegisterInput{Name: "Asha", Email: "asha@test.com", Password: "pw", Role: enums.UserRoleMerchant})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	stores, err := m.MyStores(ctx)
	if err != nil || len(stores) != 1 {
		t.Fatalf("expected one default store, got %+v (%v)", stores, err)
	}
	if stores[0].Name != "Asha's Store" || stores[0].Type != enums.StoreTypeGeneral || stores[0].OwnerID != u.ID {
		t.Fatalf("unexpected default store %+v", stores[0])
	}

	product, err := m.AddProduct(ctx, catalog.ProductInput{Name: "Masala Chai", Price: decimal.NewFromInt(3), Category: "Tea"})
	if err != nil {
		t.Fatalf("add product: %v", err)
	}
	if product.StoreID != stores[0].ID {
		t.Fatalf("product should land in the default store, got %q", product.StoreID)
	}

	if _, err := m.UpdateStore(ctx, stores[0].ID, catalog.StoreInput{Name: "Asha Tea House", Type: enums.StoreTypeBakery, Address: "1 Lane"}); err != nil {
		t.Fatalf("update store: %v", err)
	}
	got, err := m.GetProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if got.StoreName != "Asha Tea House" || got.StoreType != enums.StoreTypeBakery {
		t.Fatalf("product not resynced: %+v", got)
	}
}

func TestRegisterRejectsTakenEmail(t *testing.T) {
	m := newMarketplace(t, blobstore.NewMemory())
	_, err := m.Register(context.Background(), session.RegisterInput{Name: "X", Email: "SHOPPER@test.com", Password: "pw", Role: enums.UserRoleShopper})
	if !errors.Is(err, users.ErrEmailTaken) {
		t.Fatalf("expected email taken, got %v", err)
	}
}

func TestLogoutKeepsStoredCartButNotLiveCart(t *testing.T) {
	mem := blobstore.NewMemory()
	m := newMarketplace(t, mem)
	ctx := context.Background()
	login(t, m, "shopper@test.com")
	product := m.ListProducts(ctx, catalog.ListFilter{})[0]
	if _, err := m.AddToCart(ctx, product.ID); err != nil {
		t.Fatalf("add: %v", err)
	}

	m.Logout(ctx)
	if m.Cart(ctx).Count != 0 {
		t.Fatal("live cart should be empty after logout")
	}
	if _, err := m.CurrentUser(); !errors.Is(err, ErrNoSession) {
		t.Fatal("expected no session after logout")
	}

	restarted := newMarketplace(t, mem)
	if restarted.Cart(ctx).Count != 1 {
		t.Fatal("stored cart should survive logout and be restored on restart")
	}
}

func TestLoginStillAppliesWhenCallerGivesUp(t *testing.T) {
	m, err := New(context.Background(), blobstore.NewMemory(), Options{Hasher: testHasher, AuthLatency: 30 * time.Millisecond})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	if _, err := m.Login(ctx, "shopper@test.com", "password"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if u, err := m.CurrentUser(); err == nil {
			if u.ID != "2" {
				t.Fatalf("unexpected user %+v", u)
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("login never applied")
}

func TestMessagingBetweenShopperAndMerchant(t *testing.T) {
	m := newMarketplace(t, blobstore.NewMemory())
	ctx := context.Background()

	login(t, m, "shopper@test.com")
	if _, err := m.SendMessage(ctx, "1", "Is the rice in stock?"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := m.SendMessage(ctx, "1", "   "); !errors.Is(err, messages.ErrEmptyMessageBody) {
		t.Fatalf("expected empty body, got %v", err)
	}
	m.Logout(ctx)

	login(t, m, "merchant@test.com")
	inbox, err := m.Inbox(ctx)
	if err != nil {
		t.Fatalf("inbox: %v", err)
	}
	if inbox.ReceivedCount != 1 || len(inbox.Contacts) != 1 || inbox.Contacts[0].Name != "Jane Doe" {
		t.Fatalf("unexpected inbox %+v", inbox)
	}
	thread, err := m.Conversation(ctx, "2")
	if err != nil || len(thread) != 1 || thread[0].SenderName != "Jane Doe" {
		t.Fatalf("unexpected thread %+v (%v)", thread, err)
	}
}

func TestMerchantOrdersAndStatus(t *testing.T) {
	m := newMarketplace(t, blobstore.NewMemory())
	ctx := context.Background()

	login(t, m, "shopper@test.com")
	product := m.ListProducts(ctx, catalog.ListFilter{})[0]
	_, _ = m.AddToCart(ctx, product.ID)
	order, err := m.Checkout(ctx, orders.CheckoutInput{Address: "a", PhoneNumber: "1"})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if _, err := m.MerchantOrders(ctx, true); !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("shoppers must not see merchant orders, got %v", err)
	}
	m.Logout(ctx)

	login(t, m, "merchant@test.com")
	list, err := m.MerchantOrders(ctx, false)
	if err != nil || len(list) != 1 {
		t.Fatalf("expected the order in the merchant view, got %+v (%v)", list, err)
	}
	updated, err := m.UpdateOrderStatus(ctx, order.ID, enums.OrderStatusPreparing)
	if err != nil || updated.Status != enums.OrderStatusPreparing {
		t.Fatalf("unexpected update %+v (%v)", updated, err)
	}
}

func TestRecommendUsesKeywordFallbackWithoutRemote(t *testing.T) {
	m := newMarketplace(t, blobstore.NewMemory())
	result, err := m.Recommend(context.Background(), "bread")
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if len(result.IDs) == 0 || result.Hint != "" {
		t.Fatalf("expected a match for bread, got %+v", result)
	}

	result, err = m.Recommend(context.Background(), "spaceship")
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if result.Hint != recommendations.NoMatchHint {
		t.Fatalf("expected hint, got %+v", result)
	}
}

func TestSetDarkModeSurvivesRestart(t *testing.T) {
	mem := blobstore.NewMemory()
	ctx := context.Background()
	if _, err := newMarketplace(t, mem).SetDarkMode(ctx, true); err != nil {
		t.Fatalf("set dark mode: %v", err)
	}
	if !newMarketplace(t, mem).Preferences(ctx).DarkMode {
		t.Fatal("dark mode should persist")
	}
}

func TestFlushRewritesEveryKey(t *testing.T) {
	mem := blobstore.NewMemory()
	m := newMarketplace(t, mem)
	ctx := context.Background()
	if err := m.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}
	for _, key := range []string{state.KeyUsers, state.KeyProducts, state.KeyStores, state.KeyOrders, state.KeyMessages, state.KeyCart, state.KeyDarkMode} {
		if _, err := mem.Get(ctx, key); err != nil {
			t.Fatalf("key %s not written: %v", key, err)
		}
	}
}
