// Package marketplace wires the session, catalog, cart, order ledger,
// message log and preferences into one handle. A single mutex serializes
// every state change so each operation runs to completion before the next
// starts.
package marketplace

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/locallink/locallink-backend/internal/cart"
	"github.com/locallink/locallink-backend/internal/catalog"
	"github.com/locallink/locallink-backend/internal/messages"
	"github.com/locallink/locallink-backend/internal/orders"
	"github.com/locallink/locallink-backend/internal/preferences"
	"github.com/locallink/locallink-backend/internal/recommendations"
	"github.com/locallink/locallink-backend/internal/seed"
	"github.com/locallink/locallink-backend/internal/session"
	"github.com/locallink/locallink-backend/internal/state"
	"github.com/locallink/locallink-backend/internal/users"
	"github.com/locallink/locallink-backend/pkg/blobstore"
	"github.com/locallink/locallink-backend/pkg/logger"
	"github.com/locallink/locallink-backend/pkg/metrics"
)

// ErrNoSession is returned by operations that need a signed-in user.
var ErrNoSession = session.ErrNoSession

// DefaultAuthLatency is the simulated delay of login and signup.
const DefaultAuthLatency = 800 * time.Millisecond

type passwordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) bool
}

// Options configures a Marketplace. Hasher is required; everything else
// has a usable zero value.
type Options struct {
	Hasher            passwordHasher
	AuthLatency       time.Duration
	StrictTransitions bool
	Recommender       recommendations.Recommender
	Fallback          recommendations.Recommender
	Logger            *logger.Logger
	Metrics           *metrics.MarketplaceMetrics
}

// Marketplace is the application core.
type Marketplace struct {
	mu sync.Mutex

	logg        *logger.Logger
	metrics     *metrics.MarketplaceMetrics
	mirror      *state.Mirror
	authLatency time.Duration
	flushers    []state.Flusher

	users           *users.Repository
	session         session.Service
	catalog         catalog.Service
	cart            cart.Service
	orders          orders.Service
	messages        messages.Service
	preferences     preferences.Service
	recommendations recommendations.Service
}

// New restores every collection from store, seeding empty or unreadable
// ones, and wires the services together.
func New(ctx context.Context, store blobstore.Store, opts Options) (*Marketplace, error) {
	if opts.Hasher == nil {
		return nil, fmt.Errorf("password hasher required")
	}
	logg := opts.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	mirror, err := state.NewMirror(store, logg, opts.Metrics)
	if err != nil {
		return nil, err
	}

	var seedErr error
	seedUsers := func() []users.Account {
		accounts, err := seed.Users(opts.Hasher)
		if err != nil {
			seedErr = err
			return nil
		}
		return accounts
	}

	roster, errUsers := state.LoadCollection(ctx, mirror, state.KeyUsers, seedUsers)
	products, errProducts := state.LoadCollection(ctx, mirror, state.KeyProducts, seed.Products)
	stores, errStores := state.LoadCollection(ctx, mirror, state.KeyStores, seed.Stores)
	ledger, errOrders := state.LoadCollection[orders.Order](ctx, mirror, state.KeyOrders, nil)
	log, errMessages := state.LoadCollection[messages.Message](ctx, mirror, state.KeyMessages, nil)
	cartItems, errCart := state.LoadCollection[cart.Item](ctx, mirror, state.KeyCart, nil)
	darkMode, errDark := state.LoadValue(ctx, mirror, state.KeyDarkMode, false)
	if err := multierr.Combine(errUsers, errProducts, errStores, errOrders, errMessages, errCart, errDark, seedErr); err != nil {
		return nil, err
	}

	m := &Marketplace{
		logg:        logg,
		metrics:     opts.Metrics,
		mirror:      mirror,
		authLatency: opts.AuthLatency,
		flushers:    []state.Flusher{roster, products, stores, ledger, log, cartItems, darkMode},
	}

	if m.users, err = users.NewRepository(roster); err != nil {
		return nil, err
	}
	catalogRepo, err := catalog.NewRepository(products, stores)
	if err != nil {
		return nil, err
	}
	if m.catalog, err = catalog.NewService(catalogRepo); err != nil {
		return nil, err
	}
	if m.cart, err = cart.NewService(cartItems); err != nil {
		return nil, err
	}
	if m.session, err = session.NewService(m.users, opts.Hasher, m.catalog, m.cart); err != nil {
		return nil, err
	}
	ordersRepo, err := orders.NewRepository(ledger)
	if err != nil {
		return nil, err
	}
	if m.orders, err = orders.NewService(ordersRepo, m.cart, orders.WithStrictTransitions(opts.StrictTransitions)); err != nil {
		return nil, err
	}
	if m.messages, err = messages.NewService(log); err != nil {
		return nil, err
	}
	if m.preferences, err = preferences.NewService(darkMode); err != nil {
		return nil, err
	}

	primary := opts.Recommender
	fallback := opts.Fallback
	if primary == nil {
		primary = recommendations.KeywordRecommender{}
		fallback = nil
	}
	if m.recommendations, err = recommendations.NewService(m.catalog, primary, fallback, logg); err != nil {
		return nil, err
	}

	return m, nil
}

// Ping checks the blob store.
func (m *Marketplace) Ping(ctx context.Context) error {
	return m.mirror.Ping(ctx)
}

// Flush rewrites every blob from memory.
func (m *Marketplace) Flush(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return state.FlushAll(ctx, m.flushers...)
}

func (m *Marketplace) observe(op string, err error) {
	m.metrics.ObserveOperation(op, err)
}

// actor returns the signed-in user or ErrNoSession. Callers hold m.mu.
func (m *Marketplace) actor() (users.User, error) {
	u, ok := m.session.Current()
	if !ok {
		return users.User{}, ErrNoSession
	}
	return u, nil
}
