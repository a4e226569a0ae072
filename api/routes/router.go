package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/locallink/locallink-backend/api/controllers"
	"github.com/locallink/locallink-backend/api/middleware"
	"github.com/locallink/locallink-backend/internal/marketplace"
	"github.com/locallink/locallink-backend/pkg/config"
	"github.com/locallink/locallink-backend/pkg/enums"
	"github.com/locallink/locallink-backend/pkg/logger"
	"github.com/locallink/locallink-backend/pkg/redis"
)

// NewRouter mounts the HTTP API over app. redisClient and gatherer are
// optional: without redis, idempotency replay and auth rate limiting are
// skipped; without a gatherer /metrics is not mounted.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	app *marketplace.Marketplace,
	redisClient *redis.Client,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Session(app, logg),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)
	rateLimit := func(policy middleware.AuthRateLimitPolicy) func(http.Handler) http.Handler {
		if redisClient == nil {
			return passthrough
		}
		return middleware.AuthRateLimit(policy, redisClient, logg)
	}
	idempotency := passthrough
	if redisClient != nil {
		idempotency = middleware.Idempotency(redisClient, logg)
	}
	merchant := string(enums.UserRoleMerchant)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, app, logg))
	})
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/session", func(r chi.Router) {
		r.Use(idempotency)
		r.With(rateLimit(loginPolicy)).Post("/login", controllers.SessionLogin(app, logg))
		r.With(rateLimit(registerPolicy)).Post("/register", controllers.SessionRegister(app, logg))
		r.Post("/logout", controllers.SessionLogout(app))
		r.Get("/", controllers.SessionCurrent(app, logg))
		r.With(middleware.RequireSession(logg)).Patch("/profile", controllers.SessionUpdateProfile(app, logg))
	})

	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/products", controllers.CatalogProducts(app, logg))
		r.Get("/products/{productId}", controllers.CatalogProduct(app, logg))
		r.Get("/categories", controllers.CatalogCategories(app))
		r.Get("/store-types", controllers.CatalogStoreTypes())
		r.Get("/stores", controllers.CatalogStores(app))
		r.Get("/stores/{storeId}", controllers.CatalogStore(app, logg))
	})

	r.Route("/api/v1/merchant", func(r chi.Router) {
		r.Use(middleware.RequireSession(logg), middleware.RequireRole(merchant, logg), idempotency)
		r.Post("/products", controllers.MerchantAddProduct(app, logg))
		r.Get("/stores", controllers.MerchantStores(app, logg))
		r.Post("/stores", controllers.MerchantAddStore(app, logg))
		r.Put("/stores/{storeId}", controllers.MerchantUpdateStore(app, logg))
		r.Get("/orders", controllers.MerchantOrders(app, logg))
		r.Patch("/orders/{orderId}/status", controllers.MerchantUpdateOrderStatus(app, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequireSession(logg), idempotency)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(app))
			r.Delete("/", controllers.CartClear(app, logg))
			r.Post("/items", controllers.CartAddItem(app, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(app, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(app, logg))
			r.Get("/latest", controllers.OrdersLatest(app, logg))
			r.Post("/checkout", controllers.OrdersCheckout(app, logg))
			r.Post("/{orderId}/cancel", controllers.OrdersCancel(app, logg))
		})

		r.Route("/messages", func(r chi.Router) {
			r.Post("/", controllers.MessagesSend(app, logg))
			r.Get("/contacts", controllers.MessagesContacts(app, logg))
			r.Get("/conversations/{userId}", controllers.MessagesConversation(app, logg))
		})
	})

	r.Post("/api/v1/recommendations", controllers.Recommend(app, logg))
	r.Get("/api/v1/preferences", controllers.PreferencesGet(app))
	r.Put("/api/v1/preferences", controllers.PreferencesUpdate(app, logg))

	return r
}

func passthrough(next http.Handler) http.Handler {
	return next
}
