package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/loftmebel/loft-backend/api/controllers"
	webhookcontrollers "github.com/loftmebel/loft-backend/api/controllers/webhooks"
	"github.com/loftmebel/loft-backend/api/middleware"
	"github.com/loftmebel/loft-backend/internal/auth"
	"github.com/loftmebel/loft-backend/internal/cart"
	"github.com/loftmebel/loft-backend/internal/catalog"
	checkoutsvc "github.com/loftmebel/loft-backend/internal/checkout"
	"github.com/loftmebel/loft-backend/internal/contact"
	"github.com/loftmebel/loft-backend/internal/customers"
	"github.com/loftmebel/loft-backend/internal/favorites"
	"github.com/loftmebel/loft-backend/internal/orders"
	stripewebhook "github.com/loftmebel/loft-backend/internal/webhooks/stripe"
	"github.com/loftmebel/loft-backend/pkg/auth/session"
	"github.com/loftmebel/loft-backend/pkg/config"
	"github.com/loftmebel/loft-backend/pkg/db"
	"github.com/loftmebel/loft-backend/pkg/logger"
	"github.com/loftmebel/loft-backend/pkg/redis"
	"github.com/loftmebel/loft-backend/pkg/stripe"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessionChecker session.AccessSessionChecker,
	authService auth.Service,
	registerService auth.RegisterService,
	catalogService catalog.Service,
	cartService cart.Service,
	checkoutService checkoutsvc.Service,
	ordersService orders.Service,
	favoritesService favorites.Service,
	customersService customers.Service,
	contactService contact.Service,
	stripeClient *stripe.Client,
	stripeWebhookService *stripewebhook.Service,
	stripeWebhookGuard *stripewebhook.IdempotencyGuard,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
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

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/stripe", webhookcontrollers.StripeWebhook(stripeWebhookService, stripeClient, stripeWebhookGuard, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(registerService, authService, logg))
		r.Post("/refresh", controllers.AuthRefresh(authService, logg))
		r.Post("/logout", controllers.AuthLogout(authService, cfg.JWT, logg))
	})

	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/categories", controllers.CatalogCategories(catalogService, logg))
		r.Get("/categories/{slug}/products", controllers.CatalogCategoryProducts(catalogService, logg))
		r.Get("/products/{slug}", controllers.CatalogProduct(catalogService, logg))
		r.Get("/sales", controllers.CatalogSales(catalogService, logg))
	})

	r.Get("/api/v1/regions", controllers.Regions(customersService, logg))
	r.Post("/api/v1/contact", controllers.ContactSubmit(contactService, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(cartService, logg))
			r.Post("/{slug}/{action}", controllers.CartAction(cartService, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", controllers.CheckoutBegin(checkoutService, logg))
			r.Get("/status", controllers.CheckoutStatus(checkoutService, logg))
		})

		r.Route("/favorites", func(r chi.Router) {
			r.Get("/", controllers.FavoritesList(favoritesService, logg))
			r.Post("/{slug}", controllers.FavoriteToggle(favoritesService, logg))
		})

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", controllers.ProfileFetch(customersService, logg))
			r.Put("/", controllers.ProfileUpdate(customersService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(ordersService, logg))
			r.Get("/{orderId}", controllers.OrderDetail(ordersService, logg))
		})
	})

	return r
}
