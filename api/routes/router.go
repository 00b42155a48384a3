package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rg-retail/packsplit-backend/api/controllers"
	"github.com/rg-retail/packsplit-backend/api/middleware"
	authsvc "github.com/rg-retail/packsplit-backend/internal/auth"
	"github.com/rg-retail/packsplit-backend/internal/catalog"
	"github.com/rg-retail/packsplit-backend/internal/ledger"
	"github.com/rg-retail/packsplit-backend/internal/stock"
	"github.com/rg-retail/packsplit-backend/pkg/config"
	"github.com/rg-retail/packsplit-backend/pkg/db"
	"github.com/rg-retail/packsplit-backend/pkg/logger"
	"github.com/rg-retail/packsplit-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	authService authsvc.Service,
	catalogService catalog.Service,
	stockService stock.Service,
	ledgerService ledger.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	// Assign through the interface only when the client exists; a typed nil
	// would defeat the controller's nil check.
	var cachePinger redis.Pinger
	if redisClient != nil {
		cachePinger = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, cachePinger, logg))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.LoginRateLimit(cfg.RateLimit, redisClient, logg)).
			Post("/login", controllers.AuthLogin(authService, logg))
	})

	var idemStore redis.IdempotencyStore
	if redisClient != nil {
		idemStore = redisClient
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idemStore, cfg.Ledger.IdempotencyTTL, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(catalogService, logg))
			r.Put("/", controllers.UpsertProduct(catalogService, logg))
			r.Get("/{barcode}", controllers.GetProduct(catalogService, logg))
		})

		r.Route("/stock", func(r chi.Router) {
			r.Get("/", controllers.StockPosition(stockService, logg))
			r.Get("/low", controllers.LowStock(stockService, logg))
			r.Get("/export", controllers.ExportStockCSV(stockService, logg))
			r.Get("/{barcode}", controllers.GetStock(stockService, logg))
			r.Put("/{barcode}", controllers.SetStock(stockService, logg))
		})

		r.Route("/openings", func(r chi.Router) {
			r.Get("/", controllers.ListOpenings(ledgerService, logg))
			r.Post("/", controllers.ApplyOpening(ledgerService, logg))
			r.Post("/undo", controllers.UndoOpening(ledgerService, logg))
			r.Post("/preview", controllers.PreviewOpening(ledgerService, logg))
			r.Get("/counts", controllers.StockCounts(stockService, logg))
		})
	})

	return r
}
