package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/repairshop-backend/api/controllers"
	"github.com/angelmondragon/repairshop-backend/api/middleware"
	"github.com/angelmondragon/repairshop-backend/internal/availability"
	"github.com/angelmondragon/repairshop-backend/internal/bookings"
	"github.com/angelmondragon/repairshop-backend/internal/catalog"
	"github.com/angelmondragon/repairshop-backend/internal/pricing"
	"github.com/angelmondragon/repairshop-backend/internal/settings"
	"github.com/angelmondragon/repairshop-backend/pkg/config"
	"github.com/angelmondragon/repairshop-backend/pkg/enums"
	"github.com/angelmondragon/repairshop-backend/pkg/logger"
	"github.com/angelmondragon/repairshop-backend/pkg/metrics"
	pkgredis "github.com/angelmondragon/repairshop-backend/pkg/redis"
)

// Dependencies are the collaborators the HTTP surface is built from.
// Redis and Idempotency are nil when Redis is not configured.
type Dependencies struct {
	DB           controllers.Pinger
	Redis        controllers.Pinger
	Idempotency  pkgredis.IdempotencyStore
	Gatherer     prometheus.Gatherer
	HTTPMetrics  *metrics.HTTPMetrics
	Catalog      catalog.Service
	Pricing      pricing.Service
	Settings     settings.Service
	Availability availability.Service
	Bookings     bookings.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
		middleware.Metrics(deps.HTTPMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	idempotent := middleware.Idempotency(deps.Idempotency, cfg.Booking.IdempotencyTTL, logg)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(idempotent)

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/brands", controllers.CatalogBrands(deps.Catalog, logg))
			r.Get("/brands/{brandId}/models", controllers.CatalogBrandModels(deps.Catalog, logg))
			r.Get("/models/{modelId}", controllers.CatalogModel(deps.Catalog, logg))
		})

		r.Post("/pricing/quote", controllers.PricingQuote(deps.Pricing, logg))

		r.Get("/bookings", controllers.BookingAvailability(deps.Availability, logg))
		r.Post("/bookings", controllers.BookingSubmit(deps.Bookings, enums.NotificationKindBookingConfirmation, logg))
		r.Post("/quote", controllers.BookingSubmit(deps.Bookings, enums.NotificationKindQuoteConfirmation, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(idempotent)

		r.Post("/catalog/models/{modelId}/repairs", controllers.AdminAttachRepair(deps.Catalog, logg))

		r.Get("/settings", controllers.AdminSettingsGet(deps.Settings, logg))
		r.Put("/settings", controllers.AdminSettingsUpdate(deps.Settings, logg))

		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", controllers.AdminBookingList(deps.Bookings, logg))
			r.Get("/{bookingId}", controllers.AdminBookingDetail(deps.Bookings, logg))
			r.Patch("/{bookingId}/status", controllers.AdminBookingStatus(deps.Bookings, logg))
			r.Delete("/{bookingId}", controllers.AdminBookingDelete(deps.Bookings, logg))
		})
	})

	return r
}
