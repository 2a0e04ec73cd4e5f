package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/repairshop-backend/api/controllers"
	"github.com/angelmondragon/repairshop-backend/api/routes"
	"github.com/angelmondragon/repairshop-backend/internal/availability"
	"github.com/angelmondragon/repairshop-backend/internal/bookings"
	"github.com/angelmondragon/repairshop-backend/internal/catalog"
	"github.com/angelmondragon/repairshop-backend/internal/notifications"
	"github.com/angelmondragon/repairshop-backend/internal/pricing"
	"github.com/angelmondragon/repairshop-backend/internal/settings"
	"github.com/angelmondragon/repairshop-backend/pkg/config"
	"github.com/angelmondragon/repairshop-backend/pkg/db"
	"github.com/angelmondragon/repairshop-backend/pkg/logger"
	"github.com/angelmondragon/repairshop-backend/pkg/metrics"
	"github.com/angelmondragon/repairshop-backend/pkg/migrate"
	"github.com/angelmondragon/repairshop-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}
	if !cfg.App.IsProd() && (cfg.App.IsDev() || cfg.FeatureFlags.UseSQLite) {
		seeded, err := catalog.SeedDevData(ctx, dbClient.DB())
		if err != nil {
			logg.Error(ctx, "failed to seed dev catalog", err)
			os.Exit(1)
		}
		if seeded {
			logg.Info(ctx, "seeded dev catalog")
		}
	}

	var (
		redisPinger controllers.Pinger
		slotHolder  bookings.SlotHolder
		idemStore   redis.IdempotencyStore
	)
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		redisPinger, slotHolder, idemStore = redisClient, redisClient, redisClient
	} else {
		logg.Warn(ctx, "redis not configured, idempotency keys and slot holds disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.NewHTTPMetrics(registry)
	bookingMetrics := metrics.NewBookingMetrics(registry)

	loc, err := cfg.Shop.Location()
	if err != nil {
		logg.Error(ctx, "invalid shop time zone", err)
		os.Exit(1)
	}

	settingsService, err := settings.NewService(settings.NewRepository(dbClient.DB()), logg)
	requireService(ctx, logg, "settings", err)

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()), logg)
	requireService(ctx, logg, "catalog", err)

	pricingService, err := pricing.NewService(catalogService, settingsService, bookingMetrics)
	requireService(ctx, logg, "pricing", err)

	bookingRepo := bookings.NewRepository(dbClient.DB())

	availabilityService, err := availability.NewService(settingsService, bookingRepo, loc)
	requireService(ctx, logg, "availability", err)

	notifiers := []notifications.Notifier{}
	logNotifier, err := notifications.NewLogNotifier(logg, cfg.Shop.Name)
	requireService(ctx, logg, "log notifier", err)
	notifiers = append(notifiers, logNotifier)
	if cfg.Twilio.Enabled() {
		smsNotifier, err := notifications.NewSMSNotifier(cfg.Twilio, cfg.Shop.Name)
		requireService(ctx, logg, "sms notifier", err)
		notifiers = append(notifiers, smsNotifier)
	}
	dispatcher, err := notifications.NewDispatcher(logg, bookingMetrics, notifiers...)
	requireService(ctx, logg, "notifications", err)

	bookingService, err := bookings.NewService(bookings.Dependencies{
		Repo:       bookingRepo,
		Tx:         dbClient,
		Catalog:    catalogService,
		Terms:      settingsService,
		Schedule:   settingsService,
		SlotHolder: slotHolder,
		Notifier:   dispatcher,
		Metrics:    bookingMetrics,
		Logger:     logg,
	}, bookings.Options{
		ReferencePrefix:  cfg.Booking.ReferencePrefix,
		ReferenceRetries: cfg.Booking.ReferenceRetries,
		SlotHoldTTL:      cfg.Booking.SlotHoldTTL,
		NotifyTimeout:    cfg.Notifications.Timeout,
		Location:         loc,
	})
	requireService(ctx, logg, "bookings", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"time_zone": loc.String(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Dependencies{
			DB:           dbClient,
			Redis:        redisPinger,
			Idempotency:  idemStore,
			Gatherer:     registry,
			HTTPMetrics:  httpMetrics,
			Catalog:      catalogService,
			Pricing:      pricingService,
			Settings:     settingsService,
			Availability: availabilityService,
			Bookings:     bookingService,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func requireService(ctx context.Context, logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(logg.WithField(ctx, "service", name), "failed to create service", err)
	os.Exit(1)
}
