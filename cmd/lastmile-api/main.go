// README: Entry point; loads config and static fleet data, wires services, runs the API.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"lastmile/internal/config"
	httptransport "lastmile/internal/http"
	"lastmile/internal/infra"
	lmmaps "lastmile/internal/maps"
	"lastmile/internal/modules/assignment"
	"lastmile/internal/modules/fleet"
	"lastmile/internal/modules/geo"
	"lastmile/internal/modules/order"
	"lastmile/internal/modules/performance"
	"lastmile/internal/modules/slot"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fallbackFatal(err)
	}
	log := newLogger(cfg.LogLevel)

	fleetFile, err := config.LoadFleetFile(cfg.FleetFile)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.FleetFile).Msg("fleet file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		log.Fatal().Err(err).Str("zone", cfg.TimeZone).Msg("time zone")
	}

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database")
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)
	defer redisClient.Close()

	var verifier infra.TokenVerifier
	if cfg.Firebase.ProjectID != "" {
		verifier, err = infra.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			log.Fatal().Err(err).Msg("firebase init")
		}
	} else {
		log.Warn().Msg("no firebase project configured, auth disabled")
	}

	var lookup geo.AddressLookup
	if cfg.Maps.APIKey != "" {
		mapsClient, err := infra.NewMapsClient(cfg.Maps.APIKey, cfg.Maps.RequestsPerSecond)
		if err != nil {
			log.Fatal().Err(err).Msg("maps client")
		}
		lookup = lmmaps.NewGeocodeService(mapsClient)
	} else {
		log.Warn().Msg("no maps api key configured, address lookups disabled")
	}

	resolver, err := geo.NewResolver(
		geo.AreasFromConfig(fleetFile.ServiceAreas),
		lookup,
		geo.NewRedisCache(redisClient),
		log,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("service areas")
	}

	orderStore := order.NewStore(dbPool)
	orderSvc := order.NewService(orderStore)

	locationStore := fleet.NewLocationStore(redisClient)
	registry := fleet.NewRegistry(fleetFile.Couriers, locationStore)

	assignmentSvc := assignment.NewService(registry, orderStore, cfg.Dispatch, log)

	slotStore := slot.NewStore(dbPool)
	slotSvc := slot.NewService(
		fleetFile.CollectionSlots, fleetFile.DeliverySlots,
		slotStore, orderStore,
		cfg.Dispatch.AutoSlotEnabled, loc, log,
	)

	perfSvc := performance.NewService(orderStore, log)

	server := httptransport.NewServer(httptransport.ServerDeps{
		Order:       orderSvc,
		Geo:         resolver,
		Slot:        slotSvc,
		Assignment:  assignmentSvc,
		Performance: perfSvc,
		Fleet:       registry,
		Locations:   locationStore,
		Verifier:    verifier,
		Log:         log,
	})

	srv := &http.Server{Addr: cfg.HTTP.Addr, Handler: server.Routes()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("addr", cfg.HTTP.Addr).Int("couriers", len(fleetFile.Couriers)).Msg("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server")
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}

func fallbackFatal(err error) {
	l := zerolog.New(os.Stderr)
	l.Fatal().Err(err).Msg("config")
}
