// Command server wires the estate administration service: configuration,
// infrastructure clients, stores, services, handlers, router. Business
// logic lives in the internal packages; main only composes and supervises.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/audit"
	auditmemory "github.com/CoolCerebralTech/Mirathi-System-sub006/internal/audit/store/memory"
	auditpg "github.com/CoolCerebralTech/Mirathi-System-sub006/internal/audit/store/postgres"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/distribution"
	estatehandler "github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/handler"
	estatemetrics "github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/metrics"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/service"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/store"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/family"
	jwttoken "github.com/CoolCerebralTech/Mirathi-System-sub006/internal/jwt_token"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/platform/config"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/platform/httpserver"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/platform/kafka"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/platform/logger"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/platform/metrics"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/platform/middleware"
	platformredis "github.com/CoolCerebralTech/Mirathi-System-sub006/internal/platform/redis"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/tax"
	httptransport "github.com/CoolCerebralTech/Mirathi-System-sub006/internal/transport/http"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "mirathi: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	readyChecks := map[string]httptransport.HealthCheck{}

	// Persistence. Without a database URL the service runs entirely in
	// memory, which suits local development and nothing else.
	var (
		estates    store.Store
		auditStore audit.Store
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("create pgx pool: %w", err)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			return fmt.Errorf("ping postgres: %w", err)
		}
		if err := store.EnsureSchema(ctx, pool); err != nil {
			return err
		}
		if _, err := pool.Exec(ctx, auditpg.Schema); err != nil {
			return fmt.Errorf("ensure audit schema: %w", err)
		}

		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("open database/sql handle: %w", err)
		}
		defer db.Close()

		estates = store.NewPostgres(pool)
		auditStore = auditpg.New(db)
		readyChecks["postgres"] = pool.Ping
	} else {
		log.Warn("no database configured, estates will not survive a restart")
		estates = store.NewMemory()
		auditStore = auditmemory.NewInMemoryStore()
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		readyChecks["redis"] = redisClient.Health
	}

	publisher, err := kafka.NewPublisher(cfg.Kafka, log)
	if err != nil {
		return fmt.Errorf("connect kafka: %w", err)
	}
	if publisher != nil {
		defer publisher.Close()
		if err := publisher.EnsureTopic(ctx, 3, 1); err != nil {
			return err
		}
		readyChecks["kafka"] = publisher.Health
	}

	families, err := familyProvider(cfg, log, redisClient)
	if err != nil {
		return err
	}

	// Audit events flow through a buffered channel so mutations never wait
	// on trail writes; the worker drains it for the life of the process.
	trailSink := audit.NewChannelSink(cfg.AuditBuffer, log)
	trailWorker := audit.NewWorker(auditStore, trailSink.Inbox(), log)

	httpMetrics := metrics.New()
	domainMetrics := estatemetrics.New()

	serviceOpts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(domainMetrics),
		service.WithEventSink(trailSink),
	}
	distributionOpts := []distribution.Option{
		distribution.WithLogger(log),
		distribution.WithMetrics(domainMetrics),
		distribution.WithEventSink(trailSink),
	}
	if publisher != nil {
		serviceOpts = append(serviceOpts, service.WithEventSink(publisher))
		distributionOpts = append(distributionOpts, distribution.WithEventSink(publisher))
	}

	estateService := service.New(estates, tax.NewStatic(), serviceOpts...)
	distributionService := distribution.NewService(estates, families, distributionOpts...)

	tokens := jwttoken.NewJWTServiceAdapter(
		jwttoken.NewJWTService(cfg.JWT.SigningKey, cfg.JWT.Issuer, cfg.JWT.Audience))

	handler := estatehandler.New(estateService, distributionService, log,
		estatehandler.WithTrailReader(auditStore),
		estatehandler.WithAdminGuard(middleware.RequireRole(middleware.RoleAdministrator, log)),
	)

	router := httptransport.NewRouter(httptransport.Deps{
		Estates:        handler,
		TokenValidator: tokens,
		Logger:         log,
		Metrics:        httpMetrics,
		RequestTimeout: cfg.RequestTimeout,
		ReadyChecks:    readyChecks,
	})

	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server started", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := trailWorker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("audit worker: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down", "timeout", cfg.ShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// familyProvider assembles the family structure source: the civil registry
// when configured, fixtures otherwise. Fixtures alongside a registry become
// the offline fallback behind the circuit breaker, and Redis adds a
// read-through cache in front of whichever chain results.
func familyProvider(cfg config.Config, log *slog.Logger, redisClient *platformredis.Client) (family.Provider, error) {
	var fixtures *family.Static
	if cfg.FamilyFixturesPath != "" {
		loaded, err := family.NewStaticFromFile(cfg.FamilyFixturesPath)
		if err != nil {
			return nil, err
		}
		fixtures = loaded
	}

	var provider family.Provider
	switch {
	case cfg.FamilyRegistryURL != "":
		registry, err := family.NewRegistry(family.RegistryConfig{
			BaseURL: cfg.FamilyRegistryURL,
			Token:   cfg.FamilyRegistryToken,
		})
		if err != nil {
			return nil, err
		}
		provider = registry
		if fixtures != nil {
			resilient, err := family.NewResilient(registry, fixtures,
				family.WithResilientLogger(log))
			if err != nil {
				return nil, err
			}
			provider = resilient
		}
	case fixtures != nil:
		provider = fixtures
	default:
		log.Warn("no family registry or fixtures configured, distribution lookups will fail")
		provider = family.NewStatic()
	}

	if redisClient != nil {
		cached, err := family.NewCached(provider, redisClient.Client,
			family.WithCacheTTL(cfg.FamilyCacheTTL),
			family.WithCacheLogger(log))
		if err != nil {
			return nil, err
		}
		provider = cached
	}
	return provider, nil
}
