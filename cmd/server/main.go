package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AegisInttellegenceCore/AIC/internal/alliance"
	"github.com/AegisInttellegenceCore/AIC/internal/audit"
	"github.com/AegisInttellegenceCore/AIC/internal/identity"
	"github.com/AegisInttellegenceCore/AIC/internal/intel"
	"github.com/AegisInttellegenceCore/AIC/internal/platform/config"
	"github.com/AegisInttellegenceCore/AIC/internal/platform/httpserver"
	"github.com/AegisInttellegenceCore/AIC/internal/platform/logger"
	"github.com/AegisInttellegenceCore/AIC/internal/platform/metrics"
	"github.com/AegisInttellegenceCore/AIC/internal/platform/redis"
	"github.com/AegisInttellegenceCore/AIC/internal/radar"
	httptransport "github.com/AegisInttellegenceCore/AIC/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx := context.Background()

	var (
		allyStore   alliance.AllianceStore
		memberStore alliance.MembershipStore
		reportStore intel.ReportStore
		radarStore  radar.ScannerStore
	)

	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("database connect failed: %v", err)
		}
		defer pool.Close()
		for _, schema := range []string{alliance.Schema, intel.Schema, radar.Schema} {
			if _, err := pool.Exec(ctx, schema); err != nil {
				log.Fatalf("schema setup failed: %v", err)
			}
		}
		allyStore = alliance.NewPostgresAllianceStore(pool)
		memberStore = alliance.NewPostgresMembershipStore(pool)
		reportStore = intel.NewPostgresReportStore(pool)
		radarStore = radar.NewPostgresScannerStore(pool)
	} else {
		log.Printf("no database configured, using in-memory stores")
		allyStore = alliance.NewInMemoryAllianceStore()
		memberStore = alliance.NewInMemoryMembershipStore()
		reportStore = intel.NewInMemoryReportStore()
		radarStore = radar.NewInMemoryScannerStore()
	}

	var sink audit.Sink = audit.NewMemorySink()
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink, err := audit.NewKafkaSink(cfg.KafkaBrokers, cfg.AuditTopic)
		if err != nil {
			log.Fatalf("kafka connect failed: %v", err)
		}
		defer kafkaSink.Close()
		sink = kafkaSink
	}
	publisher := audit.NewPublisher(sink)

	m := metrics.New()

	allyOpts := []alliance.Option{
		alliance.WithAdmin(cfg.AdminIdentityID, cfg.AdminNickname),
		alliance.WithMetrics(m),
		alliance.WithAuditPublisher(publisher),
		alliance.WithLogger(log),
	}
	if rdb, err := redis.New(cfg.RedisURL); err != nil {
		log.Fatalf("redis connect failed: %v", err)
	} else if rdb != nil {
		defer rdb.Close()
		allyOpts = append(allyOpts, alliance.WithCache(alliance.NewRedisCache(rdb.Client, config.MembershipCacheTTL)))
	}

	allySvc := alliance.NewService(allyStore, memberStore, cfg.Universes, allyOpts...)
	intelSvc := intel.NewService(reportStore,
		intel.WithMetrics(m), intel.WithAuditPublisher(publisher), intel.WithLogger(log))
	radarSvc := radar.NewService(radarStore,
		radar.WithMetrics(m), radar.WithAuditPublisher(publisher), radar.WithLogger(log))

	provider := identity.NewJWTProvider(cfg.JWTSigningKey, "aic", cfg.SessionTTL)

	router := httptransport.NewRouter(
		httptransport.NewAuthHandler(provider),
		httptransport.NewAllianceHandler(allySvc),
		httptransport.NewIntelHandler(intelSvc, allySvc),
		httptransport.NewRadarHandler(radarSvc, allySvc),
		log,
	)

	srv := httpserver.New(cfg.Addr, router)

	log.Printf("starting aic on %s", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}
}
