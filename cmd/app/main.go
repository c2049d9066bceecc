// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"member-grants-platform/internal/config"
	"member-grants-platform/internal/domain/ports/adapter"
	pg "member-grants-platform/internal/infra/db/postgres"
	"member-grants-platform/internal/infra/logging"
	"member-grants-platform/internal/infra/metrics"
	pay "member-grants-platform/internal/infra/payment"
	red "member-grants-platform/internal/infra/redis"
	"member-grants-platform/internal/infra/sched"
	"member-grants-platform/internal/infra/web"
	"member-grants-platform/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (noop gateway, console logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPool(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	tm := pg.NewTxManager(pool)

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	locker := red.NewLocker(redisClient)

	// ---- Repositories ----
	userRepo := pg.NewUserRepo(pool)
	profileRepo := pg.NewProfileRepo(pool)
	adminRepo := pg.NewAdminRepo(pool)
	planRepo := pg.NewPlanRepoCacheDecorator(pg.NewPlanRepo(pool), redisClient, cfg.Redis.TTL)
	payRepo := pg.NewPaymentRepo(pool)
	subRepo := pg.NewSubscriptionRepo(pool)
	grantRepo := pg.NewGrantRepoCacheDecorator(pg.NewGrantRepo(pool), redisClient, cfg.Redis.TTL)
	appRepo := pg.NewApplicationRepo(pool)
	ticketRepo := pg.NewTicketRepo(pool)
	responseRepo := pg.NewResponseRepo(pool)

	// ---- Payment gateway ----
	var gateway adapter.PaymentGateway
	if cfg.Runtime.Dev || cfg.Payment.Sandbox {
		gateway = pay.NewNoopPaymentGateway()
		logger.Warn().Msg("using noop payment gateway")
	} else {
		gateway = pay.NewRESTGateway(&cfg.Payment)
		logger.Info().Str("provider", cfg.Payment.Provider).Msg("payment gateway")
	}

	// ---- Use cases ----
	accountUC := usecase.NewAccountUseCase(userRepo, profileRepo, adminRepo)
	planUC := usecase.NewPlanUseCase(planRepo)
	billingUC := usecase.NewBillingUseCase(payRepo, planRepo, subRepo, userRepo, gateway, tm, locker, logger)
	grantUC := usecase.NewGrantUseCase(grantRepo, appRepo, userRepo, adminRepo, logger)
	supportUC := usecase.NewSupportUseCase(ticketRepo, responseRepo, userRepo, adminRepo, logger)
	statsUC := usecase.NewStatsUseCase(userRepo, subRepo, payRepo, appRepo, logger)

	// ---- HTTP server ----
	srv := web.NewServer(&cfg.Web, &cfg.Payment, accountUC, billingUC, planUC, grantUC, supportUC, statsUC, logger)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server stopped")
			cancel()
		}
	}()

	// ---- Background workers ----
	expiry := sched.NewExpiryWorker(cfg.Scheduler.ExpiryInterval, billingUC, logger)
	go func() { _ = expiry.Run(ctx) }()

	reconciler := sched.NewPaymentReconciler(billingUC, payRepo, cfg.Scheduler.ReconcileInterval, cfg.Scheduler.StaleAfter, logger)
	go func() { _ = reconciler.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigc:
		logger.Info().Msg("shutdown requested")
	case <-ctx.Done():
	}
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
