package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"certtrack/internal/certrule"
	certruleHandler "certtrack/internal/certrule/handler"
	certruleservice "certtrack/internal/certrule/service"
	dashboardHandler "certtrack/internal/dashboard/handler"
	dashboardmetrics "certtrack/internal/dashboard/metrics"
	dashboardservice "certtrack/internal/dashboard/service"
	"certtrack/internal/employee"
	employeeHandler "certtrack/internal/employee/handler"
	employeeservice "certtrack/internal/employee/service"
	"certtrack/internal/jwttoken"
	"certtrack/internal/platform/config"
	"certtrack/internal/platform/httpserver"
	"certtrack/internal/platform/logger"
	"certtrack/internal/platform/postgres"
	"certtrack/internal/platform/redis"
	"certtrack/internal/platform/sqldb"
	"certtrack/internal/reminder"
	remindermetrics "certtrack/internal/reminder/metrics"
	"certtrack/internal/requirement"
	requirementHandler "certtrack/internal/requirement/handler"
	requirementservice "certtrack/internal/requirement/service"
	httptransport "certtrack/internal/transport/http"
)

// main wires stores, services, and transports, then runs the HTTP server and
// the reminder scanner until shutdown. Business logic lives in the internal
// packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}
	db, err := sqldb.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Error("postgres (database/sql) connection failed", "error", err)
		os.Exit(1)
	}
	cache, err := redis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}

	var requirementStore requirement.Store = requirement.NewInMemoryStore()
	var employeeStore employee.Store = employee.NewInMemoryStore()
	var ruleStore certrule.Store = certrule.NewInMemoryStore()
	if pool != nil {
		requirementStore = requirement.NewPostgresStore(pool)
		employeeStore = employee.NewPostgresStore(db)
		ruleStore = certrule.NewPostgresStore(db)
	} else {
		log.Warn("postgres not configured, using in-memory stores")
	}

	var publisher reminder.Publisher
	kafka, err := reminder.NewKafkaPublisher(cfg.KafkaBrokers, cfg.ReminderTopic)
	if err != nil {
		log.Error("kafka connection failed", "error", err)
		os.Exit(1)
	}
	if kafka != nil {
		publisher = kafka
		defer kafka.Close()
	} else {
		log.Warn("kafka not configured, logging reminder events instead")
		publisher = reminder.NewLogPublisher(log)
	}

	tokens := jwttoken.NewService(cfg.JWTSigningKey, "certtrack", "certtrack-api")

	employeeSvc, err := employeeservice.New(employeeStore, log)
	if err != nil {
		log.Error("employee service init failed", "error", err)
		os.Exit(1)
	}
	ruleSvc, err := certruleservice.New(ruleStore, log)
	if err != nil {
		log.Error("rule service init failed", "error", err)
		os.Exit(1)
	}
	requirementSvc, err := requirementservice.New(requirementStore, ruleStore, log)
	if err != nil {
		log.Error("requirement service init failed", "error", err)
		os.Exit(1)
	}
	dashboardSvc, err := dashboardservice.New(requirementStore, cache, cfg.SummaryCacheTTL, log, dashboardmetrics.New())
	if err != nil {
		log.Error("dashboard service init failed", "error", err)
		os.Exit(1)
	}
	scanner, err := reminder.NewScanner(requirementStore, publisher, cfg.ScanInterval, log, remindermetrics.New())
	if err != nil {
		log.Error("reminder scanner init failed", "error", err)
		os.Exit(1)
	}

	healthCheckers := make(map[string]httptransport.HealthChecker)
	if pool != nil {
		healthCheckers["postgres"] = pool
	}
	if cache != nil {
		healthCheckers["redis"] = cache
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:       log,
		JWTValidator: tokens,
		Handlers: []httptransport.Registrar{
			employeeHandler.New(employeeSvc, log),
			certruleHandler.New(ruleSvc, log),
			requirementHandler.New(requirementSvc, log),
			dashboardHandler.New(dashboardSvc, log),
		},
		HealthCheckers: healthCheckers,
	})

	srv := httpserver.New(cfg.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("starting certtrack", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		err := scanner.Run(groupCtx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("shutdown with error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
