// Command server runs the hireflow HTTP service: the applicant workflow API,
// the unauthenticated remote-approval endpoints, and the background workers
// (audit outbox relay, stale-grant sweeper).
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	applicanthandler "hireflow/internal/applicant/handler"
	applicantmetrics "hireflow/internal/applicant/metrics"
	"hireflow/internal/applicant/service"
	"hireflow/internal/applicant/store"
	"hireflow/internal/approval"
	approvalhandler "hireflow/internal/approval/handler"
	approvalmetrics "hireflow/internal/approval/metrics"
	"hireflow/internal/mailer"
	"hireflow/internal/notification"
	"hireflow/internal/platform/config"
	"hireflow/internal/platform/httpserver"
	platformkafka "hireflow/internal/platform/kafka"
	"hireflow/internal/platform/logger"
	"hireflow/internal/platform/metrics"
	"hireflow/internal/platform/middleware"
	"hireflow/internal/platform/postgres"
	platformredis "hireflow/internal/platform/redis"
	audit "hireflow/pkg/platform/audit"
	"hireflow/pkg/platform/audit/publisher"
	auditmemory "hireflow/pkg/platform/audit/store/memory"
	auditpostgres "hireflow/pkg/platform/audit/store/postgres"
	auditworker "hireflow/pkg/platform/audit/worker"
)

func main() {
	log := logger.New()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("configuration failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// One Kafka producer serves both the outbound mailer and the audit
	// outbox relay. Empty brokers run both in memory.
	var producer *kgo.Client
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err = platformkafka.NewClient(cfg.Kafka)
		if err != nil {
			log.Error("kafka connection failed", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		if err := platformkafka.EnsureTopics(ctx, producer, cfg.Kafka.MessageTopic, cfg.Kafka.AuditTopic); err != nil {
			log.Error("kafka topic bootstrap failed", "error", err)
			os.Exit(1)
		}
	}

	// Storage. An empty Postgres URL runs everything in memory.
	var (
		applicants store.Store
		history    store.HistoryStore
		auditStore audit.Store
	)
	if cfg.Postgres.URL != "" {
		pool, err := postgres.NewPool(ctx, cfg.Postgres.URL)
		if err != nil {
			log.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		pg := store.NewPostgres(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Error("schema migration failed", "error", err)
			os.Exit(1)
		}
		applicants, history = pg, pg

		db, err := postgres.NewDB(ctx, cfg.Postgres.URL)
		if err != nil {
			log.Error("postgres audit connection failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		pgAudit := auditpostgres.New(db)
		auditStore = pgAudit

		if producer != nil {
			relay := auditworker.New(db, producer, cfg.Kafka.AuditTopic, pgAudit, log)
			go func() {
				if err := relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					log.Error("audit relay stopped", "error", err)
				}
			}()
		}
	} else {
		mem := store.NewInMemory()
		applicants, history = mem, mem
		auditStore = auditmemory.NewInMemoryStore()
	}

	auditPublisher := publisher.NewPublisher(auditStore, publisher.WithAsyncBuffer(256))
	defer auditPublisher.Close()

	// Notification fan-out.
	var notifier notification.Notifier
	if cfg.Redis.URL != "" {
		redisClient, err := platformredis.New(cfg.Redis)
		if err != nil {
			log.Error("redis connection failed", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		notifier = notification.NewRedis(redisClient)
	} else {
		notifier = notification.NewInMemory()
	}

	// Outbound messages.
	var outbound mailer.Mailer
	if producer != nil {
		outbound = mailer.NewKafka(producer, cfg.Kafka.MessageTopic)
	} else {
		outbound = mailer.NewInMemory()
	}

	// Services.
	approvalSvc := approval.New(applicants, outbound, notifier,
		cfg.Approvers, cfg.PublicBaseURL,
		approval.WithLogger(log),
		approval.WithAuditPublisher(auditPublisher),
		approval.WithMetrics(approvalmetrics.New()),
		approval.WithTTL(cfg.ApprovalTTL),
		approval.WithAdminRecipients(cfg.AdminRecipients),
	)
	workflowSvc := service.New(applicants, history, notifier,
		service.WithLogger(log),
		service.WithAuditPublisher(auditPublisher),
		service.WithMetrics(applicantmetrics.New()),
		service.WithApprovalRequester(approvalSvc),
	)

	go approvalSvc.RunSweeper(ctx, approval.DefaultSweepInterval)

	// HTTP.
	httpMetrics := metrics.New()
	validator := middleware.NewHMACValidator(cfg.JWTSigningKey)
	apiKeys := middleware.APIKeys{
		PlatformAdminHash: cfg.PlatformAdminKeyHash,
		SupportHash:       cfg.SupportKeyHash,
	}

	router := chi.NewRouter()
	router.Use(
		middleware.Recovery(log),
		middleware.RequestID,
		middleware.RequestTime,
		middleware.Device,
		middleware.Logger(log),
		middleware.Timeout(30*time.Second),
		metrics.LatencyMiddleware(httpMetrics),
	)

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Token-gated routes: no session auth, the grant token is the credential.
	approvalhandler.New(approvalSvc, log).Register(router)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(validator, apiKeys, log))
		r.Use(middleware.ContentTypeJSON)
		applicanthandler.New(workflowSvc, log).Register(r)
	})

	srv := httpserver.New(cfg.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("server starting", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
