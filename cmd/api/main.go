package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	_ "github.com/sahelassur/courtage/docs"
	"github.com/sahelassur/courtage/internal/core"
	transporthttp "github.com/sahelassur/courtage/internal/http"
	"github.com/sahelassur/courtage/internal/http/handlers"
	"github.com/sahelassur/courtage/internal/http/health"
	"github.com/sahelassur/courtage/internal/jobs"
	"github.com/sahelassur/courtage/internal/middleware"
	"github.com/sahelassur/courtage/internal/platform/config"
	"github.com/sahelassur/courtage/internal/platform/logging"
	"github.com/sahelassur/courtage/internal/store/dynamo"
	"github.com/sahelassur/courtage/internal/store/mongo"
)

func main() {
	cfg := config.MustLoad()
	log := logging.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---- Storage backend ----
	var (
		contactRepo core.ContactRepo
		quoteRepo   core.QuoteRepo
		policyRepo  core.PolicyRepo
		productRepo core.ProductRepo
		pinger      health.Pinger
		closeStore  func(context.Context) error
	)

	switch cfg.DBType {
	case "dynamodb":
		log.Info("using DynamoDB backend", "region", cfg.AWSRegion, "endpoint", cfg.DynamoDBEndpoint)
		client, err := dynamo.NewClient(ctx, dynamo.Config{
			Region:          cfg.AWSRegion,
			Endpoint:        cfg.DynamoDBEndpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})
		if err != nil {
			log.Error("failed to connect to DynamoDB", "err", err)
			os.Exit(1)
		}
		if err := dynamo.EnsureTables(ctx, client.DB, log); err != nil {
			log.Error("failed to ensure DynamoDB tables", "err", err)
			os.Exit(1)
		}
		contactRepo = dynamo.NewContactRepo(client.DB)
		quoteRepo = dynamo.NewQuoteRepo(client.DB)
		policyRepo = dynamo.NewPolicyRepo(client.DB)
		productRepo = dynamo.NewProductRepo(client.DB)
		pinger = client
		closeStore = func(context.Context) error { return nil }

	default:
		log.Info("using MongoDB backend", "db", cfg.MongoDB)
		client, err := mongo.NewClient(cfg)
		if err != nil {
			log.Error("failed to connect to MongoDB", "err", err)
			os.Exit(1)
		}
		if err := mongo.EnsureIndexes(ctx, client.DB); err != nil {
			log.Error("failed to ensure MongoDB indexes", "err", err)
			os.Exit(1)
		}
		opTimeout := time.Duration(cfg.MongoOpTimeoutMs) * time.Millisecond
		contactRepo = mongo.NewContactRepo(client.DB, opTimeout)
		quoteRepo = mongo.NewQuoteRepo(client.DB, opTimeout)
		policyRepo = mongo.NewPolicyRepo(client.DB, opTimeout)
		productRepo = mongo.NewProductRepo(client.DB, opTimeout)
		pinger = client
		closeStore = client.Close
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = closeStore(shutdownCtx)
	}()

	// ---- Services ----
	sessionSvc := core.NewSessionService(contactRepo)
	quoteSvc := core.NewQuoteService(quoteRepo, sessionSvc, time.Duration(cfg.QuoteTTLDays)*24*time.Hour)
	policySvc := core.NewPolicyService(policyRepo, quoteRepo)

	// ---- Router ----
	api := transporthttp.NewRouter(transporthttp.Deps{
		Mounts: []handlers.Mountable{
			handlers.NewProductHandler(productRepo, log),
			handlers.NewContactHandler(contactRepo, log, cfg.DefaultPhoneRegion),
			handlers.NewSessionHandler(sessionSvc, log, cfg.DefaultPhoneRegion),
			handlers.NewPricingHandler(log),
			handlers.NewQuoteHandler(quoteSvc, log),
			handlers.NewPolicyHandler(policySvc, log),
		},
	})

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPM, time.Minute)
	rateLimiter.StartWithContext(ctx)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(time.Duration(cfg.HTTPRequestTimeoutSec) * time.Second))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.LimitRequestBody(middleware.MaxBodySize))
	r.Use(rateLimiter.Middleware)
	r.Use(middleware.SimpleAPIKey(cfg.APIKey))

	r.Mount("/", health.New(log, pinger, time.Duration(cfg.HTTPRequestTimeoutSec)*time.Second))
	r.Mount("/api/v1", api)

	// ---- Background workers ----
	workers := []jobs.Worker{
		jobs.NewIssuanceWorker(quoteRepo, policySvc, time.Duration(cfg.WorkerIntervalSec)*time.Second, log),
		jobs.NewExpiryWorker(quoteSvc, time.Duration(cfg.WorkerIntervalSec)*time.Second, log),
	}
	for _, w := range workers {
		go w.Start(ctx)
	}

	// ---- HTTP server ----
	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTPReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTPWriteTimeoutSec) * time.Second,
		IdleTimeout:  time.Duration(cfg.HTTPIdleTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", addr, "env", cfg.Env, "db", cfg.DBType)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "err", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "err", err)
	}
	log.Info("server stopped")
}
