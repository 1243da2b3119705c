// Package main wires the credential lifecycle service: stores, ledger
// strategy, role flows, and the HTTP surface. Business logic lives in the
// internal service packages.
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

	"vocert/internal/audit"
	"vocert/internal/catalog"
	credentialhandler "vocert/internal/credential/handler"
	cmetrics "vocert/internal/credential/metrics"
	"vocert/internal/credential/service"
	credstore "vocert/internal/credential/store"
	"vocert/internal/identity"
	"vocert/internal/ledger"
	lmetrics "vocert/internal/ledger/metrics"
	"vocert/internal/platform/config"
	"vocert/internal/platform/database"
	"vocert/internal/platform/health"
	"vocert/internal/platform/logger"
	"vocert/internal/platform/tracer"
	"vocert/internal/seeder"
	"vocert/internal/session"
	sessionhandler "vocert/internal/session/handler"
	httptransport "vocert/internal/transport/http"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing vocert",
		"addr", cfg.Addr,
		"network", cfg.Network,
		"ledger_mode", cfg.LedgerMode,
	)

	pool, err := database.New(database.Config{
		URL:             cfg.DatabaseURL,
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	})
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close() //nolint:errcheck

	var credentials service.CredentialStore
	var proofs service.ProofStore
	if pool != nil {
		credentials = credstore.NewPostgresCredentialStore(pool.DB())
		proofs = credstore.NewPostgresProofStore(pool.DB())
		log.Info("using postgres credential stores")
	} else {
		credentials = credstore.NewInMemoryCredentialStore()
		proofs = credstore.NewInMemoryProofStore()
		log.Info("using in-memory credential stores")
	}

	courses := catalog.NewInMemoryStore()
	if err := seeder.New(courses, log).SeedAll(context.Background()); err != nil {
		log.Error("failed to seed course catalog", "error", err)
		os.Exit(1)
	}

	sess := session.New(cfg.Network)
	trc := tracer.NewOTel()
	ledgerMetrics := lmetrics.New()

	var chain service.Ledger
	switch cfg.LedgerMode {
	case config.LedgerModeRPC:
		chain = ledger.NewRPC(cfg.WalletAddress,
			ledger.WithRPCTracer(trc),
			ledger.WithRPCMetrics(ledgerMetrics),
		)
	default:
		chain = ledger.NewMock(
			ledger.WithBalance(cfg.MockBalance),
			ledger.WithTracer(trc),
			ledger.WithMetrics(ledgerMetrics),
		)
	}

	auditStore := audit.NewInMemoryStore()
	auditorOpts := []audit.PublisherOption{audit.WithPublisherLogger(log)}
	if cfg.AuditBuffer > 0 {
		auditorOpts = append(auditorOpts, audit.WithAsyncBuffer(cfg.AuditBuffer))
	}
	auditor := audit.NewPublisher(auditStore, auditorOpts...)
	defer auditor.Close()

	flows := service.NewService(
		credentials,
		proofs,
		courses,
		chain,
		sess,
		cfg.IssuerDID,
		cfg.SystemAddress,
		service.WithAuditor(auditor),
		service.WithMetrics(cmetrics.New()),
		service.WithTracer(trc),
		service.WithLogger(log),
	)

	tokens := identity.NewTokenService(cfg.JWTSigningKey, "vocert", cfg.TokenTTL)

	healthHandler := health.New(string(cfg.Network))
	healthHandler.RegisterCheck("ledger", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_, err := chain.Balance(ctx, sess.Network())
		return err
	})
	if pool != nil {
		healthHandler.RegisterCheck("database", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Health(ctx)
		})
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Credentials: credentialhandler.New(flows, sess, credentialhandler.DemoIdentities{
			Student:  cfg.StudentDID,
			Employer: cfg.EmployerDID,
		}, log),
		Session:  sessionhandler.New(sess, log),
		Health:   healthHandler,
		Verifier: tokens,
		Logger:   log,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
