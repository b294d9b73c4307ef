// Command server runs the socifi HTTP API: the social feed, wallet login and
// the one-time Sui reward payouts behind them.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/socifi-backend/internal/config"
	httpapi "github.com/tbourn/socifi-backend/internal/http"
	"github.com/tbourn/socifi-backend/internal/observability"
	"github.com/tbourn/socifi-backend/internal/repo"
	"github.com/tbourn/socifi-backend/internal/services"
	"github.com/tbourn/socifi-backend/internal/sui"
	"github.com/tbourn/socifi-backend/internal/sysutil"
	"github.com/tbourn/socifi-backend/internal/wallet"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.ConfigureLogging(cfg.LogLevel, cfg.LogPretty, os.Stderr)
	gin.SetMode(cfg.GinMode)

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, observability.ServiceInfo{
		Version: version,
		Network: cfg.Chain.Network,
	})
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	dsn := cfg.DBPath
	if cfg.DBDriver == "postgres" {
		dsn = cfg.DatabaseURL
	}
	db, err := repo.Open(cfg.DBDriver, dsn)
	if err != nil {
		return err
	}
	if cfg.OTEL.Enabled {
		if err := repo.UseTracing(db); err != nil {
			return err
		}
	}
	if err := repo.AutoMigrate(db); err != nil {
		return err
	}

	rpcURL := cfg.Chain.RPCURL
	if rpcURL == "" {
		if rpcURL, err = sui.FullnodeURL(cfg.Chain.Network); err != nil {
			return err
		}
	}
	hot := wallet.New(cfg.Wallet.Secret, cfg.Wallet.RewardAmountRaw, sui.NewClient(rpcURL),
		cfg.Chain.FinalityTimeout, cfg.Chain.TransferTimeout)

	auth := &services.AuthService{
		DB:         db,
		Challenges: &services.DBChallengeStore{DB: db, TTL: cfg.Auth.NonceTTL},
		Secret:     []byte(cfg.Auth.JWTSecret),
		TTL:        cfg.Auth.JWTTTL,
	}

	sched, err := services.StartReconciler(cfg.ReconcileInterval, &services.Reconciler{DB: db, Sample: 10})
	if err != nil {
		return err
	}
	if sched != nil {
		defer func() {
			if err := sched.Shutdown(); err != nil {
				log.Warn().Err(err).Msg("reconciler shutdown")
			}
		}()
	}

	r := gin.New()
	httpapi.RegisterRoutes(r, httpapi.Deps{DB: db, Wallet: hot, Auth: auth}, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("network", cfg.Chain.Network).
			Bool("hot_wallet", hot.IsConfigured()).
			Str("version", version).
			Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(sctx)
}
