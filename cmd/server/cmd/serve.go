package cmd

import (
	"ReferralHub/internal/adapters/auth"
	"ReferralHub/internal/adapters/cache"
	"ReferralHub/internal/adapters/eventbus"
	"ReferralHub/internal/adapters/metrics"
	"ReferralHub/internal/adapters/postgres"
	"ReferralHub/internal/adapters/rest"
	"ReferralHub/internal/adapters/security"
	"ReferralHub/internal/adapters/telegram"
	"ReferralHub/internal/core/ports"
	"ReferralHub/internal/core/services"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const eventHandlerTimeout = 10 * time.Second

var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the moderator bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if migrateOnStart {
			if err := postgres.MigrateUp(cfg.Postgres.URL, &log); err != nil {
				return err
			}
		}

		secSvc, err := security.NewAESServiceFromHex(cfg.EncryptionKey, &log)
		if err != nil {
			return fmt.Errorf("init security service: %w", err)
		}

		db, err := postgres.NewDB(ctx, cfg.Postgres.URL, cfg.Postgres.MaxConns, &log)
		if err != nil {
			return err
		}
		defer db.Close()

		userRepo := postgres.NewUserRepository(db, &log)
		ledgerRepo := postgres.NewLedgerRepository(db, &log)
		withdrawalRepo := postgres.NewWithdrawalRepository(db, secSvc, &log)

		dirCache, closeCache := directoryCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.CacheTTL, &log)
		defer closeCache()
		directory := services.NewCachedDirectory(userRepo, dirCache, cfg.Redis.CacheTTL, &log)

		bus := eventbus.NewInMemoryEventBus(eventHandlerTimeout, &log)
		m := metrics.New()
		m.Subscribe(bus)

		wallet := services.NewWalletService(services.WalletDeps{
			Users:       userRepo,
			Directory:   directory,
			Ledgers:     ledgerRepo,
			Withdrawals: withdrawalRepo,
			Bus:         bus,
		}, &log)

		tokens, err := auth.NewJWTService(cfg.Auth.SigningKey, cfg.Auth.TokenTTL, &log)
		if err != nil {
			return err
		}

		server := rest.NewServer(rest.ServerDeps{
			Wallet:         wallet,
			Tokens:         tokens,
			Health:         db,
			Metrics:        m.Handler(),
			MetricsMW:      m.Middleware(),
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
		}, &log)
		bot := telegram.NewOrchestrator(cfg, wallet, userRepo, bus, &log)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return server.Run(gctx, cfg.HTTP.Port, cfg.HTTP.ShutdownTimeout)
		})
		g.Go(func() error {
			// The API keeps serving when Telegram is unreachable.
			if err := bot.Start(gctx); err != nil {
				log.Error().Err(err).Msg("Moderator bot stopped")
			}
			return nil
		})
		runErr := g.Wait()

		drainCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := bus.Wait(drainCtx); err != nil {
			log.Warn().Err(err).Msg("Event handlers still running at shutdown")
		}

		log.Info().Msg("Shutdown complete")
		return runErr
	},
}

// directoryCache picks the cache behind the user directory: in-process
// only, or in-process in front of Redis when an address is configured.
func directoryCache(ctx context.Context, addr, password string, db int, ttl time.Duration, log *zerolog.Logger) (ports.Cache, func()) {
	local := cache.NewMemoryCache(ttl, 2*ttl)
	if addr == "" {
		return local, func() {}
	}

	remote, closeRemote, err := cache.NewRedisCache(ctx, addr, password, db, log)
	if err != nil {
		log.Warn().Err(err).Str("addr", addr).Msg("Redis unavailable, using in-process cache only")
		return local, func() {}
	}
	return cache.NewMultiLevelCache(local, remote, ttl), func() {
		if err := closeRemote(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis client")
		}
	}
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", true, "apply pending migrations before serving")
	rootCmd.AddCommand(serveCmd)
}
