package rest

import (
	"ReferralHub/internal/core/ports"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Pinger reports backing-store health for /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ServerDeps groups what the HTTP layer needs.
type ServerDeps struct {
	Wallet         ports.WalletService
	Tokens         ports.TokenService
	Health         Pinger
	Metrics        http.Handler
	MetricsMW      gin.HandlerFunc
	AllowedOrigins []string
}

// Server exposes the wallet API over HTTP.
type Server struct {
	wallet         ports.WalletService
	tokens         ports.TokenService
	health         Pinger
	allowedOrigins []string
	engine         *gin.Engine
	log            zerolog.Logger
}

func NewServer(deps ServerDeps, baseLogger *zerolog.Logger) *Server {
	useJSONFieldNames()

	s := &Server{
		wallet:         deps.Wallet,
		tokens:         deps.Tokens,
		health:         deps.Health,
		allowedOrigins: deps.AllowedOrigins,
		engine:         gin.New(),
		log:            baseLogger.With().Str("component", "http_server").Logger(),
	}

	s.engine.Use(gin.Recovery(), s.requestLogger(), s.cors())
	if deps.MetricsMW != nil {
		s.engine.Use(deps.MetricsMW)
	}
	s.routes(deps.Metrics)
	return s
}

func (s *Server) routes(metrics http.Handler) {
	s.engine.GET("/healthz", s.healthz)
	if metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(metrics))
	}

	wallet := s.engine.Group("/api/wallet", s.authenticate())
	wallet.GET("", s.getMyLedger)
	wallet.POST("/withdraw", s.requestWithdrawal)
	wallet.GET("/withdrawals", s.listMyWithdrawals)
	wallet.GET("/withdrawals/:id", s.getWithdrawal)

	admin := wallet.Group("/admin", s.requireAdmin())
	admin.GET("/withdrawals", s.listAllWithdrawals)
	admin.PUT("/withdrawals/:id", s.reviewWithdrawal)
	admin.PUT("/balance", s.adjustBalance)
	admin.GET("/users/:id", s.getUserLedger)
}

// Handler exposes the engine for tests and embedding.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on port until ctx is cancelled, then drains for up to
// shutdownTimeout.
func (s *Server) Run(ctx context.Context, port int, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
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

	s.log.Info().Msg("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.log.Error().Err(err).Msg("HTTP server shutdown error")
		return err
	}
	s.log.Info().Msg("HTTP server stopped gracefully")
	return nil
}

func (s *Server) healthz(c *gin.Context) {
	if s.health != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.health.Ping(ctx); err != nil {
			s.log.Warn().Err(err).Msg("Health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
