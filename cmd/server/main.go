package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campusgrid/cms-core/internal/app"
	"github.com/campusgrid/cms-core/internal/config"
	jwtpkg "github.com/campusgrid/cms-core/internal/pkg/jwt"
	"github.com/campusgrid/cms-core/internal/pkg/logging"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownGrace = 10 * time.Second

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "Path to YAML config file")
	issueToken := flag.String("issue-token", "", "Print a bearer token for this user id and exit")
	tokenAuthor := flag.String("token-author", "", "Author id to bind to the issued token")
	tokenTTL := flag.Duration("token-ttl", 30*24*time.Hour, "Lifetime of the issued token")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *issueToken != "" {
		jwtpkg.SetSecret(cfg.JWTSecret)
		tok, err := jwtpkg.Sign(*issueToken, *tokenAuthor, *tokenTTL)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(tok)
		return
	}

	logger, err := logging.New(cfg.Log.Dir, cfg.Log.Level)
	if err != nil {
		logger, _ = zap.NewProduction()
		logger.Warn("log pipeline unavailable, using zap production logger", zap.Error(err))
	}
	defer logger.Sync()

	if err := serve(logger, cfg); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
	logger.Info("server exited")
}

// serve runs the API until SIGINT or SIGTERM, then drains in-flight
// requests for up to shutdownGrace.
func serve(logger *zap.Logger, cfg *config.AppConfig) error {
	application, err := app.New(logger, cfg)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer application.Shutdown()

	srv := &http.Server{
		Addr:              application.Addr(),
		Handler:           application.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.String("api", "http://localhost"+srv.Addr+app.APIPrefix))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
