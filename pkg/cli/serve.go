package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/gitpoke/pkg/cli/config"
	httpctrl "github.com/secmon-lab/gitpoke/pkg/controller/http"
	"github.com/secmon-lab/gitpoke/pkg/service/ratelimit"
	"github.com/secmon-lab/gitpoke/pkg/service/tiercache"
	"github.com/secmon-lab/gitpoke/pkg/usecase"
	"github.com/secmon-lab/gitpoke/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var appCfg config.App
	var repoCfg config.Repository
	var cacheCfg config.Cache
	var githubCfg config.GitHub
	var authCfg config.Auth
	var notifyCfg config.Notify

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("GITPOKE_ADDR"),
			Destination: &addr,
		},
	}

	// Add shared config flags
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, cacheCfg.Flags()...)
	flags = append(flags, githubCfg.Flags()...)
	flags = append(flags, authCfg.Flags()...)
	flags = append(flags, notifyCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			tuning, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load app config")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logger.Error("failed to close repository", "error", err.Error())
				}
			}()

			kv, err := cacheCfg.ConfigureKV()
			if err != nil {
				return goerr.Wrap(err, "failed to initialize hot cache")
			}
			defer func() {
				if err := kv.Close(); err != nil {
					logger.Error("failed to close hot cache", "error", err.Error())
				}
			}()

			cold, err := cacheCfg.ConfigureObjectStore(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize badge store")
			}
			defer func() {
				if err := cold.Close(); err != nil {
					logger.Error("failed to close badge store", "error", err.Error())
				}
			}()

			githubClient, err := githubCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure GitHub client")
			}

			authUC, err := authCfg.Configure(repo, githubClient)
			if err != nil {
				return goerr.Wrap(err, "failed to configure authentication")
			}
			if authCfg.IsNoAuthnMode() {
				logger.Warn("Running in no-authn mode (development only)")
			}

			notifier, err := notifyCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure notifier")
			}

			cache := tiercache.New(kv, cold, githubClient)

			uc := usecase.New(repo, cache, githubClient, kv,
				usecase.WithAuth(authUC),
				usecase.WithNotifier(notifier),
				usecase.WithRateLimiter(ratelimit.New(kv, tuning.RateLimitOptions()...)),
			)

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logger.Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logger.Info("Server shutdown completed")
				return nil
			}
		},
	}
}
