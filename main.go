package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"recipesplusplus/config"
	"recipesplusplus/routes"
	"recipesplusplus/seed"
)

const name = "recipesplusplus"

var (
	// overridden during build with ldflags
	version = "dev"
	commit  = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().Run(ctx, os.Args); err != nil {
		slog.Error("exiting", "error", err)
		os.Exit(1)
	}
}

func rootCmd() *cli.Command {
	serve := serveCmd()
	return &cli.Command{
		Name:     name,
		Usage:    "Recipe, ingredient and grocery list API",
		Version:  fmt.Sprintf("%s (%s)", version, commit),
		Commands: []*cli.Command{serve, seedCmd()},
		Action:   serve.Action,
	}
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API (default)",
		Action: func(ctx context.Context, _ *cli.Command) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			return serve(ctx, cfg)
		},
	}
}

func seedCmd() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Load units and ingredients from a YAML file",
		Description: `Inserts every unit and ingredient in the file whose name is not stored yet.
Running it again with the same file changes nothing.

  units:
    - name: cup
  ingredients:
    - name: Flour
      image_url: /static/uploads/flour.jpg`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Value:   "units.yaml",
				Usage:   "Path to the seed file",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := setup()
			if err != nil {
				return err
			}

			f, err := seed.ParseFile(cmd.String("file"))
			if err != nil {
				return err
			}

			b, err := openBackend(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
				defer cancel()
				if err := b.Close(closeCtx); err != nil {
					slog.Warn("cleanup failed", "error", err)
				}
			}()

			_, err = seed.Apply(ctx, seed.Target{
				Units:       b.services.Units,
				Ingredients: b.services.Ingredients,
				IDs:         b.services.IDs,
			}, f)
			return err
		},
	}
}

// setup loads config and installs the default logger.
func setup() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	slog.SetDefault(cfg.NewLogger())
	return cfg, nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	slog.Info("starting server",
		"version", version,
		"commit", commit,
		"port", cfg.Port,
		"database", cfg.MongoDatabase,
		"authMechanism", cfg.AuthMechanism,
		"rateLimit", float64(cfg.RateLimit),
		"rateLimitBurst", cfg.RateLimitBurst,
		"cacheTTL", cfg.CacheTTL.String(),
		"logLevel", cfg.LogLevel.String(),
	)

	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr: cfg.Addr(),
		Handler: routes.New(b.services, routes.Options{
			UploadDir:      cfg.UploadDir,
			AllowedOrigins: cfg.CORSAllowedOrigins,
			RateLimit:      cfg.RateLimit,
			RateLimitBurst: cfg.RateLimitBurst,
		}),
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		slog.Info("cleaning up resources before shutdown")
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", server.Addr, err)
		}
		return nil
	})

	if b.refresher != nil {
		g.Go(func() error {
			return b.refresher.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutdown signal received, shutting down gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		var errs []error
		if err := server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown server: %w", err))
		}
		if err := b.Close(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("server stopped cleanly")
	return nil
}
