package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/Builder-Lawyers/builder-admin/internal/infra/config"
	infradb "github.com/Builder-Lawyers/builder-admin/internal/infra/db"
	"github.com/Builder-Lawyers/builder-admin/internal/presentation/rest"
	"github.com/Builder-Lawyers/builder-admin/internal/presentation/scheduler"
	"github.com/Builder-Lawyers/builder-admin/pkg/db"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type ServeOptions struct {
	*RootOptions
	Migrate bool
}

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the install step worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Migrate, "migrate", false, "apply pending migrations before serving")

	return cmd
}

func NewApp(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.AllowOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))
	return app
}

func serve(ctx context.Context, opts *ServeOptions) error {
	cfg := opts.cfg
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DB)
	if err != nil {
		return err
	}
	uowFactory := db.NewUoWFactory(pool)
	defer pool.Close()

	if opts.Migrate {
		if err = infradb.Migrate(ctx, pool); err != nil {
			return err
		}
	}

	handlers, procs, err := Init(ctx, cfg, uowFactory)
	if err != nil {
		return err
	}

	app := NewApp(cfg)
	rest.RegisterHandlers(app, rest.NewServer(handlers, pool, cfg.Auth.CookieName))

	outboxPoller := scheduler.NewOutboxPoller(procs, uowFactory, cfg.Scheduler.Limit, cfg.Scheduler.Interval)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zap.S().Infow("listening", "addr", cfg.HTTP.ListenAddr)
		return app.Listen(cfg.HTTP.ListenAddr)
	})
	g.Go(func() error {
		return outboxPoller.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		zap.S().Info("gracefully shutting down...")
		return app.ShutdownWithTimeout(30 * time.Second)
	})

	if err = g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	zap.S().Info("server was successfully shutdown")
	_ = zap.S().Sync()
	return nil
}
