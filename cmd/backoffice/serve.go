package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/suteetoe/backoffice/internal/authz"
	"github.com/suteetoe/backoffice/internal/handler"
	"github.com/suteetoe/backoffice/internal/middleware"
	"github.com/suteetoe/backoffice/internal/model"
	"github.com/suteetoe/backoffice/internal/seed"
	"github.com/suteetoe/backoffice/internal/service"
	"github.com/suteetoe/backoffice/pkg/database"
	"github.com/suteetoe/backoffice/pkg/jwtutil"
	"github.com/suteetoe/backoffice/pkg/logger"
	"github.com/suteetoe/backoffice/pkg/metrics"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Usage: "listen port, overrides SERVER_PORT"},
			&cli.BoolFlag{Name: "seed", Usage: "load sample data when the database is empty, overrides SEED_ON_START"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			if c.IsSet("port") {
				a.cfg.Server.Port = c.String("port")
			}
			if c.IsSet("seed") {
				a.cfg.Seed.OnStart = c.Bool("seed")
			}
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	if err := database.MigrateModels(a.db, model.All()...); err != nil {
		return err
	}
	if a.cfg.Seed.OnStart {
		if _, err := seed.Run(ctx, a.db, time.Now); err != nil {
			return err
		}
	}

	enforcer, err := authz.NewEnforcer()
	if err != nil {
		return err
	}
	for _, alias := range a.cfg.Auth.AdminRoleAliases {
		if err := enforcer.Inherit(alias, authz.RoleAdmin); err != nil {
			return err
		}
	}

	m := metrics.NewHTTPMetrics(a.cfg.ServiceName, a.cfg.Metrics.Prefix)
	a.log.Info("Prometheus metrics initialized", zap.String("metrics_prefix", a.cfg.Metrics.Prefix))

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(middleware.RequestID())
	e.Use(logger.Middleware())
	e.Use(m.Middleware())

	e.GET("/health", handler.Health(a.db))
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	api := e.Group("/api", middleware.JWTAuth(jwtutil.NewJWTUtil(&a.cfg.JWT), m))
	handler.RegisterAPI(api, service.NewServices(a.db), enforcer, m)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("Starting server", zap.String("port", a.cfg.Server.Port))
		errCh <- e.Start(":" + a.cfg.Server.Port)
	}()

	select {
	case <-ctx.Done():
		a.log.Info("Shutting down server")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("Server error", zap.Error(err))
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
