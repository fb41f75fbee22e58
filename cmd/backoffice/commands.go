package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/suteetoe/backoffice/internal/authz"
	"github.com/suteetoe/backoffice/internal/model"
	"github.com/suteetoe/backoffice/internal/seed"
	"github.com/suteetoe/backoffice/internal/service"
	"github.com/suteetoe/backoffice/pkg/database"
	"github.com/suteetoe/backoffice/pkg/jwtutil"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create or update the database schema",
		Action: func(ctx context.Context, c *cli.Command) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			if err := database.MigrateModels(a.db, model.All()...); err != nil {
				return err
			}
			a.log.Info("Database schema is up to date")
			return nil
		},
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Load sample data into an empty database",
		Action: func(ctx context.Context, c *cli.Command) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			if err := database.MigrateModels(a.db, model.All()...); err != nil {
				return err
			}
			seeded, err := seed.Run(ctx, a.db, time.Now)
			if err != nil {
				return err
			}
			if !seeded {
				fmt.Println("database already holds categories; nothing seeded")
			}
			return nil
		},
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Issue a bearer token for an existing, enabled user",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Required: true, Usage: "back-office username"},
			&cli.StringSliceFlag{Name: "role", Value: []string{authz.RoleAdmin}, Usage: "role carried by the token, repeatable"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			users := service.NewUserService(a.db)
			user, err := users.GetByUsername(ctx, c.String("username"))
			if err != nil {
				var nf *service.NotFoundError
				if errors.As(err, &nf) {
					return fmt.Errorf("no user named %q", c.String("username"))
				}
				return err
			}
			if !user.Enabled {
				return fmt.Errorf("user %q is disabled", user.Username)
			}

			token, err := jwtutil.NewJWTUtil(&a.cfg.JWT).GenerateToken(jwtutil.Subject{
				UserID:   user.ID,
				Username: user.Username,
				Email:    user.Email,
				Roles:    c.StringSlice("role"),
			})
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}
			if err := users.UpdateLastLoginDate(ctx, user.Username); err != nil {
				a.log.Warn("Failed to record last login", zap.Error(err))
			}

			fmt.Println(token)
			return nil
		},
	}
}
