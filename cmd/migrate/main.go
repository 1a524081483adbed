package main

// Run database migrations and optionally seed a login:
//   go run ./cmd/migrate --seed-user admin --seed-password secret

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/NancyCima/Azure-Dashboard/internal/shared/auth"
	"github.com/NancyCima/Azure-Dashboard/internal/shared/config"
	"github.com/NancyCima/Azure-Dashboard/internal/shared/storage/db"
	"github.com/NancyCima/Azure-Dashboard/internal/shared/telemetry"
	"github.com/NancyCima/Azure-Dashboard/internal/users"
)

func main() {
	var seedUser, seedPassword string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply credential store migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), seedUser, seedPassword)
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVar(&seedUser, "seed-user", "", "Create this user after migrating")
	cmd.Flags().StringVar(&seedPassword, "seed-password", "", "Password for --seed-user")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		color.New(color.FgRed, color.Bold).Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, seedUser, seedPassword string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseDriver, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB, cfg.DatabaseDriver); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	color.Green("migrations applied (%s)", cfg.DatabaseDriver)

	if seedUser == "" {
		return nil
	}
	var repo users.Repo = &users.PGRepo{DB: sqlDB}
	if cfg.DatabaseDriver == "mysql" {
		repo = &users.MySQLRepo{DB: sqlDB}
	}
	svc := users.NewService(repo, auth.NewIssuer(cfg.JWTSecret, 0), telemetry.NewNoOpLogger())
	if _, err := svc.Register(ctx, seedUser, seedPassword); err != nil {
		if errors.Is(err, users.ErrAlreadyExists) {
			color.Yellow("user %q already exists", seedUser)
			return nil
		}
		return fmt.Errorf("seed user: %w", err)
	}
	color.Green("user %q created", seedUser)
	return nil
}
