package cli

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"netquiz/internal/config"
	pgmigrations "netquiz/internal/infra/postgres/migrations"
)

// NewMigrateCmd applies database migrations, including the default bank seed.
func NewMigrateCmd(root *rootOptions, v *viper.Viper) *cobra.Command {
	var postgresURL string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(root.verbose)
			cfg, err := config.Load(root.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("postgres-url") {
				cfg.Postgres.URL = postgresURL
			}
			return runMigrationsWithConfig(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&postgresURL, "postgres-url", "", "postgres URL to migrate (env: NETQUIZ_POSTGRES_URL)")
	bindEnv(v, cmd.Flags())
	return cmd
}

func runMigrationsWithConfig(ctx context.Context, cfg config.Config) error {
	if cfg.Postgres.URL == "" {
		return errors.New("postgres url not configured")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)

	if err := migrator.Init(ctx); err != nil {
		return err
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return err
	}
	if group.IsZero() {
		slog.InfoContext(ctx, "migrate: database is up to date")
		return nil
	}
	slog.InfoContext(ctx, "migrate: applied", "group", group.String())
	return nil
}
