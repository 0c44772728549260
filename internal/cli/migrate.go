package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AI2HU/geolens/internal/db"
	"github.com/AI2HU/geolens/internal/db/sqlite"
)

var migrationsDir string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage SQLite schema migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE:  runMigrateUp,
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current migration version",
	RunE:  runMigrateStatus,
}

func init() {
	migrateCmd.PersistentFlags().StringVar(&migrationsDir, "dir", "", "Migrations directory (default: internal/db/migrations)")
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}

// openSQLite opens the configured SQLite store outside the hybrid database
// so migrations can run against the raw connection.
func openSQLite(ctx context.Context) (*sqlite.SQLite, error) {
	store, err := sqlite.New(cfg.SQLDatabase.ToModel())
	if err != nil {
		return nil, fmt.Errorf("failed to create SQLite store: %w", err)
	}
	if err := store.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite: %w", err)
	}
	return store, nil
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	store, err := openSQLite(ctx)
	if err != nil {
		return err
	}
	defer store.Disconnect(ctx)

	fmt.Printf("%s⬆ Applying migrations...%s\n", InfoStyle, Reset)
	if err := db.RunMigrations(ctx, store.DB(), migrationsDir); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	fmt.Printf("%s✅ Database is up to date%s\n", SuccessStyle, Reset)
	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	store, err := openSQLite(ctx)
	if err != nil {
		return err
	}
	defer store.Disconnect(ctx)

	version, dirty, err := db.MigrationVersion(ctx, store.DB(), migrationsDir)
	if err != nil {
		return err
	}
	if version == 0 {
		fmt.Printf("%sNo migrations applied yet%s\n", DimStyle, Reset)
		return nil
	}

	fmt.Printf("%sVersion:%s %d\n", LabelStyle, Reset, version)
	if dirty {
		fmt.Printf("%s⚠️  Last migration is dirty and needs manual repair%s\n", WarningStyle, Reset)
	}
	return nil
}
