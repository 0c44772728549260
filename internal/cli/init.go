package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AI2HU/geolens/internal/config"
	"github.com/AI2HU/geolens/internal/db"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize geolens configuration",
	Long:  `Interactive wizard to set up geolens configuration, including both database backends.`,
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("🚀 Welcome to GeoLens Setup")
	fmt.Println("===========================")
	fmt.Println()

	configPath := config.GetConfigPath()
	if config.Exists(configPath) {
		fmt.Printf("Configuration file already exists at: %s\n", configPath)
		confirmed, err := promptYesNo(reader, "Do you want to overwrite it? (y/N): ")
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Setup cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()

	fmt.Println("\n📊 SQL Database (projects, prompts, schedules, LLMs)")
	fmt.Println("----------------------------------------------------")

	sqlPath, err := promptOptional(reader, "SQLite database path [geolens.db]: ", "geolens.db")
	if err != nil {
		return err
	}
	cfg.SQLDatabase.URI = sqlPath

	fmt.Println("\n📦 NoSQL Database (scan records)")
	fmt.Println("--------------------------------")

	uri, err := promptOptional(reader, "MongoDB URI [mongodb://localhost:27017]: ", "mongodb://localhost:27017")
	if err != nil {
		return err
	}
	cfg.NoSQLDatabase.URI = uri

	dbName, err := promptOptional(reader, "Database name [geolens]: ", "geolens")
	if err != nil {
		return err
	}
	cfg.NoSQLDatabase.Database = dbName

	fmt.Println("\n🔌 Testing database connections...")
	testDB, err := db.New(cfg.SQLDatabase.ToModel(), cfg.NoSQLDatabase.ToModel())
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	ctx := context.Background()
	if err := testDB.Connect(ctx); err != nil {
		fmt.Printf("❌ Failed to connect: %v\n", err)
		fmt.Println("\nPlease check your database configuration and try again.")
		return err
	}
	defer testDB.Disconnect(ctx)

	if err := testDB.Ping(ctx); err != nil {
		fmt.Printf("❌ Failed to ping database: %v\n", err)
		return err
	}

	fmt.Println("✅ Database connections successful!")

	fmt.Println("\n💾 Saving configuration...")
	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("✅ Configuration saved to: %s\n", configPath)

	fmt.Println("\n📋 Configuration Summary")
	fmt.Println("========================")
	fmt.Printf("SQL database: %s (%s)\n", cfg.SQLDatabase.Provider, cfg.SQLDatabase.URI)
	fmt.Printf("NoSQL database: %s (%s/%s)\n", cfg.NoSQLDatabase.Provider, cfg.NoSQLDatabase.URI, cfg.NoSQLDatabase.Database)
	fmt.Println()
	fmt.Println("🎉 Setup complete! You can now use geolens.")
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Create a project: geolens project add")
	fmt.Println("  2. Add LLM providers: geolens llm add")
	fmt.Println("  3. Create prompts: geolens prompt add")
	fmt.Println("  4. Set up schedules: geolens schedule add")
	fmt.Println("  5. Start the scheduler: geolens scheduler start")

	return nil
}
