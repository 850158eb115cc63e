package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MelanieChenMC/meliora/internal/database"
	"github.com/MelanieChenMC/meliora/internal/models"
	"github.com/MelanieChenMC/meliora/pkg/config"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database schema migrations",
	Long: `Bring the database schema up to date.

The schema is managed through GORM auto-migration: tables and columns
for sessions, chunks, suggestions, and summaries are created or extended
as needed. Existing data is preserved.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().Bool("dry-run", false, "show what would be migrated without making changes")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if dryRun {
		fmt.Println("Dry run mode - no changes will be made")
		fmt.Printf("Would migrate database at %s with models:\n", cfg.Database.Path)
		fmt.Println("  sessions, chunks, suggestions, summaries")
		return nil
	}

	db, err := database.Initialize(cfg.Database.Path, cfg.Database.Verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(
		&models.Session{},
		&models.Chunk{},
		&models.Suggestion{},
		&models.Summary{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	fmt.Printf("Database at %s is up to date\n", cfg.Database.Path)
	return nil
}
