package app

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"github.com/healthsync/healthsync/database"
)

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending database migrations",
	Long: `Apply pending database migrations to bring the schema up to date.
This command reads the database connection parameters from the config file
and applies all migrations that haven't been run yet.`,
	RunE: runMigrateUp,
}

func runMigrateUp(cmd *cobra.Command, _ []string) error {
	cfg, connString, err := migrationConnString(cmd)
	if err != nil {
		return err
	}

	yes, err := cmd.Flags().GetBool("yes")
	if err != nil {
		return fmt.Errorf("failed to get yes flag: %w", err)
	}

	numSteps, err := cmd.Flags().GetUint("num-steps")
	if err != nil {
		return fmt.Errorf("failed to get num-steps flag: %w", err)
	}

	if !yes {
		prompt := fmt.Sprintf("About to apply migrations to database %s@%s:%d/%s. Continue?",
			cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)
		if !confirm(prompt) {
			slog.Info("Migration cancelled by user")
			return nil
		}
	}

	m, err := database.GetMigrate(connString)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			slog.Error("Error closing migrator", "source_error", srcErr, "db_error", dbErr)
		}
	}()

	slog.Info("Applying database migrations")
	if numSteps == 0 {
		err = m.Up()
	} else {
		if numSteps > math.MaxInt {
			return fmt.Errorf("number of steps exceeds maximum allowed value")
		}
		err = m.Steps(int(numSteps)) // #nosec G115 -- overflow checked above
	}
	if err != nil {
		if err == migrate.ErrNoChange {
			slog.Info("No pending migrations, database is up to date")
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	displayMigrationVersion(m)
	return nil
}

func displayMigrationVersion(m database.Migrator) {
	version, dirty, err := m.Version()
	if err != nil {
		slog.Warn("Failed to get migration version", "error", err)
		return
	}
	if dirty {
		slog.Warn("Database is in a dirty state, manual intervention may be required",
			"version", version)
		return
	}
	slog.Info("Migrations applied successfully", "version", version)
}
