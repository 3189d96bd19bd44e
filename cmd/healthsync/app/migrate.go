package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/healthsync/healthsync/internal/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Database migration tool",
	Long:  `Database migration tool for managing schema versions. Use with 'up' or 'down' subcommands.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Usage()
	},
}

func init() {
	migrateCmd.PersistentFlags().BoolP("yes", "y", false, "Answer yes to all questions")
	migrateCmd.PersistentFlags().UintP("num-steps", "n", 0, "Number of steps to migrate (0 = all)")
	migrateCmd.PersistentFlags().String("config", "", "Path to configuration file (YAML format, required)")

	if err := migrateCmd.MarkPersistentFlagRequired("config"); err != nil {
		panic(err)
	}

	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
}

// confirm prompts the user with a yes/no question on stdin.
func confirm(prompt string) bool {
	fmt.Printf("%s (yes/no): ", prompt)
	var response string
	if _, err := fmt.Scanln(&response); err != nil {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "yes" || response == "y"
}

// migrationConnString loads the config file named by the --config flag and
// builds the database connection string from it.
func migrationConnString(cmd *cobra.Command) (*config.Config, string, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, "", fmt.Errorf("failed to get config flag: %w", err)
	}

	cfg, err := config.LoadConfig(config.WithConfigPath(configPath))
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}

	connString, err := cfg.Database.GetConnectionString()
	if err != nil {
		return nil, "", fmt.Errorf("failed to build connection string: %w", err)
	}

	return cfg, connString, nil
}
