package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/healthsync/healthsync/internal/config"
	"github.com/healthsync/healthsync/internal/db"
	"github.com/healthsync/healthsync/internal/metrics"
	"github.com/healthsync/healthsync/internal/service"
	dbservice "github.com/healthsync/healthsync/internal/service/db"
)

var statusCmd = &cobra.Command{
	Use:   "status [username]",
	Short: "Show sync status for a user",
	Long: `Show checkpoint counts and recent unit failures for a user, as JSON on
standard output.

Examples:
  # Status over the default trailing 30 days
  healthsync status alice --config config.yaml

  # Status for January, including failed units
  healthsync status alice --config config.yaml \
    --start 2024-01-01 --end 2024-01-31 --failures`,
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().String("config", "", "Path to configuration file (YAML format, required)")
	statusCmd.Flags().String("start", "", "First day of the range (YYYY-MM-DD)")
	statusCmd.Flags().String("end", "", "Last day of the range (YYYY-MM-DD)")
	statusCmd.Flags().Bool("failures", false, "Include per-unit failure details")

	if err := statusCmd.MarkFlagRequired("config"); err != nil {
		panic(err)
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	username := args[0]

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(config.WithConfigPath(configPath))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	opts, err := statusOptions(cmd)
	if err != nil {
		return err
	}

	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer conn.Close()

	svc, err := dbservice.New(dbservice.WithConnectionPool(conn.Pool))
	if err != nil {
		return fmt.Errorf("failed to create reporting service: %w", err)
	}

	status, err := svc.GetSyncStatus(ctx, username, opts...)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return fmt.Errorf("unknown user %q", username)
		}
		return fmt.Errorf("failed to query sync status: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(status)
}

func statusOptions(cmd *cobra.Command) ([]service.Option[service.SyncStatusOptions], error) {
	startStr, _ := cmd.Flags().GetString("start")
	endStr, _ := cmd.Flags().GetString("end")
	failures, _ := cmd.Flags().GetBool("failures")

	var opts []service.Option[service.SyncStatusOptions]
	if startStr != "" || endStr != "" {
		if startStr == "" || endStr == "" {
			return nil, fmt.Errorf("start and end must be given together")
		}
		start, err := metrics.ParseDate(startStr)
		if err != nil {
			return nil, fmt.Errorf("invalid start date: %w", err)
		}
		end, err := metrics.ParseDate(endStr)
		if err != nil {
			return nil, fmt.Errorf("invalid end date: %w", err)
		}
		opts = append(opts, service.WithStatusRange(start, end))
	}
	if failures {
		opts = append(opts, service.WithFailures())
	}
	return opts, nil
}
