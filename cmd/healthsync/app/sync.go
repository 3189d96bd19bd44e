package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/healthsync/healthsync/internal/config"
	"github.com/healthsync/healthsync/internal/db"
	"github.com/healthsync/healthsync/internal/db/pgtypes"
	"github.com/healthsync/healthsync/internal/metrics"
	"github.com/healthsync/healthsync/internal/source/remote"
	syncpkg "github.com/healthsync/healthsync/internal/sync"
	"github.com/healthsync/healthsync/internal/sync/coordinator"
	"github.com/healthsync/healthsync/internal/sync/lease"
	"github.com/healthsync/healthsync/internal/sync/retry"
	"github.com/healthsync/healthsync/internal/sync/schedule"
	"github.com/healthsync/healthsync/internal/sync/state"
	"github.com/healthsync/healthsync/internal/sync/writer"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run a sync for one user",
	Long: `Run a synchronization pass for one user, fetching metric data from the
remote service into the local database. Units already recorded in the
checkpoint table are skipped, so re-running the same range is cheap.

Examples:
  # Sync the last 30 days for alice
  healthsync sync --config config.yaml --user alice

  # Re-verify and refetch a specific month
  healthsync sync --config config.yaml --user alice \
    --start 2024-01-01 --end 2024-01-31 --force`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().String("config", "", "Path to configuration file (YAML format, required)")
	syncCmd.Flags().String("user", "", "Username to sync (required)")
	syncCmd.Flags().String("start", "", "First day of the range (YYYY-MM-DD, default: 30 days ago)")
	syncCmd.Flags().String("end", "", "Last day of the range (YYYY-MM-DD, default: today)")
	syncCmd.Flags().String("metrics", "", "Comma-separated metric types to sync (default: all)")
	syncCmd.Flags().Int("batch-size", 0, "Days per batch (default from config)")
	syncCmd.Flags().String("order", "", "Batch order: chronological or reverse-chronological")
	syncCmd.Flags().Bool("force", false, "Refetch units that are already completed or skipped")

	for _, name := range []string{"config", "user"} {
		if err := syncCmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
}

// defaultSyncRangeDays is the trailing window synced when no range is given.
const defaultSyncRangeDays = 30

func runSync(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(config.WithConfigPath(configPath))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Source == nil {
		return fmt.Errorf("source configuration is required for sync")
	}

	req, err := buildSyncRequest(cmd, cfg)
	if err != nil {
		return err
	}

	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer conn.Close()

	user, err := conn.Queries.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return fmt.Errorf("unknown user %q: %w", req.Username, err)
	}
	req.UserID = pgtypes.ToUUID(user.ID)
	req.CredentialRef = user.CredentialRef

	coord, err := buildCoordinator(cfg, conn)
	if err != nil {
		return err
	}

	job, err := coord.StartJob(ctx, *req)
	if err != nil {
		return fmt.Errorf("failed to start sync job: %w", err)
	}

	<-job.Done()
	if err := coord.Shutdown(ctx); err != nil {
		slog.Warn("Coordinator shutdown incomplete", "error", err)
	}

	result, runErr := job.Result()
	if result != nil {
		slog.Info("sync run summary",
			"user", req.Username,
			"state", string(job.State()),
			"units", result.Units,
			"completed", result.Completed,
			"skipped", result.Skipped,
			"failed", result.Failed,
			"quarantined", result.Quarantined,
			"already_done", result.AlreadyDone,
			"elapsed", result.Elapsed.Round(time.Millisecond).String())
	}
	if runErr != nil {
		return fmt.Errorf("sync run failed: %w", runErr)
	}
	return nil
}

// buildSyncRequest merges command line flags over the config file defaults.
func buildSyncRequest(cmd *cobra.Command, cfg *config.Config) (*syncpkg.Request, error) {
	username, _ := cmd.Flags().GetString("user")
	startStr, _ := cmd.Flags().GetString("start")
	endStr, _ := cmd.Flags().GetString("end")
	metricsStr, _ := cmd.Flags().GetString("metrics")
	batchSize, _ := cmd.Flags().GetInt("batch-size")
	orderStr, _ := cmd.Flags().GetString("order")
	force, _ := cmd.Flags().GetBool("force")

	end := metrics.DateOf(time.Now())
	if endStr != "" {
		var err error
		end, err = metrics.ParseDate(endStr)
		if err != nil {
			return nil, fmt.Errorf("invalid end date: %w", err)
		}
	}
	start := end.AddDays(-(defaultSyncRangeDays - 1))
	if startStr != "" {
		var err error
		start, err = metrics.ParseDate(startStr)
		if err != nil {
			return nil, fmt.Errorf("invalid start date: %w", err)
		}
	}

	req := &syncpkg.Request{
		Username: username,
		Start:    start,
		End:      end,
		Force:    force,
		OnProgress: func(p syncpkg.Progress) {
			slog.Debug("unit finished",
				"date", p.Unit.Date.String(),
				"metric", string(p.Unit.Metric),
				"status", string(p.Status),
				"done", p.Done,
				"total", p.Total)
		},
	}

	if metricsStr == "" && cfg.Sync != nil && len(cfg.Sync.Metrics) > 0 {
		metricsStr = strings.Join(cfg.Sync.Metrics, ",")
	}
	if metricsStr != "" {
		list, err := metrics.ParseList(metricsStr)
		if err != nil {
			return nil, fmt.Errorf("invalid metrics list: %w", err)
		}
		req.Metrics = list
	}

	if batchSize == 0 && cfg.Sync != nil {
		batchSize = cfg.Sync.BatchSize
	}
	req.BatchSize = batchSize

	if orderStr == "" && cfg.Sync != nil {
		orderStr = cfg.Sync.Order
	}
	order, err := schedule.ParseOrder(orderStr)
	if err != nil {
		return nil, fmt.Errorf("invalid order: %w", err)
	}
	req.Order = order

	return req, nil
}

// buildCoordinator wires the full sync pipeline from configuration: remote
// client, checkpoint store, transactional writer, verifier, retry policy and
// the lease controller.
func buildCoordinator(cfg *config.Config, conn *db.Connection) (coordinator.Coordinator, error) {
	var remoteOpts []remote.Option
	if cfg.Source.Timeout != "" {
		timeout, err := time.ParseDuration(cfg.Source.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid source timeout: %w", err)
		}
		remoteOpts = append(remoteOpts, remote.WithTimeout(timeout))
	}
	client, err := remote.New(cfg.Source.Endpoint, remoteOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create remote client: %w", err)
	}

	syncWriter, err := writer.NewDBSyncWriter(conn.Pool)
	if err != nil {
		return nil, fmt.Errorf("failed to create sync writer: %w", err)
	}

	manager := syncpkg.NewDefaultSyncManager(
		client,
		client,
		state.NewDBCheckpointStore(conn.Pool),
		syncWriter,
		syncpkg.NewDBVerifier(conn.Pool),
		syncpkg.WithRetryPolicy(retryPolicy(cfg)),
	)

	maxConcurrent := 0
	if cfg.Sync != nil {
		maxConcurrent = cfg.Sync.MaxConcurrentUsers
	}
	leases := lease.NewController(maxConcurrent)

	return coordinator.New(manager, leases, conn.Queries), nil
}

func retryPolicy(cfg *config.Config) retry.Policy {
	policy := retry.DefaultPolicy()
	if cfg.Sync != nil && cfg.Sync.Retry != nil {
		rc := cfg.Sync.Retry
		if rc.MaxAttempts > 0 {
			policy.MaxAttempts = rc.MaxAttempts
		}
		if rc.InitialDelay != "" {
			if d, err := time.ParseDuration(rc.InitialDelay); err == nil {
				policy.InitialDelay = d
			}
		}
		if rc.MaxDelay != "" {
			if d, err := time.ParseDuration(rc.MaxDelay); err == nil {
				policy.MaxDelay = d
			}
		}
	}
	policy.OnRetry = func(err error, delay time.Duration) {
		slog.Warn("retrying remote operation", "error", err, "delay", delay.String())
	}
	return policy
}
