package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/healthsync/healthsync/internal/config"
	"github.com/healthsync/healthsync/internal/db"
	"github.com/healthsync/healthsync/internal/db/pgtypes"
	"github.com/healthsync/healthsync/internal/db/sqlc"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage sync users",
	Long:  `Manage the users known to the sync engine. Use with 'add', 'list' or 'remove' subcommands.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Usage()
	},
}

var usersAddCmd = &cobra.Command{
	Use:   "add [username]",
	Short: "Register a user",
	Long: `Register a user for synchronization. The credential reference names the
stored credential used to authenticate against the remote service; its
contents never pass through this tool.`,
	Args: cobra.ExactArgs(1),
	RunE: runUsersAdd,
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered users",
	RunE:  runUsersList,
}

var usersRemoveCmd = &cobra.Command{
	Use:   "remove [username]",
	Short: "Remove a user",
	Long: `Remove a user. Synced metric data and checkpoints for the user are
deleted with it.`,
	Args: cobra.ExactArgs(1),
	RunE: runUsersRemove,
}

func init() {
	usersCmd.PersistentFlags().String("config", "", "Path to configuration file (YAML format, required)")
	if err := usersCmd.MarkPersistentFlagRequired("config"); err != nil {
		panic(err)
	}

	usersAddCmd.Flags().String("display-name", "", "Human-readable name for the user")
	usersAddCmd.Flags().String("credential-ref", "", "Reference to the stored remote credential (required)")
	if err := usersAddCmd.MarkFlagRequired("credential-ref"); err != nil {
		panic(err)
	}

	usersRemoveCmd.Flags().BoolP("yes", "y", false, "Answer yes to all questions")

	usersCmd.AddCommand(usersAddCmd)
	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersRemoveCmd)
}

// usersConnect loads the config named by the persistent --config flag and
// opens a database connection.
func usersConnect(ctx context.Context, cmd *cobra.Command) (*db.Connection, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := config.LoadConfig(config.WithConfigPath(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return conn, nil
}

func runUsersAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	username := args[0]
	displayName, _ := cmd.Flags().GetString("display-name")
	credentialRef, _ := cmd.Flags().GetString("credential-ref")

	conn, err := usersConnect(ctx, cmd)
	if err != nil {
		return err
	}
	defer conn.Close()

	user, err := conn.Queries.CreateUser(ctx, sqlc.CreateUserParams{
		Username:      username,
		DisplayName:   pgtypes.Text(displayName),
		CredentialRef: credentialRef,
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user registered",
		"username", user.Username,
		"id", pgtypes.ToUUID(user.ID).String())
	return nil
}

func runUsersList(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	conn, err := usersConnect(ctx, cmd)
	if err != nil {
		return err
	}
	defer conn.Close()

	users, err := conn.Queries.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "USERNAME\tDISPLAY NAME\tCREATED\tLAST SYNC")
	for _, user := range users {
		lastSync := "never"
		if t := pgtypes.ToTimePtr(user.LastSyncAt); t != nil {
			lastSync = t.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			user.Username,
			pgtypes.ToText(user.DisplayName),
			user.CreatedAt.Time.Format("2006-01-02"),
			lastSync)
	}
	return w.Flush()
}

func runUsersRemove(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	username := args[0]

	yes, err := cmd.Flags().GetBool("yes")
	if err != nil {
		return fmt.Errorf("failed to get yes flag: %w", err)
	}
	if !yes {
		prompt := fmt.Sprintf("Removing %q deletes all synced data for the user. Continue?", username)
		if !confirm(prompt) {
			slog.Info("Removal cancelled by user")
			return nil
		}
	}

	conn, err := usersConnect(ctx, cmd)
	if err != nil {
		return err
	}
	defer conn.Close()

	user, err := conn.Queries.GetUserByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("unknown user %q: %w", username, err)
	}

	deleted, err := conn.Queries.DeleteUser(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if deleted == 0 {
		return fmt.Errorf("user %q was not deleted", username)
	}

	slog.Info("user removed", "username", username)
	return nil
}
