package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/taskapi/internal/taskapi/app"
)

var cfg app.Config

var rootCmd = &cobra.Command{
	Use:   "taskapi",
	Short: "Task management API with stateless token authentication",
	Long: `taskapi serves a JSON task management API. Accounts register and log in
with an email and password and receive a signed bearer token that authenticates
every later request.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = app.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if dbFile != "" {
			cfg.DatabaseFile = dbFile
		}
		return nil
	},
}

var dbFile string

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbFile, "db", "", "SQLite database file (env: TASKAPI_DATABASE_FILE)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(genSecretCmd)
	rootCmd.AddCommand(usersCmd)
}

// withApplication builds the application without starting the HTTP server
// and closes it once fn returns.
func withApplication(fn func(*app.Application) error) error {
	quiet := cfg
	if os.Getenv("LOG_LEVEL") == "" {
		quiet.LogLevel = "warn"
	}

	application, err := app.New(quiet)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer func() { _ = application.Close() }()

	return fn(application)
}
