package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/taskapi/internal/taskapi/app"
	"github.com/aussiebroadwan/taskapi/internal/taskapi/service"
)

var (
	servePort int
	serveSeed bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  `Applies pending migrations, then serves the API until SIGINT or SIGTERM.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}

		application, err := app.New(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}

		if serveSeed {
			created, err := service.Seed(cmd.Context(), application.AuthService, application.UserService, service.DemoAccounts)
			if err != nil {
				_ = application.Close()
				return fmt.Errorf("failed to seed demo accounts: %w", err)
			}
			application.Logger().Info("demo accounts seeded", "created", created)
		}

		return application.Run()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "HTTP port (env: PORT)")
	serveCmd.Flags().BoolVar(&serveSeed, "seed", false, "Create the demo accounts before serving")
}
