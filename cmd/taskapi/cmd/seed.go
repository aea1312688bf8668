package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/taskapi/internal/taskapi/app"
	"github.com/aussiebroadwan/taskapi/internal/taskapi/service"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the demo accounts",
	Long: `Registers the demo administrator and user accounts when they do not exist.
Running it again leaves existing accounts untouched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApplication(func(application *app.Application) error {
			created, err := service.Seed(cmd.Context(), application.AuthService, application.UserService, service.DemoAccounts)
			if err != nil {
				return fmt.Errorf("failed to seed demo accounts: %w", err)
			}

			if created == 0 {
				pterm.Info.Println("Demo accounts already exist.")
				return nil
			}

			pterm.Success.Printf("Created %d demo account(s)\n", created)
			table := pterm.TableData{{"EMAIL", "PASSWORD", "ROLE"}}
			for _, a := range service.DemoAccounts {
				table = append(table, []string{a.Email, a.Password, string(a.Role)})
			}
			_ = pterm.DefaultTable.WithHasHeader().WithData(table).Render()
			return nil
		})
	},
}
