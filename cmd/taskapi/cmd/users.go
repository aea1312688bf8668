package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/taskapi/internal/taskapi/app"
	"github.com/aussiebroadwan/taskapi/internal/taskapi/domain"
)

var usersRole string

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage accounts directly in the database",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var role domain.Role
		if usersRole != "" {
			var err error
			if role, err = domain.ParseRole(usersRole); err != nil {
				return fmt.Errorf("invalid --role %q: %w", usersRole, err)
			}
		}

		return withApplication(func(application *app.Application) error {
			users, err := application.UserService.ListUsers(cmd.Context(), role)
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}

			if len(users) == 0 {
				pterm.Info.Println("No accounts found.")
				return nil
			}

			table := pterm.TableData{{"ID", "NAME", "EMAIL", "ROLE", "ENABLED", "CREATED"}}
			for _, u := range users {
				table = append(table, []string{
					u.ID,
					u.Name,
					u.Email,
					string(u.Role),
					strconv.FormatBool(u.Enabled),
					u.CreatedAt.Format(time.RFC3339),
				})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(table).Render()
		})
	},
}

var usersPromoteCmd = &cobra.Command{
	Use:   "promote <email>",
	Short: "Grant the ADMIN role to an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApplication(func(application *app.Application) error {
			u, err := application.UserService.GetUserByEmail(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to find %s: %w", args[0], err)
			}

			u, err = application.UserService.SetRole(cmd.Context(), u.ID, domain.RoleAdmin)
			if err != nil {
				return fmt.Errorf("failed to promote %s: %w", args[0], err)
			}

			pterm.Success.Printf("%s is now %s\n", u.Email, u.Role)
			return nil
		})
	},
}

var usersToggleCmd = &cobra.Command{
	Use:   "toggle <email>",
	Short: "Enable or disable an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApplication(func(application *app.Application) error {
			u, err := application.UserService.GetUserByEmail(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to find %s: %w", args[0], err)
			}

			u, err = application.UserService.ToggleStatus(cmd.Context(), u.ID)
			if err != nil {
				return fmt.Errorf("failed to toggle %s: %w", args[0], err)
			}

			if u.Enabled {
				pterm.Success.Printf("%s enabled\n", u.Email)
			} else {
				pterm.Warning.Printf("%s disabled\n", u.Email)
			}
			return nil
		})
	},
}

func init() {
	usersListCmd.Flags().StringVar(&usersRole, "role", "", "Only list accounts with this role (USER or ADMIN)")

	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersPromoteCmd)
	usersCmd.AddCommand(usersToggleCmd)
}
