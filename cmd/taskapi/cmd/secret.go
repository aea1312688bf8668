package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/taskapi/pkg/cryptox"
	"github.com/aussiebroadwan/taskapi/pkg/jwtx"
)

var secretBytes int

var genSecretCmd = &cobra.Command{
	Use:   "gen-secret",
	Short: "Print a random token signing secret",
	Long:  `Prints a random base64url secret suitable for AUTH_JWT_SECRET.`,
	Args:  cobra.NoArgs,
	// Needs no configuration.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		if secretBytes < jwtx.MinSecretLength {
			return fmt.Errorf("--bytes must be at least %d", jwtx.MinSecretLength)
		}

		secret, err := cryptox.GenerateSecret(secretBytes)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), secret)
		return nil
	},
}

func init() {
	genSecretCmd.Flags().IntVar(&secretBytes, "bytes", 48, "Number of random bytes")
}
