package auth

import (
	"github.com/spf13/cobra"
)

// GetRootCmd returns the auth command
func GetRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the registry credential",
		Long:  `Save, inspect, and remove the bearer token used for asset downloads`,
	}

	rootCmd.AddCommand(getLoginCmd())
	rootCmd.AddCommand(getLogoutCmd())
	rootCmd.AddCommand(getStatusCmd())

	return rootCmd
}
