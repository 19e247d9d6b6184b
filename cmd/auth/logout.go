package auth

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func getLogoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "logout",
		Short:        "Remove the saved registry credential",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := ConfigPath()
			if err != nil {
				return err
			}

			if err := os.Remove(configPath); err != nil {
				if os.IsNotExist(err) {
					fmt.Println("No saved credential")
					return nil
				}
				return fmt.Errorf("error removing auth config file: %w", err)
			}

			fmt.Println("Credential removed")
			return nil
		},
	}

	return cmd
}
