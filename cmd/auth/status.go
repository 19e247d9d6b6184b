package auth

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/airsync/airsync/config"
)

// maskToken hides all but the last four characters of a token.
func maskToken(token string) string {
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", len(token)-4) + token[len(token)-4:]
}

func getStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "status",
		Short:        "Show the saved registry credential",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			authConfig, err := LoadConfig()
			if err != nil {
				return err
			}

			if authConfig.Token == "" {
				return fmt.Errorf("not logged in: no token found. Run 'airsync auth login' first")
			}

			registryURL := authConfig.RegistryURL
			if registryURL == "" {
				registryURL = config.DefaultRegistryURL
			}

			fmt.Printf("Token:    %s\n", maskToken(authConfig.Token))
			fmt.Printf("Registry: %s\n", registryURL)
			return nil
		},
	}

	return cmd
}
