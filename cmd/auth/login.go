package auth

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/airsync/airsync/config"
)

// AuthConfig represents the saved registry credential
type AuthConfig struct {
	Token       string `json:"token"`
	RegistryURL string `json:"registry_url,omitempty"`
}

// ConfigPath returns the path of the auth config file, creating the parent
// directory if needed.
func ConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error getting home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".airsync")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("error creating config directory: %w", err)
	}

	return filepath.Join(configDir, "auth.json"), nil
}

// LoadConfig reads the saved credential. A missing file is not an error; it
// returns a zero-valued AuthConfig.
func LoadConfig() (AuthConfig, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return AuthConfig{}, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return AuthConfig{}, nil
		}
		return AuthConfig{}, fmt.Errorf("error reading auth config file: %w", err)
	}

	var authConfig AuthConfig
	if err := json.Unmarshal(data, &authConfig); err != nil {
		return AuthConfig{}, fmt.Errorf("error parsing auth config file: %w", err)
	}
	return authConfig, nil
}

// saveAuthConfig saves the credential to disk
func saveAuthConfig(authConfig AuthConfig) error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(authConfig, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling auth config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("error writing auth config file: %w", err)
	}

	return nil
}

// readToken reads the token from stdin without echoing it
func readToken(prompt string) (string, error) {
	fmt.Print(prompt)
	token, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("error reading token: %w", err)
	}
	return strings.TrimSpace(string(token)), nil
}

// readInput reads a line of text from stdin
func readInput(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("error reading input: %w", err)
	}
	return strings.TrimSpace(input), nil
}

func getLoginCmd() *cobra.Command {
	var tokenFlag string
	var registryFlag string

	cmd := &cobra.Command{
		Use:          "login",
		Short:        "Save the registry credential",
		Long:         `Store the bearer token used to authorize asset downloads`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			token := tokenFlag
			if token == "" {
				var err error
				token, err = readToken("Enter your API token: ")
				if err != nil {
					return err
				}
			}
			if token == "" {
				return fmt.Errorf("no token provided")
			}

			registryURL := registryFlag
			if registryURL == "" && tokenFlag == "" {
				// Interactive session; offer the registry prompt too.
				input, err := readInput(fmt.Sprintf("Registry URL [%s]: ", config.DefaultRegistryURL))
				if err != nil {
					return err
				}
				registryURL = input
			}

			if err := saveAuthConfig(AuthConfig{Token: token, RegistryURL: registryURL}); err != nil {
				return err
			}

			fmt.Println("Credential saved")
			return nil
		},
	}

	cmd.Flags().StringVar(&tokenFlag, "token", "", "API token (omit to be prompted)")
	cmd.Flags().StringVar(&registryFlag, "registry-url", "", "registry base URL to save alongside the token")

	return cmd
}
