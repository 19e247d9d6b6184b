package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/airsync/airsync/cmd/auth"
	"github.com/airsync/airsync/config"
	"github.com/airsync/airsync/internal/air"
	"github.com/airsync/airsync/internal/fetch"
	"github.com/airsync/airsync/internal/registry"
	cerrors "github.com/airsync/airsync/util/common/errors"
	"github.com/airsync/airsync/util/templates"
)

// version is set via ldflags during build
var version = "dev"

// Exit codes distinguish the failure stage for scripted callers.
const (
	exitOK           = 0
	exitGeneric      = 1
	exitMalformedURN = 2
	exitRegistry     = 3
	exitNotFound     = 4
	exitBadResponse  = 5
	exitLocalIO      = 6
	exitTransfer     = 7
)

func main() {
	var (
		verbose  bool
		noColor  bool
		jsonLogs bool
	)

	rootCmd := &cobra.Command{
		Use:           "airsync",
		Short:         "Sync versioned model assets from a registry",
		SilenceUsage:  true,
		SilenceErrors: true, //prevent duplicate printing of errors
		Long: templates.LongDesc(`
      airsync resolves AIR identifiers against a model registry and keeps
      the referenced asset files current on local disk.

      Files already present with a matching SHA-256 digest are left alone;
      missing or stale files are downloaded and stamped with a sidecar
      recording their origin.`),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			hydrateGlobals(cmd)

			// Set up logging based on verbose flag
			switch {
			case !verbose:
				logger = zerolog.Nop()
			case jsonLogs:
				logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
			default:
				logWriter := zerolog.ConsoleWriter{
					Out:        os.Stderr,
					TimeFormat: time.RFC3339,
					NoColor:    noColor,
				}
				logger = zerolog.New(logWriter).With().Timestamp().Logger()
			}
			return nil
		},
	}

	// Persistent flags available to all commands - bind them directly to global config
	rootCmd.PersistentFlags().StringVar(&config.Global.RegistryURL, "registry-url", "",
		"Base URL for the registry API (overrides saved config)")
	rootCmd.PersistentFlags().StringVar(&config.Global.AuthToken, "token", "",
		"Bearer token for downloads (overrides saved config)")
	rootCmd.PersistentFlags().StringVar(&config.Global.BaseDir, "base-dir", "",
		"Directory assets are placed under (overrides saved config)")
	rootCmd.PersistentFlags().BoolVar(&config.Global.ComfyLayout, "comfy-layout", false,
		"Place assets in per-type subdirectories (ComfyUI layout)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging to console")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"Disable colour output (also respects NO_COLOR env)")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json", false, "Emit logs as JSON")

	rootCmd.AddCommand(pullCmd())
	rootCmd.AddCommand(updateCmd())
	rootCmd.AddCommand(auth.GetRootCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// logger is configured in PersistentPreRunE and consumed by the subcommands.
var logger = zerolog.Nop()

// hydrateGlobals fills config.Global in precedence order: flags, then
// environment variables, then saved files, then defaults. Flag values are
// already bound; only unset fields are filled here.
func hydrateGlobals(cmd *cobra.Command) {
	if config.Global.AuthToken == "" {
		config.Global.AuthToken = os.Getenv(config.EnvToken)
	}
	if config.Global.BaseDir == "" {
		config.Global.BaseDir = os.Getenv(config.EnvBaseDir)
	}
	if config.Global.RegistryURL == "" {
		config.Global.RegistryURL = os.Getenv(config.EnvRegistryURL)
	}

	if authConfig, err := auth.LoadConfig(); err == nil {
		if config.Global.AuthToken == "" {
			config.Global.AuthToken = authConfig.Token
		}
		if config.Global.RegistryURL == "" {
			config.Global.RegistryURL = authConfig.RegistryURL
		}
	}

	if settings, err := config.LoadSettings(); err == nil {
		if config.Global.BaseDir == "" {
			config.Global.BaseDir = settings.BaseDir
		}
		if config.Global.RegistryURL == "" {
			config.Global.RegistryURL = settings.RegistryURL
		}
		if !cmd.Flags().Changed("comfy-layout") && settings.ComfyLayout {
			config.Global.ComfyLayout = true
		}
	}

	if config.Global.RegistryURL == "" {
		config.Global.RegistryURL = config.DefaultRegistryURL
	}
	if config.Global.BaseDir == "" {
		config.Global.BaseDir = "."
	}
}

// exitCode maps an error to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}

	var statusErr *registry.StatusError
	var downloadErr *fetch.DownloadError
	var fileErr *cerrors.FileError

	switch {
	case errors.Is(err, air.ErrMalformedIdentifier):
		return exitMalformedURN
	case errors.Is(err, registry.ErrVersionNotFound):
		return exitNotFound
	case errors.Is(err, registry.ErrMalformedResponse):
		return exitBadResponse
	case errors.Is(err, registry.ErrUnreachable), errors.As(err, &statusErr):
		return exitRegistry
	case errors.Is(err, fetch.ErrTransport), errors.Is(err, fetch.ErrUnknownSize), errors.As(err, &downloadErr):
		return exitTransfer
	case errors.As(err, &fileErr):
		return exitLocalIO
	}
	return exitGeneric
}

// versionCmd returns the version command
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of airsync",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("airsync version %s\n", version)
			fmt.Printf("Built with %s\n", runtime.Version())
		},
	}
}
