package config

// GlobalFlags contains the settings shared across commands. Values are
// filled in precedence order: command-line flags, then environment
// variables, then the settings file, then built-in defaults.
type GlobalFlags struct {
	// RegistryURL is the base URL of the model registry API.
	RegistryURL string

	// AuthToken is the opaque bearer credential sent on asset downloads.
	AuthToken string

	// BaseDir is the root directory assets are placed under.
	BaseDir string

	// ComfyLayout enables the structured (ComfyUI-style) directory layout.
	ComfyLayout bool
}

// DefaultRegistryURL is used when no registry URL is configured anywhere.
const DefaultRegistryURL = "https://civitai.com/api/v1"

// Environment variable fallbacks.
const (
	EnvToken       = "AIRSYNC_TOKEN"
	EnvBaseDir     = "AIRSYNC_BASE_DIR"
	EnvRegistryURL = "AIRSYNC_REGISTRY_URL"
)

// Global is the shared instance of GlobalFlags
var Global = GlobalFlags{}
