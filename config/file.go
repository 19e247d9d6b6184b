package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Settings is the optional on-disk configuration, stored at
// ~/.airsync/config.toml. All fields are overridable by environment
// variables and flags.
type Settings struct {
	BaseDir     string `toml:"base_dir"`
	ComfyLayout bool   `toml:"comfy_layout"`
	RegistryURL string `toml:"registry_url"`
}

// SettingsPath returns the settings file location under the user's home
// directory.
func SettingsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".airsync", "config.toml"), nil
}

// LoadSettings reads the settings file. A missing file is not an error;
// it returns zero-valued Settings.
func LoadSettings() (Settings, error) {
	path, err := SettingsPath()
	if err != nil {
		return Settings{}, err
	}
	return loadSettingsFrom(path)
}

func loadSettingsFrom(path string) (Settings, error) {
	var s Settings
	if _, err := toml.DecodeFile(path, &s); err != nil {
		if os.IsNotExist(err) {
			return Settings{}, nil
		}
		return Settings{}, err
	}
	return s, nil
}
