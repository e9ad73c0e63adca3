package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns default paths, checking environment variables first.
// Environment variables:
//   - DUPCHECK_CONFIG_PATH: config file location (default: ~/.config/dupcheck.toml)
//   - DUPCHECK_HOME: base directory for logs and the journal (default: ~/.local/share/dupcheck)
func GetDefaults() (map[string]string, error) {
	configPath, err := fromEnvOrHome("DUPCHECK_CONFIG_PATH", ".config", "dupcheck.toml")
	if err != nil {
		return nil, err
	}
	baseDir, err := fromEnvOrHome("DUPCHECK_HOME", ".local", "share", "dupcheck")
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

// fromEnvOrHome returns $env when set, otherwise the path under the user's
// home directory.
func fromEnvOrHome(env string, elem ...string) (string, error) {
	if path := os.Getenv(env); path != "" {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(append([]string{homeDir}, elem...)...), nil
}
