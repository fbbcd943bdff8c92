package config

import (
	"os"
	"path/filepath"

	"github.com/mrz1836/gitbar/internal/constants"
	"github.com/mrz1836/gitbar/internal/errors"
)

// GlobalConfigDir returns the path to the global gitbar configuration directory.
// This is typically ~/.gitbar on Unix systems.
//
// Returns an error if the home directory cannot be determined.
func GlobalConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.GitbarHome), nil
}

// GlobalConfigPath returns the full path to the global configuration file.
// This is typically ~/.gitbar/config.yaml on Unix systems.
//
// Returns an error if the home directory cannot be determined.
func GlobalConfigPath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.ConfigFileName), nil
}

// RepoConfigPath returns the path to the repository-scoped configuration
// file for the working tree rooted at root.
func RepoConfigPath(root string) string {
	return filepath.Join(root, constants.GitbarHome, constants.ConfigFileName)
}
