// Package constants provides centralized constant values used throughout gitbar.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Directory names and paths used by gitbar for organizing data.
const (
	// GitbarHome is the hidden directory name where gitbar stores its data.
	// The global copy lives in the user's home directory; a per-repository
	// copy lives at the repository root.
	GitbarHome = ".gitbar"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"

	// GitDir is the metadata directory of a git repository.
	GitDir = ".git"
)

// File names used by gitbar.
const (
	// ConfigFileName is the name of the configuration file, both global
	// (~/.gitbar/config.yaml) and per-repository (<root>/.gitbar/config.yaml).
	ConfigFileName = "config.yaml"

	// CLILogFileName is the name of the global CLI log file.
	// This file is located in ~/.gitbar/logs/gitbar.log
	CLILogFileName = "gitbar.log"
)

// EnvPrefix is the prefix for gitbar environment variables (GITBAR_*).
const EnvPrefix = "GITBAR"

// Log rotation settings for the global CLI log file.
const (
	// LogMaxSizeMB is the maximum size in megabytes before a log file is rotated.
	LogMaxSizeMB = 10

	// LogMaxBackups is the maximum number of rotated log files to retain.
	LogMaxBackups = 3

	// LogMaxAgeDays is the maximum number of days to retain rotated log files.
	LogMaxAgeDays = 30

	// LogCompress controls whether rotated log files are gzip compressed.
	LogCompress = true
)

// Timing defaults for repository observation.
const (
	// DefaultDebounce is the quiet period applied to filesystem events
	// before a repository status refresh is triggered.
	DefaultDebounce = 200 * time.Millisecond

	// DefaultStatusTimeout is the maximum duration for a single
	// repository status read.
	DefaultStatusTimeout = 10 * time.Second
)
