// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/aurora-stream/aurora/constant"
	"github.com/aurora-stream/aurora/filesystem"
	"github.com/samber/lo"
)

// EnvConfigPath is the environment variable identifier used to override the default configuration directory.
const EnvConfigPath = "AURORA_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the absolute path to the primary application configuration directory.
// The path can be explicitly specified via the AURORA_CONFIG_PATH environment variable.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Aurora))
}

// Logs resolves the directory used for application diagnostic logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Assets resolves the directory holding locally bundled media such as the intro clip.
func Assets() string {
	return ensureDir(filepath.Join(Config(), "assets"))
}

// Intro resolves the bundled intro clip.
func Intro() string {
	return filepath.Join(Assets(), constant.IntroFilename)
}

// Store resolves the persisted client-side state file (user, profiles, api token).
func Store() string {
	return filepath.Join(Config(), "storage.json")
}

// Temp resolves a volatile directory for transient application artifacts.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.Aurora))
}

// Blobs resolves the directory where fetched stream bodies are materialized.
func Blobs() string {
	return ensureDir(filepath.Join(Temp(), "blobs"))
}
