//go:build windows

package config

import (
	"os"
	"path/filepath"
)

func configSearchPaths() []string {
	appData := os.Getenv("APPDATA")
	programData := os.Getenv("ProgramData")
	return []string{
		filepath.Join(appData, "vitafetch", "config.yaml"),
		filepath.Join(programData, "vitafetch", "config.yaml"),
	}
}

func defaultCachePath() string {
	return filepath.Join(os.Getenv("LOCALAPPDATA"), "vitafetch", "cache.yaml")
}
