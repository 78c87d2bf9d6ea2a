//go:build !windows

package config

import (
	"os"
	"path/filepath"
)

func configSearchPaths() []string {
	home, _ := os.UserHomeDir()
	var paths []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "vitafetch", "config.yaml"))
	} else if home != "" {
		paths = append(paths, filepath.Join(home, ".config", "vitafetch", "config.yaml"))
	}
	return append(paths,
		filepath.Join(home, ".vitafetch", "config.yaml"),
		"/etc/vitafetch/config.yaml",
	)
}

func defaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".cache")
	}
	return filepath.Join(dir, "vitafetch", "cache.yaml")
}
