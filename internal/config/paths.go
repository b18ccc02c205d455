package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath names an explicit config file
	EnvConfigPath = "LOOPWRIGHT_CONFIG"
	// ConfigFileName is the config file looked for in the working directory
	ConfigFileName = "loopwright.yaml"
	// ConfigDirName is the directory holding config.yaml under the XDG and system roots
	ConfigDirName = "loopwright"
)

// searchPaths lists the candidate config files in priority order. Unset
// environment variables contribute nothing.
func searchPaths() []string {
	var paths []string
	if p := os.Getenv(EnvConfigPath); p != "" {
		paths = append(paths, p)
	}
	paths = append(paths, ConfigFileName)
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, ConfigDirName, "config.yaml"))
	}
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", ConfigDirName, "config.yaml"))
	}
	return append(paths, filepath.Join("/etc", ConfigDirName, "config.yaml"))
}

// FindConfigPath returns the first existing config file from searchPaths,
// or "" when there is none. A file found in the working directory is
// returned as an absolute path.
func FindConfigPath() string {
	for _, p := range searchPaths() {
		if !fileExists(p) {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			return abs
		}
		return p
	}
	return ""
}

// resolvePaths makes the file paths written in a config file relative to
// the directory holding it, so a config can sit next to its schema file and
// database.
func (c *Config) resolvePaths(configPath string) {
	dir := filepath.Dir(configPath)
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	c.Database.Path = resolve(c.Database.Path)
	c.Schema.ExtraPath = resolve(c.Schema.ExtraPath)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
