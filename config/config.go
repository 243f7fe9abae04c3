package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds process configuration: where the music lives and how to
// serve it.
type Config struct {
	Root        string   `koanf:"root"`         // library root directory
	Port        int      `koanf:"port"`         // HTTP listen port
	CORSOrigins []string `koanf:"cors_origins"` // empty means allow all
}

// Load reads configuration from TOML files, lowest priority first,
// then applies env-var overrides. Flag overrides happen in main. The
// zero Root is not defaulted here; a missing root is a startup error
// the caller reports.
func Load() (*Config, error) {
	k := koanf.New(".")

	for _, path := range configPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{
		Port: 8001,
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if root := os.Getenv("HIFI_ROOT"); root != "" {
		cfg.Root = root
	}
	if port := os.Getenv("HIFI_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Port = p
		}
	}

	cfg.Root = expandPath(cfg.Root)

	return cfg, nil
}

func configPaths() []string {
	paths := []string{}

	// ~/.config/hifi/config.toml, then ./config.toml (highest priority)
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "hifi", "config.toml"))
	}
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
