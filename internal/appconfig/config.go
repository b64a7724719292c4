// Package appconfig locates and reads the envssh configuration file.
package appconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/treykane/envssh/internal/apperr"
)

// DefaultConfigPath is where the config file lives unless the caller passes
// another path. The leading "~" is expanded at load time.
const DefaultConfigPath = "~/.config/server/config.toml"

// TemplateServersDir is the example value written on first run.
const TemplateServersDir = "~/Tools/mage-db-sync-databases/"

// Config holds application-level configuration.
type Config struct {
	// ServersDir is the home-expanded directory that holds environment files.
	// Environment file names are concatenated onto it directly, so it
	// normally ends in a path separator.
	ServersDir string `toml:"servers_dir"`
}

// DefaultPath returns DefaultConfigPath with "~" expanded.
func DefaultPath() (string, error) {
	return ExpandHome(DefaultConfigPath)
}

// ExpandHome resolves a leading "~" to the current user's home directory.
// A trailing separator on the input is kept.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	out := filepath.Join(home, path[2:])
	if strings.HasSuffix(path, "/") && !strings.HasSuffix(out, string(filepath.Separator)) {
		out += string(filepath.Separator)
	}
	return out, nil
}

// Template returns the single line written to a fresh config file.
func Template() string {
	return fmt.Sprintf("servers_dir = %q\n", TemplateServersDir)
}

// Load reads the config file at path (home-expanded).
//
// If the file does not exist, Load writes Template to it, creating parent
// directories, and returns an apperr.SetupRequired error. Callers treat that
// as a successful early exit. An existing file is never overwritten.
func Load(path string) (Config, error) {
	expanded, err := ExpandHome(path)
	if err != nil {
		return Config{}, apperr.New(apperr.ConfigError, "cannot resolve config path", err)
	}
	b, err := os.ReadFile(expanded)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if werr := writeTemplate(expanded); werr != nil {
				return Config{}, apperr.New(apperr.ConfigError, "cannot create example config "+expanded, werr)
			}
			return Config{}, apperr.WithDetail(apperr.SetupRequired, "created example config "+expanded, "path="+expanded, nil)
		}
		return Config{}, apperr.New(apperr.ConfigError, "cannot read config "+expanded, err)
	}
	return Parse(expanded, b)
}

// Parse decodes config file contents. source names the file in messages.
func Parse(source string, b []byte) (Config, error) {
	var cfg Config
	md, err := toml.Decode(string(b), &cfg)
	if err != nil {
		return Config{}, apperr.New(apperr.ConfigError, "parse "+source, err)
	}
	if !md.IsDefined("servers_dir") {
		return Config{}, apperr.New(apperr.ConfigError, source+": servers_dir is not set", nil)
	}
	dir, err := ExpandHome(cfg.ServersDir)
	if err != nil {
		return Config{}, apperr.New(apperr.ConfigError, source+": cannot expand servers_dir", err)
	}
	cfg.ServersDir = dir
	return cfg, nil
}

func writeTemplate(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(Template()); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
