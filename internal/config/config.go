// Package config loads graphlab settings.
//
// Settings come from a TOML file (default $XDG_CONFIG_HOME/graphlab/config.toml,
// falling back to ~/.config/graphlab/config.toml) and are then overridden by
// environment variables. A missing file is not an error.
//
// TOML format:
//
//	[service]
//	base_url = "http://127.0.0.1:5000"
//	mst_path = "/api/mst"
//	shortest_path = "/api/shortest-path"
//	labeling_path = "/api/dromd"
//
//	[labeling]
//	pop_size = 50
//	generations = 100
//	pc = 0.8
//	pm = 0.1
//
//	[server]
//	addr = ":8080"
//	max_sessions = 100
//	session_ttl = "2h"
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/graphlab/pkg/algo"
	gerrors "github.com/matzehuels/graphlab/pkg/errors"
	"github.com/matzehuels/graphlab/pkg/session"
)

const appName = "graphlab"

// Environment overrides.
const (
	EnvServiceURL = "GRAPHLAB_SERVICE_URL"
	EnvAddr       = "GRAPHLAB_ADDR"
)

// Config is the full settings tree.
type Config struct {
	Service  Service             `toml:"service"`
	Labeling algo.LabelingParams `toml:"labeling"`
	Server   Server              `toml:"server"`
}

// Service locates the algorithm service.
type Service struct {
	BaseURL      string `toml:"base_url"`
	MSTPath      string `toml:"mst_path"`
	ShortestPath string `toml:"shortest_path"`
	LabelingPath string `toml:"labeling_path"`
}

// Endpoints returns the per-kind paths.
func (s Service) Endpoints() algo.Endpoints {
	return algo.Endpoints{MST: s.MSTPath, ShortestPath: s.ShortestPath, Labeling: s.LabelingPath}
}

// Server configures the HTTP API.
type Server struct {
	Addr        string   `toml:"addr"`
	MaxSessions int      `toml:"max_sessions"`
	SessionTTL  Duration `toml:"session_ttl"`
}

// Duration is a time.Duration written as a string such as "90m".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Default returns the built-in settings.
func Default() Config {
	e := algo.DefaultEndpoints()
	return Config{
		Service: Service{
			BaseURL:      algo.DefaultBaseURL,
			MSTPath:      e.MST,
			ShortestPath: e.ShortestPath,
			LabelingPath: e.Labeling,
		},
		Server: Server{
			Addr:        ":8080",
			MaxSessions: session.DefaultMaxSessions,
			SessionTTL:  Duration(session.DefaultTTL),
		},
	}
}

// DefaultPath returns the config file location using the XDG convention.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads path on top of the defaults and applies environment overrides.
// An empty path means DefaultPath. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			cfg.applyEnv()
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	default:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return cfg, gerrors.Wrap(gerrors.ErrCodeParse, err, "parse config %q", path)
		}
	}

	cfg.applyEnv()
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() {
	c.Service.BaseURL = getEnv(EnvServiceURL, c.Service.BaseURL)
	c.Server.Addr = getEnv(EnvAddr, c.Server.Addr)
}

// Validate checks the values that would otherwise fail late.
func (c Config) Validate() error {
	if err := gerrors.ValidateURL(c.Service.BaseURL); err != nil {
		return gerrors.Wrap(gerrors.ErrCodeInvalidInput, err, "service.base_url")
	}
	if c.Server.MaxSessions < 0 {
		return gerrors.New(gerrors.ErrCodeInvalidInput, "server.max_sessions must not be negative")
	}
	return nil
}

// Write encodes c as TOML.
func (c Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

func getEnv(key, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	return value
}
