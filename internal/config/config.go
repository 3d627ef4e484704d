package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	appName    = "nest"
	configFile = "config.json"
	envFile    = ".env"

	// PathEnvVar names an explicit config file path.
	PathEnvVar = "NEST_CONFIG"
	// BaseURLEnvVar overrides base_url from the config file.
	BaseURLEnvVar = "NEST_BASE_URL"

	// MissingMessage is reported for every config failure.
	MissingMessage = "Missing config.json, please copy from config.example.json and setup."
)

// executable is swapped out in tests.
var executable = os.Executable

// Config holds the credentials for a single thermostat. It is loaded once
// at startup and never modified afterwards.
type Config struct {
	Device  string `json:"device" yaml:"device"`
	Token   string `json:"token" yaml:"token"`
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
}

// Error is returned when the config file is absent, unreadable, malformed or
// incomplete. The command exits before any network call is made.
type Error struct {
	Path   string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Reason == "" {
		return MissingMessage
	}
	return fmt.Sprintf("%s (%s)", MissingMessage, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err came from this package.
func IsConfigError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

// GetConfigDir returns the OS-appropriate configuration directory:
//   - Linux: $XDG_CONFIG_HOME/nest or $HOME/.config/nest
//   - macOS: $HOME/.config/nest
//   - Windows: %LOCALAPPDATA%\nest
func GetConfigDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, appName), nil
		}
		userProfile := os.Getenv("USERPROFILE")
		if userProfile == "" {
			return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
		}
		return filepath.Join(userProfile, "AppData", "Local", appName), nil

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(homeDir, ".config", appName), nil

	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(homeDir, ".config", appName), nil
	}
}

// LoadEnvFiles reads .env from the working directory and from the
// executable's directory. Variables already set in the environment win.
// Missing files are ignored.
func LoadEnvFiles() error {
	paths := []string{envFile}
	if exe, err := executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), envFile))
	}

	seen := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil || seen[abs] {
			continue
		}
		seen[abs] = true

		if err := godotenv.Load(abs); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", abs, err)
		}
	}
	return nil
}

// Candidates lists the config paths that Find tries, in order.
func Candidates(flagPath string) []string {
	var paths []string
	if flagPath != "" {
		paths = append(paths, flagPath)
	}
	if envPath := os.Getenv(PathEnvVar); envPath != "" {
		paths = append(paths, envPath)
	}
	if exe, err := executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), configFile))
	}
	if dir, err := GetConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, configFile))
	}
	return paths
}

// Find resolves the config file to use. An explicit path (flag or
// NEST_CONFIG) is returned as-is so that a typo is reported rather than
// silently falling through to another file.
func Find(flagPath string) (string, error) {
	if flagPath != "" {
		return flagPath, nil
	}
	if envPath := os.Getenv(PathEnvVar); envPath != "" {
		return envPath, nil
	}
	for _, p := range Candidates("") {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", &Error{Reason: "no config file found", Err: fs.ErrNotExist}
}

// Load reads, decodes and validates the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		reason := "cannot read " + path
		if errors.Is(err, fs.ErrNotExist) {
			reason = path + " does not exist"
		}
		return nil, &Error{Path: path, Reason: reason, Err: err}
	}

	cfg, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, &Error{Path: path, Reason: "cannot parse " + path, Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, &Error{Path: path, Reason: err.Error(), Err: err}
	}
	return cfg, nil
}

// Resolve finds and loads the config, then applies environment overrides.
func Resolve(flagPath string) (*Config, string, error) {
	path, err := Find(flagPath)
	if err != nil {
		return nil, "", err
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, path, &Error{Path: path, Reason: err.Error(), Err: err}
	}
	return cfg, path, nil
}

// Decode parses config data. ext selects the format: ".yaml" and ".yml" are
// YAML, anything else is JSON.
func Decode(data []byte, ext string) (*Config, error) {
	var cfg Config
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	}
	cfg.Device = strings.TrimSpace(cfg.Device)
	cfg.Token = strings.TrimSpace(cfg.Token)
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	return &cfg, nil
}

// Validate checks that the required fields are present.
func (c *Config) Validate() error {
	if c.Device == "" {
		return errors.New("device is empty")
	}
	if c.Token == "" {
		return errors.New("token is empty")
	}
	return validateBaseURL(c.BaseURL)
}

// ApplyEnv overrides base_url from NEST_BASE_URL when it is set.
func (c *Config) ApplyEnv() error {
	v := strings.TrimSpace(os.Getenv(BaseURLEnvVar))
	if v == "" {
		return nil
	}
	if err := validateBaseURL(v); err != nil {
		return fmt.Errorf("%s: %w", BaseURLEnvVar, err)
	}
	c.BaseURL = v
	return nil
}

func validateBaseURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("base_url is invalid: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base_url must be an absolute http(s) URL, got %q", raw)
	}
	return nil
}
