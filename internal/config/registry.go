package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "contactform"
	configFile = "config.yaml"
)

// ErrConfigExists is returned by CreateDefaultConfig when the file is already there
var ErrConfigExists = errors.New("config file already exists")

// Mutex for thread-safe file operations
var fileMutex sync.Mutex

// GetConfigDir returns the OS-appropriate configuration directory for the application.
// This follows platform conventions:
//   - Linux: $XDG_CONFIG_HOME/contactform or $HOME/.config/contactform
//   - macOS: $HOME/.config/contactform (following XDG convention on macOS)
//   - Windows: %LOCALAPPDATA%\contactform
func GetConfigDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			userProfile := os.Getenv("USERPROFILE")
			if userProfile == "" {
				return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
			}
			baseDir = filepath.Join(userProfile, "AppData", "Local", appName)
		} else {
			baseDir = filepath.Join(localAppData, appName)
		}

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		baseDir = filepath.Join(homeDir, ".config", appName)

	default:
		// Linux and other Unix-like systems: Use XDG_CONFIG_HOME or $HOME/.config
		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome != "" {
			baseDir = filepath.Join(xdgConfigHome, appName)
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("cannot determine home directory: %w", err)
			}
			baseDir = filepath.Join(homeDir, ".config", appName)
		}
	}

	return baseDir, nil
}

// GetConfigPath returns the full path to the configuration file.
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFile), nil
}

// resolvePath returns path, or the default config path when path is empty.
func resolvePath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	return GetConfigPath()
}

// Load reads the configuration file at path (the default location when
// path is empty). A missing file yields the defaults. Values absent from
// the file keep their defaults.
func Load(path string) (*Settings, error) {
	configPath, err := resolvePath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	fileMutex.Lock()
	defer fileMutex.Unlock()

	data, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	settings := Default()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if settings.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported config version: %d (expected %d)", settings.Version, CurrentVersion)
	}

	return settings, nil
}

// Save writes the settings to path (the default location when path is
// empty). Performs an atomic write to prevent corruption on crash.
func (s *Settings) Save(path string) error {
	configPath, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	fileMutex.Lock()
	defer fileMutex.Unlock()

	// Create directory with user-only permissions (0700)
	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# contactform configuration file
#
# profile:    default form profile (classic or async)
# log_level:  debug, info, warn or error; empty keeps logging silent
# submission: simulated latency and success rate of the async profile
#
# Location: ` + configPath + `

`)
	data = append(header, data...)

	// Write to temporary file first (atomic write)
	tmpPath := configPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}

	if err := os.Rename(tmpPath, configPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config file: %w", err)
	}

	return nil
}

// CreateDefaultConfig writes a default configuration file to path unless
// one already exists. It returns the path written.
func CreateDefaultConfig(path string, force bool) (string, error) {
	configPath, err := resolvePath(path)
	if err != nil {
		return "", fmt.Errorf("failed to get config path: %w", err)
	}
	if !force {
		if _, err := os.Stat(configPath); err == nil {
			return configPath, fmt.Errorf("%w: %s", ErrConfigExists, configPath)
		}
	}
	return configPath, Default().Save(configPath)
}

// Marshal renders the settings as YAML.
func (s *Settings) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}
