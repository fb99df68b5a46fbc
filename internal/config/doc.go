// Package config provides user configuration management for contactform.
//
// This package manages a YAML configuration file holding the default form
// profile, the log level, the form server settings and the simulated
// submission parameters. The file follows OS-specific conventions for its
// location, and every value can be overridden by a command-line flag.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/contactform/config.yaml or $HOME/.config/contactform/config.yaml
//   - macOS: $HOME/.config/contactform/config.yaml
//   - Windows: %LOCALAPPDATA%\contactform\config.yaml
//
// A missing file is not an error: Load returns the defaults.
//
// # Usage Example
//
//	settings, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	settings.Server.Port = 9090
//	if err := settings.Validate(); err != nil {
//	    return err
//	}
//	if err := settings.Save(""); err != nil {
//	    return err
//	}
//
// # Thread Safety
//
// File operations are protected by a mutex and Save writes atomically
// (temporary file and rename).
package config
