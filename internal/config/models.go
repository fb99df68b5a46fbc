package config

import (
	"fmt"
	"time"

	"github.com/muurk/contactform/internal/form"
	"github.com/muurk/contactform/internal/logging"
	"github.com/muurk/contactform/internal/submission"
)

// CurrentVersion is the config file format version
const CurrentVersion = 1

// Settings represents the entire user configuration file.
type Settings struct {
	Version    int              `yaml:"version"`
	Profile    string           `yaml:"profile"`             // Default form profile ("classic" or "async")
	LogLevel   string           `yaml:"log_level,omitempty"` // Empty means silent
	Server     ServerSettings   `yaml:"server"`
	Submission SubmissionConfig `yaml:"submission"`
}

// ServerSettings configures the browser form server.
type ServerSettings struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Advertise bool   `yaml:"advertise"`          // Register the server via mDNS
	Instance  string `yaml:"instance,omitempty"` // mDNS instance name; hostname when empty
}

// SubmissionConfig tunes the simulated submission of the async profile
// and the alert of the classic one.
type SubmissionConfig struct {
	Delay         time.Duration `yaml:"delay"`          // Simulated network latency
	SuccessRate   float64       `yaml:"success_rate"`   // Probability a submission succeeds
	AlertDuration time.Duration `yaml:"alert_duration"` // Lifetime of the unfilled-fields alert
}

// Default returns settings with default values.
func Default() *Settings {
	return &Settings{
		Version: CurrentVersion,
		Profile: form.DefaultProfile,
		Server: ServerSettings{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Submission: SubmissionConfig{
			Delay:         submission.DefaultDelay,
			SuccessRate:   submission.DefaultSuccessRate,
			AlertDuration: form.DefaultAlertDuration,
		},
	}
}

// Validate checks the settings for values the application cannot use.
func (s *Settings) Validate() error {
	if s.Version != CurrentVersion {
		return fmt.Errorf("unsupported config version: %d (expected %d)", s.Version, CurrentVersion)
	}
	if _, err := form.Lookup(s.Profile); err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	if !logging.ValidLevel(s.LogLevel) {
		return fmt.Errorf("log_level: unknown level %q", s.LogLevel)
	}
	if s.Server.Port < 1 || s.Server.Port > 65535 {
		return fmt.Errorf("server.port: %d out of range 1-65535", s.Server.Port)
	}
	if s.Submission.Delay < 0 {
		return fmt.Errorf("submission.delay: must not be negative (got %s)", s.Submission.Delay)
	}
	if s.Submission.AlertDuration < 0 {
		return fmt.Errorf("submission.alert_duration: must not be negative (got %s)", s.Submission.AlertDuration)
	}
	if s.Submission.SuccessRate < 0 || s.Submission.SuccessRate > 1 {
		return fmt.Errorf("submission.success_rate: %v out of range 0-1", s.Submission.SuccessRate)
	}
	return nil
}

// SubmissionOptions converts the submission settings for form sessions.
func (s *Settings) SubmissionOptions() submission.Options {
	return submission.Options{
		Delay:       s.Submission.Delay,
		SuccessRate: s.Submission.SuccessRate,
	}
}

// SessionOptions returns form session options built from the settings.
func (s *Settings) SessionOptions() form.Options {
	return form.Options{
		Submission:    s.SubmissionOptions(),
		AlertDuration: s.Submission.AlertDuration,
	}
}

// Addr returns the server listen address.
func (s *Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Server.Host, s.Server.Port)
}
