// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// FormatXML renders effective models as project descriptors.
	FormatXML OutputFormat = "xml"
	// FormatTOML renders effective models as TOML documents.
	FormatTOML OutputFormat = "toml"

	// DefaultCacheSize is the default number of model cache entries.
	DefaultCacheSize = 4096
	// DefaultLocalRepository is the default local repository directory.
	DefaultLocalRepository = "~/.m2/repository"
)

var (
	// ErrInvalidOutputFormat is returned when an OutputFormat value is not recognized.
	ErrInvalidOutputFormat = errors.New("invalid output format")
	// ErrInvalidRemoteConfig is the sentinel error wrapped by InvalidRemoteConfigError.
	ErrInvalidRemoteConfig = errors.New("invalid remote config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// OutputFormat selects how models are printed.
	OutputFormat string

	// InvalidOutputFormatError is returned when an OutputFormat value is not recognized.
	InvalidOutputFormatError struct {
		Value OutputFormat
	}

	// InvalidRemoteConfigError is returned when a RemoteConfig is half configured.
	InvalidRemoteConfigError struct {
		Reason string
	}

	// InvalidConfigError is returned when a Config has invalid fields. It collects the
	// field-level validation errors of all sections.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// LocalRepository is the local artifact repository directory.
		LocalRepository string `json:"local_repository" mapstructure:"local_repository"`
		// Remote configures the S3-compatible remote repository.
		Remote RemoteConfig `json:"remote" mapstructure:"remote"`
		// Release rejects snapshot tiles.
		Release bool `json:"release" mapstructure:"release"`
		// BuildSmells lists the smells allowed in tiles, comma separated.
		BuildSmells string `json:"build_smells" mapstructure:"build_smells"`
		// Filtering enables @token@ filtering of reactor tile files.
		Filtering bool `json:"filtering" mapstructure:"filtering"`
		// CacheSize bounds the model cache.
		CacheSize int `json:"cache_size" mapstructure:"cache_size"`
		// UI configures output.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// RemoteConfig configures the S3-compatible remote repository.
	RemoteConfig struct {
		Endpoint  string `json:"endpoint" mapstructure:"endpoint"`
		Bucket    string `json:"bucket" mapstructure:"bucket"`
		Region    string `json:"region" mapstructure:"region"`
		AccessKey string `json:"access_key" mapstructure:"access_key"`
		SecretKey string `json:"secret_key" mapstructure:"secret_key"`
		UseSSL    bool   `json:"use_ssl" mapstructure:"use_ssl"`
		Prefix    string `json:"prefix" mapstructure:"prefix"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Verbose enables debug logging
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// Format is the default output format of the effective command
		Format OutputFormat `json:"format" mapstructure:"format"`
	}
)

// DefaultConfig returns the configuration used when no file sets a value.
func DefaultConfig() *Config {
	return &Config{
		LocalRepository: DefaultLocalRepository,
		CacheSize:       DefaultCacheSize,
		UI:              UIConfig{Format: FormatXML},
	}
}

// String returns the string representation of the OutputFormat.
func (f OutputFormat) String() string { return string(f) }

// IsValid returns whether the OutputFormat is one of the defined formats. The zero value
// is invalid.
func (f OutputFormat) IsValid() (bool, []error) {
	switch f {
	case FormatXML, FormatTOML:
		return true, nil
	default:
		return false, []error{&InvalidOutputFormatError{Value: f}}
	}
}

// Error implements the error interface.
func (e *InvalidOutputFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q (valid: xml, toml)", e.Value)
}

// Unwrap returns ErrInvalidOutputFormat for errors.Is() compatibility.
func (e *InvalidOutputFormatError) Unwrap() error { return ErrInvalidOutputFormat }

// Enabled reports whether a remote repository is configured.
func (c RemoteConfig) Enabled() bool {
	return c.Endpoint != "" && c.Bucket != ""
}

// IsValid requires endpoint and bucket to be set together.
func (c RemoteConfig) IsValid() (bool, []error) {
	switch {
	case c.Endpoint != "" && c.Bucket == "":
		return false, []error{&InvalidRemoteConfigError{Reason: "endpoint set without bucket"}}
	case c.Endpoint == "" && c.Bucket != "":
		return false, []error{&InvalidRemoteConfigError{Reason: "bucket set without endpoint"}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidRemoteConfigError) Error() string {
	return "invalid remote config: " + e.Reason
}

// Unwrap returns ErrInvalidRemoteConfig for errors.Is() compatibility.
func (e *InvalidRemoteConfigError) Unwrap() error { return ErrInvalidRemoteConfig }

// IsValid returns whether every section of the Config is valid.
func (c *Config) IsValid() (bool, []error) {
	var errs []error
	if strings.TrimSpace(c.LocalRepository) == "" {
		errs = append(errs, errors.New("local_repository must not be empty"))
	}
	if c.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("cache_size must be positive, got %d", c.CacheSize))
	}
	if valid, fieldErrs := c.Remote.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.Format.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig followed by the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// LocalRepositoryPath returns LocalRepository with a leading ~ expanded to the home
// directory.
func (c *Config) LocalRepositoryPath() (string, error) {
	return expandHome(c.LocalRepository)
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
