// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/tilekit/tilekit/internal/issue"
	"github.com/tilekit/tilekit/pkg/cueutil"
)

const (
	// AppName is the application name.
	AppName = "tilekit"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// LocalConfigFile is the config file looked up in the working directory.
	LocalConfigFile = AppName + "." + ConfigFileExt
	// EnvPrefix prefixes environment variable overrides, e.g. TILEKIT_REMOTE_BUCKET.
	EnvPrefix = "TILEKIT"
	// DotEnvFile is loaded from the base directory before the environment is read.
	DotEnvFile = ".env"
)

var (
	//go:embed config_schema.cue
	configSchemaSource []byte

	configSchema = sync.OnceValues(func() (*cueutil.Schema, error) {
		return cueutil.NewSchema(configSchemaSource, "#Config")
	})
)

// ConfigDir returns the tilekit configuration directory: $XDG_CONFIG_HOME/tilekit,
// defaulting to ~/.config/tilekit.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, AppName), nil
}

// loadWithOptions performs option-driven config loading. The returned path is the
// config file that was read, or empty when only defaults and the environment applied.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	if err := loadDotEnv(opts.BaseDir); err != nil {
		return nil, "", err
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath, err := locate(opts)
	if err != nil {
		return nil, "", err
	}
	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Use 'tilekit config show' to see the effective configuration").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Set remote.endpoint and remote.bucket together").
			WithSuggestion("Use xml or toml as ui.format").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(errors.Join(errs...)).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("local_repository", d.LocalRepository)
	v.SetDefault("remote.endpoint", d.Remote.Endpoint)
	v.SetDefault("remote.bucket", d.Remote.Bucket)
	v.SetDefault("remote.region", d.Remote.Region)
	v.SetDefault("remote.access_key", d.Remote.AccessKey)
	v.SetDefault("remote.secret_key", d.Remote.SecretKey)
	v.SetDefault("remote.use_ssl", d.Remote.UseSSL)
	v.SetDefault("remote.prefix", d.Remote.Prefix)
	v.SetDefault("release", d.Release)
	v.SetDefault("build_smells", d.BuildSmells)
	v.SetDefault("filtering", d.Filtering)
	v.SetDefault("cache_size", d.CacheSize)
	v.SetDefault("ui.verbose", d.UI.Verbose)
	v.SetDefault("ui.format", string(d.UI.Format))
}

// locate finds the config file to read: the explicit path, then the config directory,
// then the base directory. A missing explicit file is an error; otherwise a missing
// file means defaults.
func locate(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'tilekit config init' to write a default configuration").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	cfgDir := opts.ConfigDirPath
	if cfgDir == "" {
		var err error
		if cfgDir, err = ConfigDir(); err != nil {
			return "", err
		}
	}
	if path := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt); fileExists(path) {
		return path, nil
	}
	if path := filepath.Join(opts.BaseDir, LocalConfigFile); fileExists(path) {
		return path, nil
	}
	return "", nil
}

// loadDotEnv loads the .env file of dir into the process environment. Variables that are
// already set keep their value.
func loadDotEnv(dir string) error {
	path := filepath.Join(dir, DotEnvFile)
	if !fileExists(path) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema, and merges
// its contents into Viper. Fields are optional, so the value need not be concrete.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	schema, err := configSchema()
	if err != nil {
		return err
	}
	result, err := cueutil.Decode[map[string]any](schema, data,
		cueutil.WithFilename(path),
		cueutil.WithConcrete(false),
	)
	if err != nil {
		return err
	}

	// Merging keeps defaults and environment overrides in effect.
	if err := v.MergeConfigMap(*result.Value); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes a default config file into the config directory unless one
// exists, and returns its path.
func CreateDefaultConfig() (string, error) {
	cfgDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
	if fileExists(cfgPath) {
		return cfgPath, nil
	}
	return cfgPath, write(cfgPath, DefaultConfig())
}

// Save writes cfg to the config file in the config directory.
func Save(cfg *Config) error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}
	return write(filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt), cfg)
}

func write(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(cfg)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateCUE generates a CUE representation of the configuration. Secrets are left out.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// tilekit configuration file\n\n")
	fmt.Fprintf(&sb, "local_repository: %q\n", cfg.LocalRepository)
	fmt.Fprintf(&sb, "release: %v\n", cfg.Release)
	if cfg.BuildSmells != "" {
		fmt.Fprintf(&sb, "build_smells: %q\n", cfg.BuildSmells)
	}
	fmt.Fprintf(&sb, "filtering: %v\n", cfg.Filtering)
	fmt.Fprintf(&sb, "cache_size: %d\n", cfg.CacheSize)

	if cfg.Remote.Enabled() {
		sb.WriteString("\nremote: {\n")
		fmt.Fprintf(&sb, "endpoint: %q\n", cfg.Remote.Endpoint)
		fmt.Fprintf(&sb, "bucket: %q\n", cfg.Remote.Bucket)
		if cfg.Remote.Region != "" {
			fmt.Fprintf(&sb, "region: %q\n", cfg.Remote.Region)
		}
		fmt.Fprintf(&sb, "use_ssl: %v\n", cfg.Remote.UseSSL)
		if cfg.Remote.Prefix != "" {
			fmt.Fprintf(&sb, "prefix: %q\n", cfg.Remote.Prefix)
		}
		sb.WriteString("}\n")
	}

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "verbose: %v\n", cfg.UI.Verbose)
	fmt.Fprintf(&sb, "format: %q\n", cfg.UI.Format)
	sb.WriteString("}\n")

	formatted, err := cueutil.Format([]byte(sb.String()))
	if err != nil {
		return sb.String()
	}
	return string(formatted)
}
