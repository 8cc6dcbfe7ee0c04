// Package config provides configuration management for repod. It handles
// loading, validating, and saving the YAML configuration that points the
// tool at the metadata store, staging area, package pool, and database
// output directory, and provides sensible defaults for everything else.
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/glorpus-work/repod/pkg/errors"
	"github.com/glorpus-work/repod/pkg/fsutil"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// Directories holds the filesystem layout of the repository.
	Directories Directories `yaml:"directories"`

	// Settings holds general application settings.
	Settings Settings `yaml:"settings"`
}

// Directories represents the filesystem layout of the repository.
type Directories struct {
	// MetaDir is the root of the JSON metadata store. The global lock
	// file lives here too.
	MetaDir string `yaml:"meta_dir"`

	// StagingDir holds inbound archives, one subdirectory per repository.
	StagingDir string `yaml:"staging_dir"`

	// PoolDir is the long-term archive storage referenced by metadata
	// records.
	PoolDir string `yaml:"pool_dir"`

	// DBDir is where the binary database artifacts are written.
	DBDir string `yaml:"db_dir"`
}

// Settings represents general application settings.
type Settings struct {
	// Keyring is the path to the armored public keyring used for
	// signature verification.
	Keyring string `yaml:"keyring,omitempty"`

	// MaxConcurrent bounds the number of archives inspected in parallel.
	MaxConcurrent int `yaml:"max_concurrent,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level,omitempty"`
}

// Default configuration values.
const (
	// DefaultMaxConcurrent is the default bound on parallel archive
	// inspection.
	DefaultMaxConcurrent = 4

	// DefaultLogLevel is the default logging level.
	DefaultLogLevel = "info"
)

// DefaultConfig returns a configuration with all defaults applied,
// rooted under baseDir.
func DefaultConfig(baseDir string) *Config {
	return &Config{
		Directories: Directories{
			MetaDir:    filepath.Join(baseDir, "meta"),
			StagingDir: filepath.Join(baseDir, "staging"),
			PoolDir:    filepath.Join(baseDir, "pool"),
			DBDir:      filepath.Join(baseDir, "db"),
		},
		Settings: Settings{
			MaxConcurrent: DefaultMaxConcurrent,
			LogLevel:      DefaultLogLevel,
		},
	}
}

// GetDefaultConfigPath returns the platform default config file location.
func GetDefaultConfigPath() (string, error) {
	var configDir string
	if runtime.GOOS == "windows" {
		configDir = os.Getenv("APPDATA")
	}
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "failed to determine home directory")
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "repod", "repod.yaml"), nil
}

// LoadConfig reads and validates a configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(errors.ErrConfigParse, "%s: %v", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories as
// needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), fsutil.DirModeDefault); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to encode config")
	}
	return os.WriteFile(path, data, fsutil.FileModeDefault)
}

func (c *Config) applyDefaults() {
	if c.Settings.MaxConcurrent <= 0 {
		c.Settings.MaxConcurrent = DefaultMaxConcurrent
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = DefaultLogLevel
	}
}

// Validate checks that the required directory roots are configured.
func (c *Config) Validate() error {
	for _, dir := range []struct {
		name  string
		value string
	}{
		{"meta_dir", c.Directories.MetaDir},
		{"staging_dir", c.Directories.StagingDir},
		{"pool_dir", c.Directories.PoolDir},
		{"db_dir", c.Directories.DBDir},
	} {
		if dir.value == "" {
			return errors.Wrapf(errors.ErrConfigValidation, "%s must be set", dir.name)
		}
	}
	return nil
}
