package cli

import (
	"fmt"

	"github.com/glorpus-work/repod/internal/logger"
	"github.com/glorpus-work/repod/pkg/config"
	"github.com/glorpus-work/repod/pkg/ingest"
	"github.com/glorpus-work/repod/pkg/inspect"
	"github.com/glorpus-work/repod/pkg/signature"
)

// These variables will be set by the main package
var (
	ConfigPath *string
	Verbose    *bool
)

// loadConfig loads the configuration from the --config flag or the default
// location and initializes logging from it.
func loadConfig() (*config.Config, error) {
	configPath := ""
	if ConfigPath != nil {
		configPath = *ConfigPath
	}
	if configPath == "" {
		defaultPath, err := config.GetDefaultConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get default config path: %w", err)
		}
		configPath = defaultPath
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logLevel := cfg.Settings.LogLevel
	if Verbose != nil && *Verbose {
		logLevel = "debug"
	}
	logger.InitLogger(logLevel)

	return cfg, nil
}

// newOperator wires the archive inspector and signature verifier into an
// operator over the configured directories.
func newOperator(cfg *config.Config) (*ingest.Operator, error) {
	verifier := signature.NewVerifier()
	if cfg.Settings.Keyring != "" {
		var err error
		verifier, err = signature.NewVerifierFromFile(cfg.Settings.Keyring)
		if err != nil {
			return nil, err
		}
	}
	return ingest.NewOperator(cfg, inspect.NewInspector(), verifier), nil
}
