package config

import (
	"fmt"
	"strings"
)

// validateConfig performs validation of configuration values
func validateConfig(config *Config) error {
	var validationErrors []string

	if _, err := config.Tree.Policy(); err != nil {
		validationErrors = append(validationErrors, err.Error())
	}

	if config.Database.QueryTimeout < 0 {
		validationErrors = append(validationErrors, "database.query_timeout must be non-negative")
	}

	switch config.Logging.Level {
	case "", "trace", "debug", "info", "warn", "error":
		// Valid
	default:
		validationErrors = append(validationErrors,
			fmt.Sprintf("logging.level must be one of: trace, debug, info, warn, error (got: %s)", config.Logging.Level))
	}

	switch config.Logging.Format {
	case "", "json", "console":
		// Valid
	default:
		validationErrors = append(validationErrors,
			fmt.Sprintf("logging.format must be json or console (got: %s)", config.Logging.Format))
	}

	if len(validationErrors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}
	return nil
}
