package config

import "time"

// Default configuration constants
const (
	defaultQueryTimeoutSec = 30 // seconds
)

// DefaultConfig returns the default configuration values for tabtree.
func DefaultConfig() *Config {
	return &Config{
		Tree: TreeConfig{
			NewRootPosition:    "last",
			NewSiblingPosition: "next",
			NewChildPosition:   "last",
			PromotePosition:    "next",
			DemotePosition:     "last",
		},
		Database: DatabaseConfig{
			QueryTimeout: time.Second * defaultQueryTimeoutSec,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// setDefaults registers default values with viper.
func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	m.viper.SetDefault("tree.new_root_position", defaults.Tree.NewRootPosition)
	m.viper.SetDefault("tree.new_sibling_position", defaults.Tree.NewSiblingPosition)
	m.viper.SetDefault("tree.new_child_position", defaults.Tree.NewChildPosition)
	m.viper.SetDefault("tree.promote_position", defaults.Tree.PromotePosition)
	m.viper.SetDefault("tree.demote_position", defaults.Tree.DemotePosition)

	m.viper.SetDefault("database.path", "")
	m.viper.SetDefault("database.query_timeout", defaults.Database.QueryTimeout)

	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)
}
