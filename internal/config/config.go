// Package config handles configuration loading, watching, and validation.
package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/bnema/tabtree/internal/domain/entity"
	"github.com/bnema/tabtree/internal/tree"
)

// Config is the root configuration structure.
type Config struct {
	Tree     TreeConfig     `mapstructure:"tree" yaml:"tree"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// TreeConfig holds the positional policy for tree mutations. Positions use
// the spellings first, last, next, prev; new_child_position and
// demote_position only accept first or last.
type TreeConfig struct {
	NewRootPosition    string `mapstructure:"new_root_position" yaml:"new_root_position"`
	NewSiblingPosition string `mapstructure:"new_sibling_position" yaml:"new_sibling_position"`
	NewChildPosition   string `mapstructure:"new_child_position" yaml:"new_child_position"`
	PromotePosition    string `mapstructure:"promote_position" yaml:"promote_position"`
	DemotePosition     string `mapstructure:"demote_position" yaml:"demote_position"`
}

// DatabaseConfig holds SQLite connection settings.
type DatabaseConfig struct {
	Path         string        `mapstructure:"path" yaml:"path"`
	QueryTimeout time.Duration `mapstructure:"query_timeout" yaml:"query_timeout"`
}

// LoggingConfig holds logging preferences.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Policy converts the tree section into the policy the tree engine
// consumes. Spelling errors surface here rather than inside the engine.
func (tc TreeConfig) Policy() (tree.Policy, error) {
	var policy tree.Policy
	var err error

	if policy.NewRootPosition, err = entity.ParsePosition(tc.NewRootPosition); err != nil {
		return policy, fmt.Errorf("tree.new_root_position: %w", err)
	}
	if policy.NewSiblingPosition, err = entity.ParsePosition(tc.NewSiblingPosition); err != nil {
		return policy, fmt.Errorf("tree.new_sibling_position: %w", err)
	}
	if policy.NewChildPosition, err = entity.ParsePosition(tc.NewChildPosition); err != nil {
		return policy, fmt.Errorf("tree.new_child_position: %w", err)
	}
	if policy.PromotePosition, err = entity.ParsePosition(tc.PromotePosition); err != nil {
		return policy, fmt.Errorf("tree.promote_position: %w", err)
	}
	if policy.DemotePosition, err = entity.ParsePosition(tc.DemotePosition); err != nil {
		return policy, fmt.Errorf("tree.demote_position: %w", err)
	}

	if err := policy.Validate(); err != nil {
		return policy, fmt.Errorf("tree config: %w", err)
	}
	return policy, nil
}

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
}

// NewManager creates a new configuration manager.
func NewManager() (*Manager, error) {
	v := viper.New()

	// Supports yaml, json, toml automatically
	v.SetConfigName("config")

	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}
	v.AddConfigPath(configDir)
	v.AddConfigPath(".") // Current directory for development

	v.SetEnvPrefix("TABTREE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindings := map[string]string{
		"tree.new_root_position":    "TREE_NEW_ROOT_POSITION",
		"tree.new_sibling_position": "TREE_NEW_SIBLING_POSITION",
		"tree.new_child_position":   "TREE_NEW_CHILD_POSITION",
		"tree.promote_position":     "TREE_PROMOTE_POSITION",
		"tree.demote_position":      "TREE_DEMOTE_POSITION",
		"database.path":             "DATABASE_PATH",
		"database.query_timeout":    "DATABASE_QUERY_TIMEOUT",
		"logging.level":             "LOGGING_LEVEL",
		"logging.format":            "LOGGING_FORMAT",
	}

	for key, env := range bindings {
		if err := v.BindEnv(key, "TABTREE_"+env); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable %s: %w", env, err)
		}
	}

	return &Manager{
		viper:     v,
		callbacks: make([]func(*Config), 0),
	}, nil
}

// Load loads the configuration from file and environment variables.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	m.setDefaults()

	if err := m.viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; defaults and env apply.
	}

	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Database.Path == "" {
		dbPath, err := GetDatabaseFile()
		if err != nil {
			return fmt.Errorf("failed to get database path: %w", err)
		}
		config.Database.Path = dbPath
	}

	if err := validateConfig(config); err != nil {
		return err
	}

	m.config = config
	return nil
}

// Get returns the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// OnChange registers a callback invoked after every successful reload.
func (m *Manager) OnChange(fn func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, fn)
}

// Watch starts watching the config file for changes and reloads on write.
func (m *Manager) Watch() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.watching {
		return
	}
	m.watching = true

	m.viper.WatchConfig()
	m.viper.OnConfigChange(func(_ fsnotify.Event) {
		if err := m.reload(); err != nil {
			// Keep the last good config on a bad edit.
			return
		}
	})
}

func (m *Manager) reload() error {
	m.mu.Lock()

	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validateConfig(config); err != nil {
		m.mu.Unlock()
		return err
	}

	m.config = config
	callbacks := make([]func(*Config), len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.mu.Unlock()

	for _, fn := range callbacks {
		fn(config)
	}
	return nil
}
