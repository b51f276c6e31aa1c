// Package config loads and persists the service configuration from a
// yaml file, creating it with defaults on first run.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wsmirror/wsmirror/internal/logger"
)

// DaemonConfig describes how to reach the window-manager daemon.
type DaemonConfig struct {
	// ControlSocket is the daemon's control socket path. Empty means the
	// conventional location under the runtime directory.
	ControlSocket string `yaml:"control_socket"`
	// SubscriberDir is where the subscriber socket gets created. Empty
	// means the same directory as the control socket.
	SubscriberDir string `yaml:"subscriber_dir"`
	// SubscriberName overrides the build-mode default socket name.
	SubscriberName string `yaml:"subscriber_name"`
	// ConnectRetrySecs is the delay between initial registration
	// attempts while the daemon is not yet up.
	ConnectRetrySecs int `yaml:"connect_retry_seconds"`
	// ResubscribeSecs is the delay between re-registration attempts
	// after a detected disconnect.
	ResubscribeSecs int `yaml:"resubscribe_seconds"`
	// ReadTimeoutMillis bounds each read on a notification connection.
	ReadTimeoutMillis int `yaml:"read_timeout_ms"`
	// SubscribeStateOnly asks the daemon to push only state-changing
	// notifications. The client-side filter still applies either way.
	SubscribeStateOnly bool `yaml:"subscribe_state_only"`
}

// ConnectRetry returns the registration retry interval.
func (d DaemonConfig) ConnectRetry() time.Duration {
	return time.Duration(d.ConnectRetrySecs) * time.Second
}

// Resubscribe returns the re-registration interval.
func (d DaemonConfig) Resubscribe() time.Duration {
	return time.Duration(d.ResubscribeSecs) * time.Second
}

// ReadTimeout returns the per-read deadline for notification connections.
func (d DaemonConfig) ReadTimeout() time.Duration {
	return time.Duration(d.ReadTimeoutMillis) * time.Millisecond
}

// Config is the application configuration.
type Config struct {
	LogLevel   string       `yaml:"log_level"`
	ServerPort int          `yaml:"server_port"`
	Daemon     DaemonConfig `yaml:"daemon"`
}

// Manager handles configuration
type Manager struct {
	configPath string
	config     *Config
	mu         sync.RWMutex
}

// NewManager loads the configuration at configFile, or the default path
// when empty, creating the file with defaults when it does not exist.
func NewManager(configFile string) (*Manager, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".config", "wsmirror")
	actualConfigPath := filepath.Join(configDir, "config.yaml")
	if configFile != "" {
		actualConfigPath = configFile
		configDir = filepath.Dir(configFile)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	m := &Manager{configPath: actualConfigPath}

	log := logger.WithComponent("config")

	if err := m.load(); err != nil {
		if os.IsNotExist(err) {
			log.Info().
				Str("path", m.configPath).
				Msg("Config file not found, creating new config")
			m.config = Defaults()
			if err := m.Save(); err != nil {
				return nil, fmt.Errorf("failed to create default config: %w", err)
			}
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	log.Info().
		Str("path", m.configPath).
		Msg("Config loaded")

	return m, nil
}

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		LogLevel:   "info",
		ServerPort: 8552,
		Daemon: DaemonConfig{
			ControlSocket:     defaultControlSocket(),
			ConnectRetrySecs:  1,
			ResubscribeSecs:   3,
			ReadTimeoutMillis: 1000,
		},
	}
}

// defaultControlSocket is the conventional daemon control socket path.
func defaultControlSocket() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "komorebi", "komorebi.sock")
	}
	return filepath.Join(os.TempDir(), "komorebi", "komorebi.sock")
}

// load reads the configuration from disk
func (m *Manager) load() error {
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	m.mu.Lock()
	m.config = cfg
	m.mu.Unlock()
	return nil
}

// Save writes the configuration to disk
func (m *Manager) Save() error {
	m.mu.RLock()
	data, err := yaml.Marshal(m.config)
	m.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Get returns a copy of the current configuration
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return *m.config
}

// GetConfigPath returns the path of the loaded config file
func (m *Manager) GetConfigPath() string {
	return m.configPath
}

// SetPort overrides the server port
func (m *Manager) SetPort(port int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config.ServerPort = port
}

// SetLogLevel overrides the log level
func (m *Manager) SetLogLevel(level string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config.LogLevel = level
}
