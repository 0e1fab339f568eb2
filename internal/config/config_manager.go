package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"ssb-ap-go/internal/events"

	log "github.com/sirupsen/logrus"
)

// ConfigManager manages the configuration file and hot reload.
type ConfigManager struct {
	mu         sync.RWMutex
	config     *FileConfig
	configPath string
	stopCh     chan struct{}
	stopOnce   sync.Once
	onChange   []func(*FileConfig)
	lastMod    time.Time
	publisher  events.Publisher
}

// NewConfigManager creates a new configuration manager. An empty path probes
// the conventional locations; a missing file falls back to defaults.
func NewConfigManager(configPath string) (*ConfigManager, error) {
	if configPath == "" {
		locations := []string{
			"/etc/ssb-ap/config.yaml",
			"/etc/ssb-ap/config.yml",
			"/etc/ssb-ap/config.json",
			"config.yaml",
			"config.yml",
			"config.json",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				configPath = loc
				break
			}
		}
	}

	if strings.HasPrefix(configPath, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(homeDir, configPath[1:])
	}

	cm := &ConfigManager{
		configPath: configPath,
		stopCh:     make(chan struct{}),
		onChange:   make([]func(*FileConfig), 0),
	}

	if err := cm.load(); err != nil {
		if os.IsNotExist(err) || configPath == "" {
			cm.config = cm.defaultConfig()
			log.WithField("path", configPath).Warn("using default configuration (no config file found)")
		} else {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	cm.mergeEnvVars()

	if cm.configPath != "" {
		if _, err := os.Stat(cm.configPath); err == nil {
			cm.startWatcher()
		}
	}

	return cm, nil
}

// GetConfig returns the current configuration snapshot. The returned pointer
// is replaced wholesale on reload; callers must not mutate it.
func (cm *ConfigManager) GetConfig() *FileConfig {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// Path returns the resolved config file path (empty when running on defaults).
func (cm *ConfigManager) Path() string {
	return cm.configPath
}

// Reload re-reads the configuration file. It is the SIGHUP entry point; the
// fsnotify watcher funnels into the same code path.
func (cm *ConfigManager) Reload() error {
	cm.mu.Lock()
	oldConfig := cm.config

	if err := cm.load(); err != nil {
		if os.IsNotExist(err) || cm.configPath == "" {
			cm.config = cm.defaultConfig()
		} else {
			cm.mu.Unlock()
			return fmt.Errorf("failed to reload config: %w", err)
		}
	}
	cm.mergeEnvVars()
	newConfig := cm.config
	cm.mu.Unlock()

	cm.emitChange(oldConfig, newConfig)
	cm.logConfigChanges(oldConfig, newConfig)
	return nil
}

// OnChange registers a callback invoked after every successful reload.
func (cm *ConfigManager) OnChange(fn func(*FileConfig)) {
	if fn == nil {
		return
	}
	cm.mu.Lock()
	cm.onChange = append(cm.onChange, fn)
	cm.mu.Unlock()
}

// SetEventPublisher attaches an event hub for config change notifications.
func (cm *ConfigManager) SetEventPublisher(pub events.Publisher) {
	cm.mu.Lock()
	cm.publisher = pub
	cm.mu.Unlock()
}

// Stop terminates the file watcher.
func (cm *ConfigManager) Stop() {
	cm.stopOnce.Do(func() { close(cm.stopCh) })
}

func (cm *ConfigManager) emitChange(old, new *FileConfig) {
	cm.mu.RLock()
	callbacks := make([]func(*FileConfig), len(cm.onChange))
	copy(callbacks, cm.onChange)
	publisher := cm.publisher
	cm.mu.RUnlock()

	for _, fn := range callbacks {
		fn(new)
	}
	if publisher != nil {
		publisher.Publish(context.Background(), events.TopicConfigUpdated, map[string]any{
			"path": cm.configPath,
		}, nil)
	}
}

func (cm *ConfigManager) logConfigChanges(old, new *FileConfig) {
	if old == nil || new == nil {
		return
	}
	if old.RotationIntervalSec != new.RotationIntervalSec {
		log.WithFields(log.Fields{"field": "rotation_interval_sec", "old": old.RotationIntervalSec, "new": new.RotationIntervalSec}).Info("config changed")
	}
	if old.ClientThreshold != new.ClientThreshold {
		log.WithFields(log.Fields{"field": "client_threshold", "old": old.ClientThreshold, "new": new.ClientThreshold}).Info("config changed")
	}
	if old.MinTimeAfterClientsSec != new.MinTimeAfterClientsSec {
		log.WithFields(log.Fields{"field": "min_time_after_clients_sec", "old": old.MinTimeAfterClientsSec, "new": new.MinTimeAfterClientsSec}).Info("config changed")
	}
	if old.ManualRotationCooldownSec != new.ManualRotationCooldownSec {
		log.WithFields(log.Fields{"field": "manual_rotation_cooldown_sec", "old": old.ManualRotationCooldownSec, "new": new.ManualRotationCooldownSec}).Info("config changed")
	}
	if old.DualAPMode != new.DualAPMode {
		log.WithFields(log.Fields{"field": "dual_ap_mode", "old": old.DualAPMode, "new": new.DualAPMode}).Info("config changed")
	}
	if old.Debug != new.Debug {
		log.WithFields(log.Fields{"field": "debug", "old": old.Debug, "new": new.Debug}).Info("config changed")
	}
}
