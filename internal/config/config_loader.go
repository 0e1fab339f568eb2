package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

func (cm *ConfigManager) load() error {
	if cm.configPath == "" {
		return os.ErrNotExist
	}

	data, err := os.ReadFile(cm.configPath)
	if err != nil {
		return err
	}

	// Unmarshal onto a defaults-populated struct so missing scalar fields
	// keep their documented defaults. The interfaces map is merged
	// field-wise afterwards; a bulk unmarshal would wipe unset fields of
	// partially-specified interface entries.
	cfg := cm.defaultConfig()
	defaultIfaces := cfg.Interfaces
	cfg.Interfaces = nil

	ext := strings.ToLower(filepath.Ext(cm.configPath))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			if err := json.Unmarshal(data, cfg); err != nil {
				return fmt.Errorf("failed to parse config file (tried YAML and JSON)")
			}
		}
	}

	cfg.Interfaces = defaultIfaces
	raw, err := toJSON(data, ext)
	if err != nil {
		return err
	}
	mergeInterfaces(cfg, raw)

	if info, err := os.Stat(cm.configPath); err == nil {
		cm.lastMod = info.ModTime()
	}

	cm.config = cfg
	log.WithField("path", cm.configPath).Info("configuration loaded")

	return nil
}

// toJSON normalizes the raw config document to JSON so interface entries can
// be inspected with gjson regardless of the source format.
func toJSON(data []byte, ext string) ([]byte, error) {
	if ext == ".json" || json.Valid(data) {
		return data, nil
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to normalize config: %w", err)
	}
	return json.Marshal(doc)
}

// mergeInterfaces applies only the fields actually present in the config file
// onto the default interface entries, mirroring the documented deep merge.
func mergeInterfaces(cfg *FileConfig, raw []byte) {
	res := gjson.GetBytes(raw, "interfaces")
	if !res.Exists() || !res.IsObject() {
		return
	}
	if cfg.Interfaces == nil {
		cfg.Interfaces = make(map[string]InterfaceConfig)
	}
	res.ForEach(func(key, val gjson.Result) bool {
		entry := cfg.Interfaces[key.String()]
		if v := val.Get("enabled"); v.Exists() {
			b := v.Bool()
			entry.Enabled = &b
		}
		if v := val.Get("ap_ip"); v.Exists() {
			entry.APIP = v.String()
		}
		if v := val.Get("ap_netmask"); v.Exists() {
			entry.APNetmask = v.String()
		}
		if v := val.Get("dhcp_range_start"); v.Exists() {
			entry.DHCPRangeStart = v.String()
		}
		if v := val.Get("dhcp_range_end"); v.Exists() {
			entry.DHCPRangeEnd = v.String()
		}
		if v := val.Get("dhcp_lease_time"); v.Exists() {
			entry.DHCPLeaseTime = v.String()
		}
		if v := val.Get("channel"); v.Exists() {
			entry.Channel = int(v.Int())
		}
		cfg.Interfaces[key.String()] = entry
		return true
	})
}
