package config

import (
	"os"
	"strconv"
)

func (cm *ConfigManager) mergeEnvVars() {
	if cm.config == nil {
		cm.config = cm.defaultConfig()
	}

	if v := os.Getenv("SSB_AP_DEBUG"); v != "" {
		cm.config.Debug = !(v == "false" || v == "0")
	}
	if v := os.Getenv("SSB_AP_RUN_DIR"); v != "" {
		cm.config.RunDir = v
	}
	if v := os.Getenv("SSB_AP_LOG_DIR"); v != "" {
		cm.config.LogDir = v
	}
	if v := os.Getenv("SSB_AP_LOG_FILE"); v != "" {
		cm.config.LogFile = v
	}
	if v := os.Getenv("SSB_AP_CONTROL_ADDR"); v != "" {
		cm.config.ControlAddr = v
	}
	if v := os.Getenv("SSB_AP_ROTATION_INTERVAL_SEC"); v != "" {
		if n, err := parseInt(v); err == nil && n > 0 {
			cm.config.RotationIntervalSec = n
		}
	}
	if v := os.Getenv("SSB_AP_CLIENT_THRESHOLD"); v != "" {
		if n, err := parseInt(v); err == nil && n > 0 {
			cm.config.ClientThreshold = n
		}
	}
	if v := os.Getenv("SSB_AP_DUAL_AP_MODE"); v != "" {
		cm.config.DualAPMode = !(v == "false" || v == "0")
	}
	if v := os.Getenv("SSB_AP_COUNTRY_CODE"); v != "" {
		cm.config.CountryCode = v
	}
}

func parseInt(v string) (int, error) {
	return strconv.Atoi(v)
}
