package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultsWhenFileMissing(t *testing.T) {
	cm, err := NewConfigManager(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("NewConfigManager: %v", err)
	}
	defer cm.Stop()

	cfg := cm.GetConfig()
	if cfg.RotationIntervalSec != 300 {
		t.Fatalf("expected default rotation interval 300, got %d", cfg.RotationIntervalSec)
	}
	if cfg.SSIDPrefix != "ssb-" {
		t.Fatalf("expected default ssid prefix, got %q", cfg.SSIDPrefix)
	}
	if !cfg.Interfaces["wlan0"].IsEnabled() {
		t.Fatalf("expected wlan0 enabled by default")
	}
	if cfg.Interfaces["wlan1"].IsEnabled() {
		t.Fatalf("expected wlan1 disabled by default")
	}
}

func TestFileOverridesKeepUnsetDefaults(t *testing.T) {
	path := writeConfig(t, "rotation_interval_sec: 60\nssid_prefix: kiosk-\n")
	cm, err := NewConfigManager(path)
	if err != nil {
		t.Fatalf("NewConfigManager: %v", err)
	}
	defer cm.Stop()

	cfg := cm.GetConfig()
	if cfg.RotationIntervalSec != 60 {
		t.Fatalf("expected 60, got %d", cfg.RotationIntervalSec)
	}
	if cfg.SSIDPrefix != "kiosk-" {
		t.Fatalf("expected kiosk-, got %q", cfg.SSIDPrefix)
	}
	// Untouched fields retain their defaults.
	if cfg.ClientThreshold != 5 {
		t.Fatalf("expected default client threshold 5, got %d", cfg.ClientThreshold)
	}
	if cfg.PasswordLength != 16 {
		t.Fatalf("expected default password length 16, got %d", cfg.PasswordLength)
	}
}

func TestInterfaceEntryMergesFieldWise(t *testing.T) {
	path := writeConfig(t, "interfaces:\n  wlan0:\n    channel: 11\n")
	cm, err := NewConfigManager(path)
	if err != nil {
		t.Fatalf("NewConfigManager: %v", err)
	}
	defer cm.Stop()

	wlan0 := cm.GetConfig().Interfaces["wlan0"]
	if wlan0.Channel != 11 {
		t.Fatalf("expected channel override 11, got %d", wlan0.Channel)
	}
	// Fields the file never mentions keep the built-in defaults.
	if wlan0.APIP != "192.168.4.1" {
		t.Fatalf("expected default ap_ip to survive merge, got %q", wlan0.APIP)
	}
	if !wlan0.IsEnabled() {
		t.Fatalf("expected enabled to survive merge")
	}
}

func TestInterfaceEnabledOverride(t *testing.T) {
	path := writeConfig(t, "interfaces:\n  wlan0:\n    enabled: false\n")
	cm, err := NewConfigManager(path)
	if err != nil {
		t.Fatalf("NewConfigManager: %v", err)
	}
	defer cm.Stop()

	if cm.GetConfig().Interfaces["wlan0"].IsEnabled() {
		t.Fatalf("expected wlan0 disabled by file")
	}
}

func TestUnknownInterfaceFromFile(t *testing.T) {
	path := writeConfig(t, "interfaces:\n  wlan2:\n    ap_ip: 192.168.6.1\n    channel: 1\n")
	cm, err := NewConfigManager(path)
	if err != nil {
		t.Fatalf("NewConfigManager: %v", err)
	}
	defer cm.Stop()

	wlan2, ok := cm.GetConfig().Interfaces["wlan2"]
	if !ok {
		t.Fatalf("expected wlan2 entry from file")
	}
	if wlan2.APIP != "192.168.6.1" {
		t.Fatalf("expected file ap_ip, got %q", wlan2.APIP)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SSB_AP_ROTATION_INTERVAL_SEC", "45")
	t.Setenv("SSB_AP_DUAL_AP_MODE", "true")

	cm, err := NewConfigManager(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("NewConfigManager: %v", err)
	}
	defer cm.Stop()

	cfg := cm.GetConfig()
	if cfg.RotationIntervalSec != 45 {
		t.Fatalf("expected env override 45, got %d", cfg.RotationIntervalSec)
	}
	if !cfg.DualAPMode {
		t.Fatalf("expected dual AP mode from env")
	}
}

func TestReloadReplacesSnapshot(t *testing.T) {
	path := writeConfig(t, "rotation_interval_sec: 60\n")
	cm, err := NewConfigManager(path)
	if err != nil {
		t.Fatalf("NewConfigManager: %v", err)
	}
	defer cm.Stop()

	before := cm.GetConfig()
	if err := os.WriteFile(path, []byte("rotation_interval_sec: 90\n"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	if err := cm.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	after := cm.GetConfig()
	if after.RotationIntervalSec != 90 {
		t.Fatalf("expected reloaded value 90, got %d", after.RotationIntervalSec)
	}
	if before.RotationIntervalSec != 60 {
		t.Fatalf("old snapshot must stay intact, got %d", before.RotationIntervalSec)
	}
}

func TestOnChangeFiresOnReload(t *testing.T) {
	path := writeConfig(t, "rotation_interval_sec: 60\n")
	cm, err := NewConfigManager(path)
	if err != nil {
		t.Fatalf("NewConfigManager: %v", err)
	}
	defer cm.Stop()

	got := make(chan *FileConfig, 1)
	cm.OnChange(func(cfg *FileConfig) { got <- cfg })

	if err := os.WriteFile(path, []byte("rotation_interval_sec: 75\n"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	if err := cm.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	select {
	case cfg := <-got:
		if cfg.RotationIntervalSec != 75 {
			t.Fatalf("expected callback with 75, got %d", cfg.RotationIntervalSec)
		}
	case <-time.After(time.Second):
		t.Fatal("OnChange callback never fired")
	}
}

func TestDurationHelpers(t *testing.T) {
	cfg := &FileConfig{
		RotationIntervalSec:       300,
		MinTimeAfterClientsSec:    120,
		ManualRotationCooldownSec: 30,
	}
	if cfg.RotationInterval() != 5*time.Minute {
		t.Fatalf("RotationInterval = %v", cfg.RotationInterval())
	}
	if cfg.MinTimeAfterClients() != 2*time.Minute {
		t.Fatalf("MinTimeAfterClients = %v", cfg.MinTimeAfterClients())
	}
	if cfg.ManualRotationCooldown() != 30*time.Second {
		t.Fatalf("ManualRotationCooldown = %v", cfg.ManualRotationCooldown())
	}
	if cfg.TickInterval() != time.Second {
		t.Fatalf("zero tick interval must floor to 1s, got %v", cfg.TickInterval())
	}
}
