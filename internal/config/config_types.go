package config

import "time"

// InterfaceConfig holds per-interface radio settings.
// Pointer fields distinguish "unset" from zero values so file entries can be
// merged field-wise onto the built-in interface defaults.
type InterfaceConfig struct {
	Enabled        *bool  `yaml:"enabled" json:"enabled"`
	APIP           string `yaml:"ap_ip" json:"ap_ip"`
	APNetmask      string `yaml:"ap_netmask" json:"ap_netmask"`
	DHCPRangeStart string `yaml:"dhcp_range_start" json:"dhcp_range_start"`
	DHCPRangeEnd   string `yaml:"dhcp_range_end" json:"dhcp_range_end"`
	DHCPLeaseTime  string `yaml:"dhcp_lease_time" json:"dhcp_lease_time"`
	Channel        int    `yaml:"channel" json:"channel"`
}

// IsEnabled reports the effective enabled flag (unset defaults to true).
func (ic InterfaceConfig) IsEnabled() bool {
	return ic.Enabled == nil || *ic.Enabled
}

// FileConfig represents the daemon configuration loaded from file.
type FileConfig struct {
	// Rotation policy
	RotationIntervalSec       int `yaml:"rotation_interval_sec" json:"rotation_interval_sec"`
	ClientThreshold           int `yaml:"client_threshold" json:"client_threshold"`
	MinTimeAfterClientsSec    int `yaml:"min_time_after_clients_sec" json:"min_time_after_clients_sec"`
	ManualRotationCooldownSec int `yaml:"manual_rotation_cooldown_sec" json:"manual_rotation_cooldown_sec"`

	// Credential generation
	SSIDPrefix     string `yaml:"ssid_prefix" json:"ssid_prefix"`
	SSIDLength     int    `yaml:"ssid_length" json:"ssid_length"`
	PasswordLength int    `yaml:"password_length" json:"password_length"`

	// Radio / host settings
	WANInterface         string `yaml:"wan_interface" json:"wan_interface"`
	CountryCode          string `yaml:"country_code" json:"country_code"`
	DualAPMode           bool   `yaml:"dual_ap_mode" json:"dual_ap_mode"`
	LEDBlinkThresholdSec int    `yaml:"led_blink_threshold_sec" json:"led_blink_threshold_sec"`

	// History
	LogRetentionCount int `yaml:"log_retention_count" json:"log_retention_count"`

	// Daemon plumbing
	RunDir          string `yaml:"run_dir" json:"run_dir"`
	LogDir          string `yaml:"log_dir" json:"log_dir"`
	LogFile         string `yaml:"log_file" json:"log_file"`
	Debug           bool   `yaml:"debug" json:"debug"`
	TickIntervalSec int    `yaml:"tick_interval_sec" json:"tick_interval_sec"`

	// hostapd integration
	TemplateDir    string `yaml:"template_dir" json:"template_dir"`
	HostapdConfDir string `yaml:"hostapd_conf_dir" json:"hostapd_conf_dir"`

	// QR converter integration
	QRGeneratorCmd string `yaml:"qr_generator_cmd" json:"qr_generator_cmd"`
	QROutputDir    string `yaml:"qr_output_dir" json:"qr_output_dir"`

	// Control API
	ControlAddr    string `yaml:"control_addr" json:"control_addr"`
	ControlRPS     int    `yaml:"control_rps" json:"control_rps"`
	ControlEnabled bool   `yaml:"control_enabled" json:"control_enabled"`

	Interfaces map[string]InterfaceConfig `yaml:"interfaces" json:"interfaces"`
}

// RotationInterval returns the rotation interval as a duration.
func (c *FileConfig) RotationInterval() time.Duration {
	return time.Duration(c.RotationIntervalSec) * time.Second
}

// MinTimeAfterClients returns the minimum credential age before the
// client-count trigger may fire.
func (c *FileConfig) MinTimeAfterClients() time.Duration {
	return time.Duration(c.MinTimeAfterClientsSec) * time.Second
}

// ManualRotationCooldown returns the manual-trigger cooldown window.
func (c *FileConfig) ManualRotationCooldown() time.Duration {
	return time.Duration(c.ManualRotationCooldownSec) * time.Second
}

// TickInterval returns the supervisor polling cadence (minimum one second).
func (c *FileConfig) TickInterval() time.Duration {
	if c.TickIntervalSec <= 0 {
		return time.Second
	}
	return time.Duration(c.TickIntervalSec) * time.Second
}
