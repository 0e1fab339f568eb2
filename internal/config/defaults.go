package config

func boolPtr(b bool) *bool { return &b }

func (cm *ConfigManager) defaultConfig() *FileConfig {
	return &FileConfig{
		RotationIntervalSec:       300,
		ClientThreshold:           5,
		MinTimeAfterClientsSec:    120,
		ManualRotationCooldownSec: 30,

		SSIDPrefix:     "ssb-",
		SSIDLength:     6,
		PasswordLength: 16,

		WANInterface:         "eth0",
		CountryCode:          "AR",
		DualAPMode:           false,
		LEDBlinkThresholdSec: 60,

		LogRetentionCount: 100,

		RunDir:          "/var/run/ssb-ap",
		LogDir:          "/var/log/ssb-ap",
		TickIntervalSec: 1,

		TemplateDir:    "/opt/ssb-wifi-kiosk/ap",
		HostapdConfDir: "/etc/hostapd",

		QRGeneratorCmd: "/opt/ssb-wifi-kiosk/qr/make_qr.py",
		QROutputDir:    "/opt/ssb-wifi-kiosk/web/static",

		ControlAddr:    "127.0.0.1:8089",
		ControlRPS:     5,
		ControlEnabled: true,

		Interfaces: map[string]InterfaceConfig{
			"wlan0": {
				Enabled:        boolPtr(true),
				APIP:           "192.168.4.1",
				APNetmask:      "255.255.255.0",
				DHCPRangeStart: "192.168.4.10",
				DHCPRangeEnd:   "192.168.4.100",
				DHCPLeaseTime:  "4h",
				Channel:        6,
			},
			"wlan1": {
				Enabled:        boolPtr(false),
				APIP:           "192.168.5.1",
				APNetmask:      "255.255.255.0",
				DHCPRangeStart: "192.168.5.10",
				DHCPRangeEnd:   "192.168.5.100",
				DHCPLeaseTime:  "4h",
				Channel:        11,
			},
		},
	}
}
