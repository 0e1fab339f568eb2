package constants

import "time"

const (
	// ProbeTimeout bounds `ip link show` interface presence checks.
	ProbeTimeout = 5 * time.Second
	// StationDumpTimeout bounds `iw dev <iface> station dump` client counting.
	StationDumpTimeout = 5 * time.Second
	// QRConvertTimeout bounds the external credential-to-image converter.
	QRConvertTimeout = 10 * time.Second
	// ServiceRestartTimeout bounds `systemctl restart` of the hostapd unit.
	ServiceRestartTimeout = 30 * time.Second
	// DefaultTickInterval is the supervisor polling cadence.
	DefaultTickInterval = 1 * time.Second
	// TickErrorBackoff is the pause after an unexpected tick failure.
	TickErrorBackoff = 5 * time.Second
	// StartupRetryDelay separates the initial rotation from its single retry.
	StartupRetryDelay = 5 * time.Second
	// ServerShutdownTimeout bounds graceful control-server shutdown.
	ServerShutdownTimeout = 30 * time.Second
)
