// Package rotation owns the credential lifecycle for access-point
// interfaces: rotation policy, the per-interface rotation engine, the
// published status protocol, and the daemon supervisor driving it all.
package rotation

import "time"

// PrimaryInterface is the interface served in single-AP mode and the one
// whose published artifacts keep legacy unnamed aliases.
const PrimaryInterface = "wlan0"

// State is the published lifecycle state of an interface.
type State string

const (
	StateReady    State = "ready"
	StateRotating State = "rotating"
	StateError    State = "error"
	StateDisabled State = "disabled"
)

// Rotation reasons recorded in credentials, status, and history.
const (
	ReasonInitial       = "initial"
	ReasonInitialRetry  = "initial_retry"
	ReasonTimeExpired   = "time_expired"
	ReasonManualTrigger = "manual_trigger"
)

// Credentials are the live WiFi credentials for one interface. A rotation
// replaces the whole value; nothing mutates one in place. Timestamps are
// Unix seconds to match the on-disk protocol consumed by the LED renderer
// and web view.
type Credentials struct {
	Interface      string  `json:"interface"`
	SSID           string  `json:"ssid"`
	Password       string  `json:"password"`
	CreatedAt      float64 `json:"created_at"`
	ExpiresAt      float64 `json:"expires_at"`
	RotationReason string  `json:"rotation_reason"`
}

// CreatedTime converts the creation timestamp to a time.Time.
func (c *Credentials) CreatedTime() time.Time { return timeFromUnix(c.CreatedAt) }

// ExpiryTime converts the expiry timestamp to a time.Time.
func (c *Credentials) ExpiryTime() time.Time { return timeFromUnix(c.ExpiresAt) }

// Age reports how long the credentials have existed at now.
func (c *Credentials) Age(now time.Time) time.Duration {
	return now.Sub(c.CreatedTime())
}

// Expired reports whether the credentials have reached their expiry at now.
func (c *Credentials) Expired(now time.Time) bool {
	return unixSeconds(now) >= c.ExpiresAt
}

// Remaining reports the whole seconds left before expiry, floored at zero.
func (c *Credentials) Remaining(now time.Time) int {
	rem := c.ExpiresAt - unixSeconds(now)
	if rem <= 0 {
		return 0
	}
	return int(rem)
}

// InterfaceStatus is the world-readable projection of an engine's state,
// regenerated every tick and overwritten atomically. It is a snapshot, not
// a journal.
type InterfaceStatus struct {
	Interface          string  `json:"interface"`
	Enabled            bool    `json:"enabled"`
	State              State   `json:"state"`
	SSID               string  `json:"ssid"`
	CreatedAt          float64 `json:"created_at"`
	ExpiresAt          float64 `json:"expires_at"`
	TimeRemaining      int     `json:"time_remaining"`
	ClientCount        int     `json:"client_count"`
	LastRotationReason string  `json:"last_rotation_reason"`
	LastError          *string `json:"last_error"`
}

// RotationHistoryEntry is one line of the capped audit log.
type RotationHistoryEntry struct {
	ID        string  `json:"id"`
	Timestamp string  `json:"timestamp"`
	Interface string  `json:"interface"`
	SSID      string  `json:"ssid"`
	Reason    string  `json:"reason"`
	CreatedAt float64 `json:"created_at"`
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

func timeFromUnix(sec float64) time.Time {
	return time.Unix(0, int64(sec*float64(time.Second)))
}
