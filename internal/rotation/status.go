package rotation

import (
	"context"
	"encoding/json"
	"time"

	log "github.com/sirupsen/logrus"
)

// PublishStatus regenerates the interface's world-readable status snapshot.
// The snapshot always reflects the last successfully applied credentials,
// even while the state is "rotating" or "error" mid-attempt. For the
// primary interface the unnamed legacy alias is refreshed as well.
func (e *Engine) PublishStatus(ctx context.Context, state State, lastError string) {
	cfg := e.cfg()

	status := InterfaceStatus{
		Interface: e.iface,
		Enabled:   cfg.Interfaces[e.iface].IsEnabled(),
		State:     state,
	}
	if lastError != "" {
		status.LastError = &lastError
	}

	if cur := e.CurrentCredentials(); cur != nil {
		status.SSID = cur.SSID
		status.CreatedAt = cur.CreatedAt
		status.ExpiresAt = cur.ExpiresAt
		status.TimeRemaining = cur.Remaining(nowFunc())
		status.LastRotationReason = cur.RotationReason
	}

	status.ClientCount = e.prober.ClientCount(ctx, e.iface)

	if err := e.writeStatus(status); err != nil {
		log.WithField("interface", e.iface).WithError(err).Error("failed to publish status")
	}
}

// PublishDisabled writes a disabled snapshot for an interface with no
// running engine, so readers see an explicit state rather than a stale or
// missing file.
func PublishDisabled(paths Paths, iface string) {
	status := InterfaceStatus{Interface: iface, State: StateDisabled}
	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return
	}
	if err := writeStatusFiles(paths, iface, data); err != nil {
		log.WithField("interface", iface).WithError(err).Error("failed to publish disabled status")
	}
}

func (e *Engine) writeStatus(status InterfaceStatus) error {
	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return err
	}
	return writeStatusFiles(e.paths, e.iface, data)
}

func writeStatusFiles(paths Paths, iface string, data []byte) error {
	if err := writeFileAtomic(paths.StatusFile(iface), data, 0o644); err != nil {
		return err
	}
	if iface == PrimaryInterface {
		if err := writeFileAtomic(paths.LegacyStatusFile(), data, 0o644); err != nil {
			log.WithError(err).Debug("failed to refresh legacy status file")
		}
	}
	return nil
}

// nowFunc exists so tests can pin the clock for snapshot fields.
var nowFunc = time.Now
