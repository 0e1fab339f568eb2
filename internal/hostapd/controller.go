package hostapd

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"ssb-ap-go/internal/constants"

	log "github.com/sirupsen/logrus"
)

// SystemdController restarts hostapd through systemctl. The restart is the
// control-plane call that makes new credentials live; the daemon has no
// visibility into how the unit re-associates clients.
type SystemdController struct{}

// NewSystemdController returns a controller backed by the host's systemctl.
func NewSystemdController() *SystemdController {
	return &SystemdController{}
}

// ServiceName resolves the unit to restart. Dual mode uses the templated
// per-interface unit; single mode uses the stock hostapd service.
func ServiceName(iface string, dualMode bool) string {
	if dualMode {
		return fmt.Sprintf("hostapd@%s", iface)
	}
	return "hostapd"
}

// Restart issues a bounded `systemctl restart` for the interface's unit.
func (c *SystemdController) Restart(ctx context.Context, iface string, dualMode bool) error {
	service := ServiceName(iface, dualMode)

	ctx, cancel := context.WithTimeout(ctx, constants.ServiceRestartTimeout)
	defer cancel()

	log.WithFields(log.Fields{"interface": iface, "service": service}).Debug("restarting hostapd")

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "systemctl", "restart", service)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("restart %s: timed out", service)
		}
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return fmt.Errorf("restart %s: %s: %w", service, detail, err)
		}
		return fmt.Errorf("restart %s: %w", service, err)
	}

	log.WithField("service", service).Info("hostapd restarted")
	return nil
}
