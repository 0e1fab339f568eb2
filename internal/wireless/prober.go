// Package wireless probes radio interfaces through the iproute2 and iw
// command-line tools. All invocations carry bounded timeouts; a probe that
// hangs is treated as failed, never waited on indefinitely.
package wireless

import (
	"context"
	"os/exec"
	"strings"

	"ssb-ap-go/internal/constants"

	log "github.com/sirupsen/logrus"
)

// Prober answers questions about physical radio interfaces.
type Prober struct{}

// NewProber returns a Prober backed by the host's `ip` and `iw` binaries.
func NewProber() *Prober {
	return &Prober{}
}

// Available reports whether the named interface exists on the host.
func (p *Prober) Available(ctx context.Context, iface string) bool {
	ctx, cancel := context.WithTimeout(ctx, constants.ProbeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ip", "link", "show", iface)
	if err := cmd.Run(); err != nil {
		return false
	}
	return true
}

// ClientCount counts stations currently associated with the interface.
// Errors are logged and reported as zero: an unreadable station dump must
// never veto a rotation decision.
func (p *Prober) ClientCount(ctx context.Context, iface string) int {
	ctx, cancel := context.WithTimeout(ctx, constants.StationDumpTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "iw", "dev", iface, "station", "dump")
	out, err := cmd.Output()
	if err != nil {
		log.WithField("interface", iface).WithError(err).Debug("station dump failed")
		return 0
	}
	return countStations(string(out))
}

// countStations counts "Station <mac>" header lines in iw station dump output.
func countStations(out string) int {
	count := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "Station") {
			count++
		}
	}
	return count
}
