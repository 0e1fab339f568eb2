package server

import (
	"net/http"
	"os"
	"sort"

	"ssb-ap-go/internal/rotation"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
)

// readStatusDoc loads an interface's published snapshot tolerantly: any
// well-formed JSON object is accepted and missing fields fall back to
// defaults, so a snapshot written by an older daemon still renders. The
// primary interface falls back to the unnamed legacy file.
func (h *handlers) readStatusDoc(iface string) gin.H {
	paths := []string{h.deps.Paths.StatusFile(iface)}
	if iface == rotation.PrimaryInterface {
		paths = append(paths, h.deps.Paths.LegacyStatusFile())
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil || !gjson.ValidBytes(data) {
			continue
		}
		doc := gjson.ParseBytes(data)
		if !doc.IsObject() {
			continue
		}
		out := gin.H{
			"interface":            iface,
			"state":                "unknown",
			"ssid":                 doc.Get("ssid").String(),
			"enabled":              doc.Get("enabled").Bool(),
			"created_at":           doc.Get("created_at").Float(),
			"expires_at":           doc.Get("expires_at").Float(),
			"time_remaining":       doc.Get("time_remaining").Int(),
			"client_count":         doc.Get("client_count").Int(),
			"last_rotation_reason": doc.Get("last_rotation_reason").String(),
		}
		if state := doc.Get("state"); state.Exists() {
			out["state"] = state.String()
		}
		if lastErr := doc.Get("last_error"); lastErr.Exists() && lastErr.Type == gjson.String {
			out["last_error"] = lastErr.String()
		} else {
			out["last_error"] = nil
		}
		return out
	}

	return gin.H{"interface": iface, "state": "unknown"}
}

func (h *handlers) allStatus(c *gin.Context) {
	cfg := h.deps.Config()

	ifaces := make([]string, 0, len(cfg.Interfaces))
	for iface := range cfg.Interfaces {
		ifaces = append(ifaces, iface)
	}
	sort.Strings(ifaces)

	out := gin.H{}
	for _, iface := range ifaces {
		out[iface] = h.readStatusDoc(iface)
	}
	c.JSON(http.StatusOK, out)
}

func (h *handlers) interfaceStatus(c *gin.Context) {
	iface := c.Param("interface")
	if _, ok := h.deps.Config().Interfaces[iface]; !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{"message": "unknown interface", "type": "not_found"},
		})
		return
	}
	c.JSON(http.StatusOK, h.readStatusDoc(iface))
}

func (h *handlers) rotations(c *gin.Context) {
	entries, err := h.deps.History.Entries()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"message": "failed to read rotation history", "type": "internal_error"},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rotations": entries, "count": len(entries)})
}
