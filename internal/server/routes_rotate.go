package server

import (
	"net/http"
	"os"

	"ssb-ap-go/internal/logging"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// triggerRotation schedules a manual rotation by dropping the interface's
// trigger marker. The supervisor consumes the marker on its next tick;
// the response only acknowledges the request, it does not wait for the
// rotation. Cooldown enforcement happens at consumption time.
func (h *handlers) triggerRotation(c *gin.Context) {
	iface := c.Param("interface")

	cfg := h.deps.Config()
	ifaceCfg, ok := cfg.Interfaces[iface]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{"message": "unknown interface", "type": "not_found"},
		})
		return
	}
	if !ifaceCfg.IsEnabled() {
		c.JSON(http.StatusConflict, gin.H{
			"error": gin.H{"message": "interface is disabled", "type": "invalid_state"},
		})
		return
	}

	if err := os.WriteFile(h.deps.Paths.TriggerFile(iface), nil, 0o644); err != nil {
		logging.WithIface(iface).WithError(err).Error("failed to write trigger marker")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"message": "failed to schedule rotation", "type": "internal_error"},
		})
		return
	}

	log.WithFields(log.Fields{"interface": iface, "ip": c.ClientIP()}).Info("manual rotation requested")
	c.JSON(http.StatusAccepted, gin.H{"status": "scheduled", "interface": iface})
}
