// Package hostapd renders access-point configuration files and drives the
// hostapd systemd unit that applies them over the air.
package hostapd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// RenderParams carries the values substituted into a hostapd template.
type RenderParams struct {
	SSID        string
	Password    string
	Channel     int
	CountryCode string
}

// ConfigWriter renders hostapd configuration files from templates.
type ConfigWriter struct {
	// TemplateDir holds hostapd-<iface>-template.conf files, with a
	// generic hostapd-template.conf fallback.
	TemplateDir string
	// ConfDir receives the rendered hostapd-<iface>.conf files.
	ConfDir string
}

// NewConfigWriter builds a writer for the given template and output dirs.
func NewConfigWriter(templateDir, confDir string) *ConfigWriter {
	return &ConfigWriter{TemplateDir: templateDir, ConfDir: confDir}
}

// templatePath resolves the interface-specific template, falling back to the
// generic one when it does not exist.
func (w *ConfigWriter) templatePath(iface string) string {
	specific := filepath.Join(w.TemplateDir, fmt.Sprintf("hostapd-%s-template.conf", iface))
	if _, err := os.Stat(specific); err == nil {
		return specific
	}
	return filepath.Join(w.TemplateDir, "hostapd-template.conf")
}

// ConfPath returns the rendered config path for the interface.
func (w *ConfigWriter) ConfPath(iface string) string {
	return filepath.Join(w.ConfDir, fmt.Sprintf("hostapd-%s.conf", iface))
}

// Write renders the template for iface and persists it with owner-only
// permissions. The rendered file contains the plaintext passphrase.
func (w *ConfigWriter) Write(iface string, params RenderParams) error {
	tmplPath := w.templatePath(iface)
	tmpl, err := os.ReadFile(tmplPath)
	if err != nil {
		return fmt.Errorf("read hostapd template %s: %w", tmplPath, err)
	}

	content := string(tmpl)
	content = strings.ReplaceAll(content, "{{SSID}}", params.SSID)
	content = strings.ReplaceAll(content, "{{PASSWORD}}", params.Password)
	content = strings.ReplaceAll(content, "{{CHANNEL}}", strconv.Itoa(params.Channel))
	content = strings.ReplaceAll(content, "{{COUNTRY_CODE}}", params.CountryCode)

	confPath := w.ConfPath(iface)
	if err := os.MkdirAll(filepath.Dir(confPath), 0o755); err != nil {
		return fmt.Errorf("create hostapd config directory: %w", err)
	}
	if err := os.WriteFile(confPath, []byte(content), 0o600); err != nil {
		return fmt.Errorf("write hostapd config %s: %w", confPath, err)
	}

	log.WithFields(log.Fields{"interface": iface, "ssid": params.SSID}).Info("wrote hostapd config")
	return nil
}
