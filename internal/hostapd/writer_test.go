package hostapd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleTemplate = `interface={{SSID}}-unused
ssid={{SSID}}
wpa_passphrase={{PASSWORD}}
channel={{CHANNEL}}
country_code={{COUNTRY_CODE}}
`

func TestWriteRendersTemplate(t *testing.T) {
	tmplDir := t.TempDir()
	confDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmplDir, "hostapd-template.conf"), []byte(sampleTemplate), 0o644))

	w := NewConfigWriter(tmplDir, confDir)
	err := w.Write("wlan0", RenderParams{SSID: "ssb-abc123", Password: "s3cretpass", Channel: 6, CountryCode: "AR"})
	require.NoError(t, err)

	data, err := os.ReadFile(w.ConfPath("wlan0"))
	require.NoError(t, err)
	content := string(data)
	require.Contains(t, content, "ssid=ssb-abc123")
	require.Contains(t, content, "wpa_passphrase=s3cretpass")
	require.Contains(t, content, "channel=6")
	require.Contains(t, content, "country_code=AR")
	require.False(t, strings.Contains(content, "{{"), "unreplaced placeholder in rendered config")

	info, err := os.Stat(w.ConfPath("wlan0"))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestWritePrefersInterfaceTemplate(t *testing.T) {
	tmplDir := t.TempDir()
	confDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmplDir, "hostapd-template.conf"), []byte("generic ssid={{SSID}}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tmplDir, "hostapd-wlan1-template.conf"), []byte("wlan1 ssid={{SSID}}\n"), 0o644))

	w := NewConfigWriter(tmplDir, confDir)
	require.NoError(t, w.Write("wlan1", RenderParams{SSID: "x", Password: "y", Channel: 11, CountryCode: "AR"}))

	data, err := os.ReadFile(w.ConfPath("wlan1"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "wlan1 "))
}

func TestWriteMissingTemplate(t *testing.T) {
	w := NewConfigWriter(t.TempDir(), t.TempDir())
	err := w.Write("wlan0", RenderParams{SSID: "x", Password: "y"})
	if err == nil {
		t.Fatalf("expected error for missing template")
	}
}

func TestServiceName(t *testing.T) {
	if got := ServiceName("wlan0", false); got != "hostapd" {
		t.Fatalf("single mode service = %q", got)
	}
	if got := ServiceName("wlan1", true); got != "hostapd@wlan1" {
		t.Fatalf("dual mode service = %q", got)
	}
}
