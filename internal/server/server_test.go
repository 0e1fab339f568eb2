package server

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"ssb-ap-go/internal/config"
	"ssb-ap-go/internal/rotation"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func testDeps(t *testing.T) Dependencies {
	t.Helper()
	gin.SetMode(gin.TestMode)
	runDir := t.TempDir()
	cfg := &config.FileConfig{
		ControlRPS:        100,
		LogRetentionCount: 10,
		RunDir:            runDir,
		Interfaces: map[string]config.InterfaceConfig{
			"wlan0": {Channel: 6},
			"wlan1": {Channel: 11},
		},
	}
	return Dependencies{
		Config:  func() *config.FileConfig { return cfg },
		Paths:   rotation.Paths{RunDir: runDir},
		History: rotation.NewHistoryLog(filepath.Join(runDir, "rotations.json"), 10),
	}
}

func writeStatus(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestHealthz(t *testing.T) {
	engine := BuildEngine(testDeps(t))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))
	require.Equal(t, 200, w.Code)
	require.Equal(t, "ok", gjson.Get(w.Body.String(), "status").String())
}

func TestInterfaceStatus(t *testing.T) {
	deps := testDeps(t)
	engine := BuildEngine(deps)

	writeStatus(t, deps.Paths.StatusFile("wlan0"),
		`{"interface":"wlan0","state":"ready","ssid":"ssb-abc123","client_count":2,"last_error":null}`)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/status/wlan0", nil))
	require.Equal(t, 200, w.Code)

	body := w.Body.String()
	require.Equal(t, "ready", gjson.Get(body, "state").String())
	require.Equal(t, "ssb-abc123", gjson.Get(body, "ssid").String())
	require.Equal(t, int64(2), gjson.Get(body, "client_count").Int())
}

func TestInterfaceStatusUnknownInterface(t *testing.T) {
	engine := BuildEngine(testDeps(t))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/status/eth0", nil))
	require.Equal(t, 404, w.Code)
}

func TestInterfaceStatusMissingSnapshot(t *testing.T) {
	engine := BuildEngine(testDeps(t))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/status/wlan1", nil))
	require.Equal(t, 200, w.Code)
	require.Equal(t, "unknown", gjson.Get(w.Body.String(), "state").String())
}

func TestInterfaceStatusLegacyFallback(t *testing.T) {
	deps := testDeps(t)
	engine := BuildEngine(deps)

	// Only the unnamed legacy file exists; it serves the primary interface.
	writeStatus(t, deps.Paths.LegacyStatusFile(),
		`{"state":"ready","ssid":"ssb-legacy"}`)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/status/wlan0", nil))
	require.Equal(t, 200, w.Code)
	require.Equal(t, "ssb-legacy", gjson.Get(w.Body.String(), "ssid").String())

	// The legacy file never serves other interfaces.
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/status/wlan1", nil))
	require.Equal(t, "unknown", gjson.Get(w.Body.String(), "state").String())
}

func TestInterfaceStatusToleratesMissingFields(t *testing.T) {
	deps := testDeps(t)
	engine := BuildEngine(deps)

	writeStatus(t, deps.Paths.StatusFile("wlan0"), `{"ssid":"ssb-partial"}`)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/status/wlan0", nil))
	require.Equal(t, 200, w.Code)
	require.Equal(t, "unknown", gjson.Get(w.Body.String(), "state").String())
	require.Equal(t, "ssb-partial", gjson.Get(w.Body.String(), "ssid").String())
}

func TestAllStatus(t *testing.T) {
	deps := testDeps(t)
	engine := BuildEngine(deps)

	writeStatus(t, deps.Paths.StatusFile("wlan0"), `{"state":"ready","ssid":"ssb-one"}`)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/status", nil))
	require.Equal(t, 200, w.Code)

	body := w.Body.String()
	require.Equal(t, "ready", gjson.Get(body, "wlan0.state").String())
	require.Equal(t, "unknown", gjson.Get(body, "wlan1.state").String())
}

func TestTriggerRotation(t *testing.T) {
	deps := testDeps(t)
	engine := BuildEngine(deps)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("POST", "/rotate/wlan0", nil))
	require.Equal(t, 202, w.Code)

	if _, err := os.Stat(deps.Paths.TriggerFile("wlan0")); err != nil {
		t.Fatalf("trigger marker not created: %v", err)
	}
}

func TestTriggerRotationUnknownInterface(t *testing.T) {
	engine := BuildEngine(testDeps(t))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("POST", "/rotate/eth0", nil))
	require.Equal(t, 404, w.Code)
}

func TestTriggerRotationDisabledInterface(t *testing.T) {
	deps := testDeps(t)
	off := false
	deps.Config().Interfaces["wlan1"] = config.InterfaceConfig{Enabled: &off}
	engine := BuildEngine(deps)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("POST", "/rotate/wlan1", nil))
	require.Equal(t, 409, w.Code)
}

func TestRotations(t *testing.T) {
	deps := testDeps(t)
	engine := BuildEngine(deps)

	require.NoError(t, deps.History.Append(&rotation.Credentials{
		Interface: "wlan0",
		SSID:      "ssb-hist01",
	}, "time_expired"))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/rotations", nil))
	require.Equal(t, 200, w.Code)

	body := w.Body.String()
	require.Equal(t, int64(1), gjson.Get(body, "count").Int())
	require.Equal(t, "ssb-hist01", gjson.Get(body, "rotations.0.ssid").String())
}

func TestMetricsEndpoint(t *testing.T) {
	engine := BuildEngine(testDeps(t))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, w.Code)
	require.Contains(t, w.Body.String(), "go_goroutines")
}
