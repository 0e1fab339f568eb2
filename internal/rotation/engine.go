package rotation

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"ssb-ap-go/internal/config"
	"ssb-ap-go/internal/hostapd"
	"ssb-ap-go/internal/monitoring"
	"ssb-ap-go/internal/wifiqr"

	log "github.com/sirupsen/logrus"
)

// Prober answers presence and occupancy questions about radio interfaces.
type Prober interface {
	Available(ctx context.Context, iface string) bool
	ClientCount(ctx context.Context, iface string) int
}

// ConfigWriter persists an access-point configuration for an interface.
type ConfigWriter interface {
	Write(iface string, params hostapd.RenderParams) error
}

// ServiceController applies a written configuration over the air.
type ServiceController interface {
	Restart(ctx context.Context, iface string, dualMode bool) error
}

// ImageConverter produces a scannable join image for credentials.
type ImageConverter interface {
	Convert(ctx context.Context, ssid, password, outputPath string) error
}

// Engine owns the credential lifecycle of a single interface. All rotation
// attempts for the interface are serialized through its rotation lock; a
// second caller blocks until the first completes rather than queueing
// another unconditional rotation.
type Engine struct {
	iface string
	cfg   func() *config.FileConfig
	paths Paths

	prober     Prober
	writer     ConfigWriter
	controller ServiceController
	converter  ImageConverter

	rotationMu sync.Mutex

	stateMu            sync.RWMutex
	current            *Credentials
	lastManualRotation time.Time
}

// EngineOptions groups the collaborators an Engine drives.
type EngineOptions struct {
	Interface  string
	Config     func() *config.FileConfig
	Paths      Paths
	Prober     Prober
	Writer     ConfigWriter
	Controller ServiceController
	Converter  ImageConverter
}

// NewEngine constructs an engine and recovers persisted credentials from the
// run directory if a previous daemon instance left any behind.
func NewEngine(opts EngineOptions) *Engine {
	e := &Engine{
		iface:      opts.Interface,
		cfg:        opts.Config,
		paths:      opts.Paths,
		prober:     opts.Prober,
		writer:     opts.Writer,
		controller: opts.Controller,
		converter:  opts.Converter,
	}
	e.restoreCredentials()
	return e
}

// Interface returns the interface name this engine manages.
func (e *Engine) Interface() string { return e.iface }

// CurrentCredentials returns a copy of the live credentials, or nil while
// uninitialized.
func (e *Engine) CurrentCredentials() *Credentials {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	if e.current == nil {
		return nil
	}
	creds := *e.current
	return &creds
}

// Evaluate decides whether the interface should rotate now. It is pure
// apart from querying the live client count; calling it repeatedly without
// an intervening rotation never changes engine state.
func (e *Engine) Evaluate(ctx context.Context) (bool, string) {
	cur := e.CurrentCredentials()
	if cur == nil {
		return true, ReasonInitial
	}

	now := time.Now()
	clients := e.prober.ClientCount(ctx, e.iface)
	monitoring.ClientCount.WithLabelValues(e.iface).Set(float64(clients))
	monitoring.CredentialAge.WithLabelValues(e.iface).Set(cur.Age(now).Seconds())

	log.WithFields(log.Fields{
		"interface":  e.iface,
		"age_sec":    int(cur.Age(now).Seconds()),
		"expires_in": cur.Remaining(now),
		"clients":    clients,
	}).Debug("rotation check")

	if cur.Expired(now) {
		return true, ReasonTimeExpired
	}

	cfg := e.cfg()
	if clients >= cfg.ClientThreshold && cur.Age(now) >= cfg.MinTimeAfterClients() {
		return true, fmt.Sprintf("client_threshold_%d", clients)
	}

	return false, ""
}

// ConsumeManualTrigger detects and deletes the interface's trigger marker.
// The marker is always consumed; a rotation is signaled only when the
// manual-rotation cooldown has elapsed. The cooldown is tracked in memory
// only, so a daemon restart resets it.
func (e *Engine) ConsumeManualTrigger(now time.Time) bool {
	trigger := e.paths.TriggerFile(e.iface)
	if _, err := os.Stat(trigger); err != nil {
		return false
	}
	if err := os.Remove(trigger); err != nil {
		if !os.IsNotExist(err) {
			log.WithField("interface", e.iface).WithError(err).Error("failed to consume trigger marker")
		}
		return false
	}

	cooldown := e.cfg().ManualRotationCooldown()

	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	if since := now.Sub(e.lastManualRotation); since < cooldown {
		remaining := cooldown - since
		log.WithFields(log.Fields{
			"interface":     e.iface,
			"remaining_sec": int(remaining.Seconds()) + 1,
		}).Warn("manual rotation inside cooldown window, ignoring trigger")
		monitoring.ManualTriggerRejections.WithLabelValues(e.iface).Inc()
		return false
	}
	e.lastManualRotation = now
	return true
}

// Rotate replaces the interface's credentials. Each gate is fatal to the
// attempt except image conversion, which is best-effort. On a fatal gate
// the previous credentials remain authoritative and the published state is
// "error", even though the config file on disk may already carry the new,
// unapplied credentials.
func (e *Engine) Rotate(ctx context.Context, reason string) (*Credentials, error) {
	e.rotationMu.Lock()
	defer e.rotationMu.Unlock()

	start := time.Now()
	defer func() {
		monitoring.RotationDuration.WithLabelValues(e.iface).Observe(time.Since(start).Seconds())
	}()

	log.WithFields(log.Fields{"interface": e.iface, "reason": reason}).Info("starting rotation")
	e.PublishStatus(ctx, StateRotating, "")

	cfg := e.cfg()

	ssid, err := GenerateSSID(cfg.SSIDPrefix, cfg.SSIDLength)
	if err != nil {
		return nil, e.fail(ctx, StageGenerate, err)
	}
	password, err := GeneratePassword(cfg.PasswordLength)
	if err != nil {
		return nil, e.fail(ctx, StageGenerate, err)
	}

	ifaceCfg := cfg.Interfaces[e.iface]
	if err := e.writer.Write(e.iface, hostapd.RenderParams{
		SSID:        ssid,
		Password:    password,
		Channel:     ifaceCfg.Channel,
		CountryCode: cfg.CountryCode,
	}); err != nil {
		return nil, e.fail(ctx, StageConfigWrite, err)
	}

	// Image conversion is best-effort: the rotation proceeds without a
	// fresh scannable image.
	e.convertImage(ctx, cfg, ssid, password)

	if err := e.controller.Restart(ctx, e.iface, cfg.DualAPMode); err != nil {
		return nil, e.fail(ctx, StageApply, err)
	}

	now := time.Now()
	creds := &Credentials{
		Interface:      e.iface,
		SSID:           ssid,
		Password:       password,
		CreatedAt:      unixSeconds(now),
		ExpiresAt:      unixSeconds(now.Add(cfg.RotationInterval())),
		RotationReason: reason,
	}

	e.stateMu.Lock()
	e.current = creds
	e.stateMu.Unlock()

	if err := e.saveCredentials(creds); err != nil {
		log.WithField("interface", e.iface).WithError(err).Error("failed to persist credentials")
	}
	e.PublishStatus(ctx, StateReady, "")

	monitoring.RotationsTotal.WithLabelValues(e.iface, reason).Inc()
	log.WithFields(log.Fields{"interface": e.iface, "ssid": ssid}).Info("rotation complete")

	out := *creds
	return &out, nil
}

func (e *Engine) fail(ctx context.Context, stage Stage, err error) error {
	rerr := &RotationError{Interface: e.iface, Stage: stage, Err: err}
	log.WithField("interface", e.iface).WithError(err).Errorf("rotation aborted at %s", stage)
	monitoring.RotationFailures.WithLabelValues(e.iface, string(stage)).Inc()
	e.PublishStatus(ctx, StateError, rerr.Error())
	return rerr
}

func (e *Engine) convertImage(ctx context.Context, cfg *config.FileConfig, ssid, password string) {
	if e.converter == nil {
		return
	}
	outputPath := fmt.Sprintf("%s/qr-%s.png", cfg.QROutputDir, e.iface)
	if err := e.converter.Convert(ctx, ssid, password, outputPath); err != nil {
		log.WithField("interface", e.iface).WithError(err).Warn("join image conversion failed, continuing")
		return
	}
	// Older readers expect the unnamed image for the primary interface.
	if e.iface == PrimaryInterface {
		legacy := cfg.QROutputDir + "/qr.png"
		if err := wifiqr.CopyImage(outputPath, legacy); err != nil {
			log.WithError(err).Debug("failed to refresh legacy join image")
		}
	}
}

func (e *Engine) saveCredentials(creds *Credentials) error {
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(e.paths.CredsFile(e.iface), data, 0o600)
}

// restoreCredentials adopts credentials a previous daemon instance
// persisted, keeping them visible to collaborators until the mandatory
// startup rotation replaces them. Unreadable or malformed files are
// ignored: the engine then simply starts uninitialized.
func (e *Engine) restoreCredentials() {
	data, err := os.ReadFile(e.paths.CredsFile(e.iface))
	if err != nil {
		return
	}
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		log.WithField("interface", e.iface).WithError(err).Warn("ignoring malformed persisted credentials")
		return
	}
	if creds.SSID == "" || creds.CreatedAt >= creds.ExpiresAt {
		return
	}
	creds.Interface = e.iface
	e.stateMu.Lock()
	e.current = &creds
	e.stateMu.Unlock()
	log.WithFields(log.Fields{"interface": e.iface, "ssid": creds.SSID}).Info("recovered persisted credentials")
}
