package rotation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"ssb-ap-go/internal/config"
	"ssb-ap-go/internal/constants"
	"ssb-ap-go/internal/events"
	"ssb-ap-go/internal/monitoring"

	log "github.com/sirupsen/logrus"
)

// Supervisor drives every interface engine from a single goroutine: a
// fixed-interval tick evaluates each engine in turn, and only the
// supervisor appends to the rotation history. Per-interface failures are
// contained; one interface erroring never stalls the others.
type Supervisor struct {
	cfg     func() *config.FileConfig
	paths   Paths
	engines []*Engine
	history *HistoryLog
	hub     events.Publisher
}

// SupervisorOptions wires the supervisor's collaborators.
type SupervisorOptions struct {
	Config     func() *config.FileConfig
	Prober     Prober
	Writer     ConfigWriter
	Controller ServiceController
	Converter  ImageConverter
	Hub        events.Publisher
}

// NewSupervisor prepares run and log directories and builds one engine per
// enabled, present interface. Interfaces that are disabled, absent, or
// non-primary outside dual-AP mode get an immediate "disabled" snapshot
// instead of an engine. At least one engine must come up.
func NewSupervisor(ctx context.Context, opts SupervisorOptions) (*Supervisor, error) {
	cfg := opts.Config()

	for _, dir := range []string{cfg.RunDir, cfg.LogDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	paths := Paths{RunDir: cfg.RunDir}
	s := &Supervisor{
		cfg:     opts.Config,
		paths:   paths,
		history: NewHistoryLog(filepath.Join(cfg.RunDir, "rotations.json"), cfg.LogRetentionCount),
		hub:     opts.Hub,
	}

	for _, iface := range sortedInterfaces(cfg) {
		ifaceCfg := cfg.Interfaces[iface]
		switch {
		case !ifaceCfg.IsEnabled():
			log.WithField("interface", iface).Info("interface disabled in config")
			PublishDisabled(paths, iface)
		case iface != PrimaryInterface && !cfg.DualAPMode:
			log.WithField("interface", iface).Info("secondary interface ignored outside dual-AP mode")
			PublishDisabled(paths, iface)
		case !opts.Prober.Available(ctx, iface):
			log.WithField("interface", iface).Warn("interface not present, skipping")
			PublishDisabled(paths, iface)
		default:
			s.engines = append(s.engines, NewEngine(EngineOptions{
				Interface:  iface,
				Config:     opts.Config,
				Paths:      paths,
				Prober:     opts.Prober,
				Writer:     opts.Writer,
				Controller: opts.Controller,
				Converter:  opts.Converter,
			}))
		}
	}

	if len(s.engines) == 0 {
		return nil, fmt.Errorf("no usable access-point interfaces")
	}
	return s, nil
}

// Engines returns the managed engines, primary first.
func (s *Supervisor) Engines() []*Engine { return s.engines }

// History returns the rotation audit log.
func (s *Supervisor) History() *HistoryLog { return s.history }

// Paths returns the run-directory layout the supervisor writes under.
func (s *Supervisor) Paths() Paths { return s.paths }

// Run performs the startup rotations and then ticks until ctx is canceled.
// Each engine rotates unconditionally at startup so stale credentials from
// a previous run never outlive the daemon restart; a failed startup
// rotation gets exactly one delayed retry before falling back to the
// regular tick loop.
func (s *Supervisor) Run(ctx context.Context) error {
	// Cancellation is honored between ticks only. Rotations run on a
	// detached context so a shutdown signal never kills a restart
	// mid-gate; the gates stay bounded by their own per-call timeouts.
	rotCtx := context.WithoutCancel(ctx)

	var retry []*Engine
	for _, e := range s.engines {
		if err := s.rotate(rotCtx, e, ReasonInitial); err != nil {
			retry = append(retry, e)
		}
	}

	if len(retry) > 0 {
		select {
		case <-time.After(constants.StartupRetryDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
		for _, e := range retry {
			if err := s.rotate(rotCtx, e, ReasonInitialRetry); err != nil {
				log.WithField("interface", e.Interface()).WithError(err).
					Error("startup rotation retry failed, will recover via tick loop")
			}
		}
	}

	ticker := time.NewTicker(s.cfg().TickInterval())
	defer ticker.Stop()

	log.WithField("interval", s.cfg().TickInterval()).Info("rotation supervisor running")
	for {
		select {
		case <-ctx.Done():
			log.Info("rotation supervisor stopping")
			return ctx.Err()
		case <-ticker.C:
			s.safeTick(ctx, rotCtx)
		}
	}
}

// safeTick contains panics and transient errors so a bad tick never kills
// the daemon; after a panic the loop pauses briefly before resuming.
func (s *Supervisor) safeTick(ctx, rotCtx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("tick panicked, backing off")
			select {
			case <-time.After(constants.TickErrorBackoff):
			case <-ctx.Done():
			}
		}
	}()

	start := time.Now()
	for _, e := range s.engines {
		s.tickEngine(rotCtx, e)
	}
	monitoring.TickDuration.Observe(time.Since(start).Seconds())
}

// tickEngine runs one engine's evaluation. A pending manual trigger takes
// priority over scheduled policy; a tick without a rotation still
// refreshes the status snapshot so client counts and remaining time stay
// current.
func (s *Supervisor) tickEngine(ctx context.Context, e *Engine) {
	if e.ConsumeManualTrigger(time.Now()) {
		s.rotate(ctx, e, ReasonManualTrigger)
		return
	}

	due, reason := e.Evaluate(ctx)
	if due {
		s.rotate(ctx, e, reason)
		return
	}
	e.PublishStatus(ctx, StateReady, "")
}

func (s *Supervisor) rotate(ctx context.Context, e *Engine, reason string) error {
	creds, err := e.Rotate(ctx, reason)
	if err != nil {
		if s.hub != nil {
			s.hub.Publish(ctx, events.TopicRotationFailed, map[string]any{
				"interface": e.Interface(),
				"stage":     string(FailedStage(err)),
				"error":     err.Error(),
			}, nil)
		}
		return err
	}

	if err := s.history.Append(creds, reason); err != nil {
		log.WithField("interface", e.Interface()).WithError(err).Error("failed to record rotation history")
	}
	if s.hub != nil {
		s.hub.Publish(ctx, events.TopicRotationComplete, map[string]any{
			"interface": e.Interface(),
			"ssid":      creds.SSID,
			"reason":    reason,
		}, nil)
	}
	return nil
}

// sortedInterfaces orders the configured interfaces primary-first, the
// rest alphabetically, so startup logs and rotations are deterministic.
func sortedInterfaces(cfg *config.FileConfig) []string {
	var rest []string
	hasPrimary := false
	for iface := range cfg.Interfaces {
		if iface == PrimaryInterface {
			hasPrimary = true
			continue
		}
		rest = append(rest, iface)
	}
	sort.Strings(rest)
	if hasPrimary {
		return append([]string{PrimaryInterface}, rest...)
	}
	return rest
}
