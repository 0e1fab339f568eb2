package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"ssb-ap-go/internal/config"
	"ssb-ap-go/internal/constants"
	"ssb-ap-go/internal/events"
	"ssb-ap-go/internal/hostapd"
	"ssb-ap-go/internal/logging"
	"ssb-ap-go/internal/rotation"
	srv "ssb-ap-go/internal/server"
	"ssb-ap-go/internal/wifiqr"
	"ssb-ap-go/internal/wireless"

	log "github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file (default: search /etc/ssb-ap and cwd)")
	debug := flag.Bool("debug", false, "Enable debug mode")
	allowUnprivileged := flag.Bool("allow-unprivileged", false, "Skip the root privilege check (testing only)")
	flag.Parse()

	if os.Geteuid() != 0 && !*allowUnprivileged {
		log.Fatal("must run as root: hostapd configuration and service control require privileges")
	}

	cm, err := config.NewConfigManager(*configPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	defer cm.Stop()

	cfg := cm.GetConfig()

	// The --debug flag is held outside the config snapshot so a reload
	// cannot silently drop it; logging is re-applied on every reload.
	applyLogging := func(cfg *config.FileConfig) error {
		logFile := cfg.LogFile
		if logFile == "" && cfg.LogDir != "" {
			logFile = filepath.Join(cfg.LogDir, "aprotated.log")
		}
		return logging.Setup(logging.Options{Debug: cfg.Debug || *debug, LogFile: logFile})
	}
	if err := applyLogging(cfg); err != nil {
		log.WithError(err).Fatal("failed to configure logging")
	}
	cm.OnChange(func(cfg *config.FileConfig) {
		if err := applyLogging(cfg); err != nil {
			log.WithError(err).Error("failed to reconfigure logging after reload")
		}
	})
	log.Infof("Starting AP rotation daemon (config: %s)", cm.Path())

	eventHub := events.NewHub()
	cm.SetEventPublisher(eventHub)
	if cfg.Debug || *debug {
		eventHub.Subscribe(events.TopicConfigUpdated, func(_ context.Context, evt events.Event) {
			log.WithField("topic", evt.Topic).Debugf("config event: %v", evt.Payload)
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	supervisor, err := rotation.NewSupervisor(ctx, rotation.SupervisorOptions{
		Config:     cm.GetConfig,
		Prober:     wireless.NewProber(),
		Writer:     hostapd.NewConfigWriter(cfg.TemplateDir, cfg.HostapdConfDir),
		Controller: hostapd.NewSystemdController(),
		Converter:  wifiqr.NewCommandConverter(cfg.QRGeneratorCmd),
		Hub:        eventHub,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to start rotation supervisor")
	}

	supervisorDone := make(chan struct{})
	go func() {
		defer close(supervisorDone)
		if err := supervisor.Run(ctx); err != nil && err != context.Canceled {
			log.WithError(err).Error("rotation supervisor exited")
		}
	}()

	var controlSrv *http.Server
	if cfg.ControlEnabled {
		engine := srv.BuildEngine(srv.Dependencies{
			Config:  cm.GetConfig,
			Paths:   supervisor.Paths(),
			History: supervisor.History(),
		})
		controlSrv = &http.Server{Addr: cfg.ControlAddr, Handler: engine}
		go func() {
			log.Infof("Control API listening on %s", cfg.ControlAddr)
			if err := controlSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Errorf("control server: %v", err)
			}
		}()
	} else {
		log.Info("Control API disabled")
	}

	// SIGHUP reloads configuration in place; INT/TERM shut down.
	sig := make(chan os.Signal, 2)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	for s := range sig {
		if s == syscall.SIGHUP {
			log.Info("SIGHUP received, reloading configuration")
			if err := cm.Reload(); err != nil {
				log.WithError(err).Error("configuration reload failed, keeping previous config")
			}
			continue
		}
		log.Infof("Shutdown signal received (%s)", s)
		break
	}

	cancel()
	// Let the supervisor finish its tick; any in-flight rotation runs to
	// completion on its detached context.
	<-supervisorDone

	if controlSrv != nil {
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), constants.ServerShutdownTimeout)
		defer cancelShutdown()
		if err := controlSrv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("control server shutdown incomplete")
		}
	}
	log.Info("Daemon stopped")
}
