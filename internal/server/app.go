package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"CyberHack/internal/dag"
	"CyberHack/internal/game"
	"CyberHack/internal/storage/sqlite"

	"github.com/sirupsen/logrus"
)

// AppConfig is the host configuration plus command-line tuning overrides.
type AppConfig struct {
	Config
	Alert AlertOverrides
}

// DefaultAppConfig returns the environment defaults with no overrides.
func DefaultAppConfig() AppConfig {
	cfg, err := LoadConfig()
	if err != nil {
		cfg = Config{
			Addr:        ":8080",
			SSHAddr:     ":2222",
			DBPath:      "data/cyberhack.db",
			TuningPath:  "configs/tuning.yaml",
			HostKeyPath: "data/ssh_host_key",
			LogLevel:    "info",
			LogFormat:   "text",
		}
	}
	return AppConfig{Config: cfg}
}

// StartApp runs the host until ctx is canceled or a listener fails.
func StartApp(ctx context.Context, cfg AppConfig) error {
	log, err := NewLogger(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	tuning := resolveTuning(cfg, log)
	for _, m := range tuning.Missions {
		if err := game.RegisterMission(m); err != nil {
			log.WithError(err).WithField("mission", m.ID).Warn("mission skipped")
			continue
		}
		log.WithFields(logrus.Fields{"mission": m.ID, "key": m.Key}).Info("mission registered")
	}

	nodes := dag.SeedLevelUnlockNodes()
	if err := dag.Init(nodes); err != nil {
		return fmt.Errorf("init progression graph: %w", err)
	}
	log.WithField("nodes", len(nodes)).Info("progression graph initialized")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	hub := NewHub(store, tuning.Alert, log)
	var sshSrv *SSHServer
	if cfg.SSHAddr != "" {
		sshSrv, err = NewSSHServer(hub, cfg.HostKeyPath, log)
		if err != nil {
			return err
		}
	}
	go hub.Run(ctx)
	defer hub.Shutdown()

	errs := make(chan error, 2)

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewRouter(hub, log),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.WithFields(logrus.Fields{
			"addr":      cfg.Addr,
			"detect_at": tuning.Alert.DetectAt,
			"decay":     tuning.Alert.DecayBase,
		}).Info("starting web server")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- fmt.Errorf("http: %w", err)
		}
	}()

	if sshSrv != nil {
		go func() {
			if err := sshSrv.ListenAndServe(ctx, cfg.SSHAddr); err != nil {
				errs <- fmt.Errorf("ssh: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
	case err = <-errs:
		log.WithError(err).Error("listener failed")
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if sshSrv != nil {
		sshSrv.Close()
	}
	if serr := httpSrv.Shutdown(shutdownCtx); serr != nil {
		log.WithError(serr).Warn("http shutdown")
	}
	log.Info("host stopped")
	return err
}
