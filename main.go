package main

import (
	"context"
	"flag"
	"math"
	"os"
	"os/signal"
	"syscall"

	"CyberHack/internal/server"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg := server.DefaultAppConfig()

	addr := flag.String("addr", cfg.Addr, "http address to listen on (e.g., 127.0.0.1:8080)")
	sshAddr := flag.String("ssh-addr", cfg.SSHAddr, "ssh address to listen on, empty disables ssh")
	dbPath := flag.String("db", cfg.DBPath, "path to the sqlite database")
	tuningPath := flag.String("tuning", cfg.TuningPath, "path to gameplay tuning YAML")
	hostKey := flag.String("host-key", cfg.HostKeyPath, "path to the ssh host key (generated when missing)")
	logLevel := flag.String("log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", cfg.LogFormat, "log format (text or json)")
	logFile := flag.String("log-file", cfg.LogFile, "also append logs to this file")
	detectAt := flag.Float64("alert-detect", math.NaN(), "override detection threshold")
	decayBase := flag.Float64("alert-decay", math.NaN(), "override alert decay per pass")
	killChance := flag.Float64("alert-kill-chance", math.NaN(), "override chance a detected target cuts the link (0-1)")
	criticalChance := flag.Float64("alert-critical-chance", math.NaN(), "override critical tier event chance (0-1)")
	reinforcedChance := flag.Float64("alert-reinforced-chance", math.NaN(), "override reinforced tier event chance (0-1)")
	surveillanceChance := flag.Float64("alert-surveillance-chance", math.NaN(), "override surveillance tier event chance (0-1)")
	flag.Parse()

	cfg.Addr = *addr
	cfg.SSHAddr = *sshAddr
	cfg.DBPath = *dbPath
	cfg.TuningPath = *tuningPath
	cfg.HostKeyPath = *hostKey
	cfg.LogLevel = *logLevel
	cfg.LogFormat = *logFormat
	cfg.LogFile = *logFile

	override := func(v float64) *float64 {
		if math.IsNaN(v) {
			return nil
		}
		return &v
	}
	cfg.Alert = server.AlertOverrides{
		DetectAt:            override(*detectAt),
		DecayBase:           override(*decayBase),
		DetectionKillChance: override(*killChance),
		CriticalChance:      override(*criticalChance),
		ReinforcedChance:    override(*reinforcedChance),
		SurveillanceChance:  override(*surveillanceChance),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.StartApp(ctx, cfg); err != nil {
		logrus.WithError(err).Fatal("cyberhack stopped")
	}
}
