package server

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"CyberHack/internal/game"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config is the host configuration read from the environment. Command-line
// flags in main override it.
type Config struct {
	Addr        string `env:"CYBERHACK_ADDR" envDefault:":8080"`
	SSHAddr     string `env:"CYBERHACK_SSH_ADDR" envDefault:":2222"`
	DBPath      string `env:"CYBERHACK_DB_PATH" envDefault:"data/cyberhack.db"`
	TuningPath  string `env:"CYBERHACK_TUNING_PATH" envDefault:"configs/tuning.yaml"`
	HostKeyPath string `env:"CYBERHACK_HOST_KEY" envDefault:"data/ssh_host_key"`
	LogLevel    string `env:"CYBERHACK_LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"CYBERHACK_LOG_FORMAT" envDefault:"text"`
	LogFile     string `env:"CYBERHACK_LOG_FILE"`
}

// LoadConfig parses the environment into a Config.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// alertConfig mirrors game.AlertParams with optional fields so a tuning file
// only has to name what it changes.
type alertConfig struct {
	Max                 *float64 `yaml:"max"`
	DetectAt            *float64 `yaml:"detect_at"`
	DecayBase           *float64 `yaml:"decay_base"`
	DecayVPN            *float64 `yaml:"decay_vpn"`
	DecayCleaner        *float64 `yaml:"decay_cleaner"`
	CriticalAt          *float64 `yaml:"critical_at"`
	CriticalChance      *float64 `yaml:"critical_chance"`
	ReinforcedAt        *float64 `yaml:"reinforced_at"`
	ReinforcedChance    *float64 `yaml:"reinforced_chance"`
	ReinforcedAmount    *float64 `yaml:"reinforced_amount"`
	SurveillanceAt      *float64 `yaml:"surveillance_at"`
	SurveillanceChance  *float64 `yaml:"surveillance_chance"`
	SurveillanceAmount  *float64 `yaml:"surveillance_amount"`
	DetectionKillChance *float64 `yaml:"detection_kill_chance"`
}

type tuningFile struct {
	Alert    *alertConfig   `yaml:"alert"`
	Missions []game.Mission `yaml:"missions"`
}

// AlertOverrides holds command-line overrides for alert tuning.
type AlertOverrides struct {
	DetectAt            *float64
	DecayBase           *float64
	DetectionKillChance *float64
	CriticalChance      *float64
	ReinforcedChance    *float64
	SurveillanceChance  *float64
}

func (o AlertOverrides) apply(base game.AlertParams) game.AlertParams {
	set(&base.DetectAt, o.DetectAt)
	set(&base.DecayBase, o.DecayBase)
	set(&base.DetectionKillChance, o.DetectionKillChance)
	set(&base.CriticalChance, o.CriticalChance)
	set(&base.ReinforcedChance, o.ReinforcedChance)
	set(&base.SurveillanceChance, o.SurveillanceChance)
	return game.SanitizeAlertParams(base)
}

func set(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func mergeAlertConfig(base game.AlertParams, cfg *alertConfig) game.AlertParams {
	if cfg == nil {
		return base
	}
	set(&base.Max, cfg.Max)
	set(&base.DetectAt, cfg.DetectAt)
	set(&base.DecayBase, cfg.DecayBase)
	set(&base.DecayVPN, cfg.DecayVPN)
	set(&base.DecayCleaner, cfg.DecayCleaner)
	set(&base.CriticalAt, cfg.CriticalAt)
	set(&base.CriticalChance, cfg.CriticalChance)
	set(&base.ReinforcedAt, cfg.ReinforcedAt)
	set(&base.ReinforcedChance, cfg.ReinforcedChance)
	set(&base.ReinforcedAmount, cfg.ReinforcedAmount)
	set(&base.SurveillanceAt, cfg.SurveillanceAt)
	set(&base.SurveillanceChance, cfg.SurveillanceChance)
	set(&base.SurveillanceAmount, cfg.SurveillanceAmount)
	set(&base.DetectionKillChance, cfg.DetectionKillChance)
	return game.SanitizeAlertParams(base)
}

// Tuning is the resolved gameplay tuning of the host.
type Tuning struct {
	Alert    game.AlertParams
	Missions []game.Mission
}

// LoadTuning reads a YAML tuning file on top of the defaults. A missing file
// yields the defaults and no error.
func LoadTuning(path string) (Tuning, error) {
	t := Tuning{Alert: game.DefaultAlertParams()}
	if path == "" {
		return t, nil
	}
	clean := filepath.Clean(path)
	data, err := os.ReadFile(clean)
	if errors.Is(err, os.ErrNotExist) {
		return t, nil
	}
	if err != nil {
		return t, fmt.Errorf("read tuning %q: %w", clean, err)
	}
	var file tuningFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return t, fmt.Errorf("parse tuning %q: %w", clean, err)
	}
	t.Alert = mergeAlertConfig(t.Alert, file.Alert)
	for i, m := range file.Missions {
		if err := m.Validate(); err != nil {
			return t, fmt.Errorf("tuning %q mission %d: %w", clean, i, err)
		}
	}
	t.Missions = file.Missions
	return t, nil
}

// resolveTuning loads the tuning file, falling back to defaults on error,
// then applies the flag overrides.
func resolveTuning(cfg AppConfig, log logrus.FieldLogger) Tuning {
	t, err := LoadTuning(cfg.TuningPath)
	if err != nil {
		log.WithError(err).Warn("tuning file rejected, using defaults")
		t = Tuning{Alert: game.DefaultAlertParams()}
	}
	t.Alert = cfg.Alert.apply(t.Alert)
	return t
}
