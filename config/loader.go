package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Defaults applied after load when the field is absent from the file.
const (
	DefaultPort            = 16185
	DefaultHistoryCap      = 32
	DefaultStaleAfter      = 30 * time.Minute
	DefaultExitScanDepth   = 2
	DefaultCacheExpiryDays = 30
	DefaultRefreshHours    = 24
)

// LoadAppConfig loads and validates the application configuration. When path
// is empty a small list of conventional locations is searched.
func LoadAppConfig(path string) (AppConfig, error) {
	var cfg AppConfig

	paths := []string{path}
	if path == "" {
		paths = []string{"config.yml", "config.yaml", "/etc/td-tracker/config.yml"}
	}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&cfg)

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("validate config: %w", err)
	}
	for _, w := range cfg.Windows {
		if err := v.Struct(w); err != nil {
			return cfg, fmt.Errorf("validate window %q: %w", w.Name, err)
		}
		if w.CenterSTANOX == "" && len(w.TDAreas) == 0 {
			return cfg, fmt.Errorf("window %q: needs centerStanox or tdAreas", w.Name)
		}
	}
	if _, err := cfg.Tracker.StaleAfterDuration(); err != nil {
		return cfg, fmt.Errorf("tracker.staleAfter: %w", err)
	}
	return cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Tracker.HistoryCap == 0 {
		cfg.Tracker.HistoryCap = DefaultHistoryCap
	}
	if cfg.Tracker.StaleAfter == "" {
		cfg.Tracker.StaleAfter = DefaultStaleAfter.String()
	}
	if cfg.Tracker.ExitScanDepth == 0 {
		cfg.Tracker.ExitScanDepth = DefaultExitScanDepth
	}
	if cfg.SMART.CacheExpiryDays == 0 {
		cfg.SMART.CacheExpiryDays = DefaultCacheExpiryDays
	}
	if cfg.SMART.RefreshHours == 0 {
		cfg.SMART.RefreshHours = DefaultRefreshHours
	}
}

// StaleAfterDuration parses the configured staleness bound.
func (t TrackerConfig) StaleAfterDuration() (time.Duration, error) {
	if t.StaleAfter == "" {
		return DefaultStaleAfter, nil
	}
	return time.ParseDuration(t.StaleAfter)
}
