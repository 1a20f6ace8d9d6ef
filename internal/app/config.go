package app

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/homeboardhq/homeboard-backend/internal/pkg/envutil"
	"github.com/homeboardhq/homeboard-backend/internal/pkg/logger"
)

type Config struct {
	Addr          string
	WebhookSecret string
	ChatChannel   string

	Household HouseholdSettings
}

// HouseholdSettings are the per-family tunables, loaded from an
// optional YAML file so a deploy can adjust them without new env vars.
type HouseholdSettings struct {
	DefaultTokensPerDay int          `yaml:"default_tokens_per_day"`
	SweepInterval       Duration     `yaml:"sweep_interval"`
	PullWindowDays      int          `yaml:"pull_window_days"`
	Members             []MemberSeed `yaml:"members"`
}

// MemberSeed declares one family member in the settings file. Missing
// tokens_per_day falls back to the household default for children.
type MemberSeed struct {
	FirstName    string `yaml:"first_name"`
	Role         string `yaml:"role"`
	TokensPerDay *int   `yaml:"tokens_per_day"`
}

// Duration decodes "30s"-style YAML values.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", node.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

func defaultHouseholdSettings() HouseholdSettings {
	return HouseholdSettings{
		DefaultTokensPerDay: 2,
		SweepInterval:       Duration(time.Minute),
		PullWindowDays:      14,
	}
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Addr:          envutil.String("HTTP_ADDR", ":8080"),
		WebhookSecret: envutil.String("CHAT_WEBHOOK_SECRET", ""),
		ChatChannel:   envutil.String("FAMILY_CHAT_CHANNEL", ""),
		Household:     defaultHouseholdSettings(),
	}

	path := envutil.String("HOUSEHOLD_SETTINGS_PATH", "")
	if path == "" {
		return cfg
	}
	settings, err := loadHouseholdSettings(path)
	if err != nil {
		log.Warn("household settings file not loaded, using defaults", "path", path, "error", err)
		return cfg
	}
	cfg.Household = settings
	log.Info("household settings loaded", "path", path)
	return cfg
}

func loadHouseholdSettings(path string) (HouseholdSettings, error) {
	settings := defaultHouseholdSettings()
	raw, err := os.ReadFile(path)
	if err != nil {
		return settings, fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(raw, &settings); err != nil {
		return settings, fmt.Errorf("parse settings: %w", err)
	}
	if settings.DefaultTokensPerDay < 0 {
		return settings, fmt.Errorf("default_tokens_per_day must not be negative")
	}
	if settings.SweepInterval <= 0 {
		settings.SweepInterval = Duration(time.Minute)
	}
	if settings.PullWindowDays <= 0 {
		settings.PullWindowDays = 14
	}
	return settings, nil
}
