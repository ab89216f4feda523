// Package settings loads the hosting application's planner settings
// from a TOML file, with documented defaults for everything a file does
// not override.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/tempo-plan/tempo/notify"
	"github.com/tempo-plan/tempo/schedule"
)

// Settings holds the user-facing configuration consumed by the core.
type Settings struct {
	Notifications NotificationSettings `toml:"notifications"`
	Energy        EnergySettings       `toml:"energy"`
	Features      FeatureSettings      `toml:"features"`
	Working       WorkingHours         `toml:"working_hours"`

	// MotivationStyle selects the tone of motivational messages:
	// "encouraging", "direct", or "minimal".
	MotivationStyle string `toml:"motivation_style"`
}

// NotificationSettings configures the notification gatekeeper.
type NotificationSettings struct {
	Enabled         bool   `toml:"enabled"`
	Frequency       string `toml:"frequency"` // "minimal", "moderate", "aggressive"
	QuietStart      int    `toml:"quiet_start_hour"`
	QuietEnd        int    `toml:"quiet_end_hour"`
	ProductiveStart int    `toml:"productive_start_hour"`
	ProductiveEnd   int    `toml:"productive_end_hour"`

	// WeekendStrategy controls weekend behavior: "normal", "reduced"
	// (minimal frequency), or "off".
	WeekendStrategy string `toml:"weekend_strategy"`
}

// EnergySettings configures energy self-reporting.
type EnergySettings struct {
	TrackingEnabled  bool `toml:"tracking_enabled"`
	PromptEveryHours int  `toml:"prompt_every_hours"`
}

// FeatureSettings toggles core behaviors.
type FeatureSettings struct {
	HeuristicsEnabled bool `toml:"heuristics_enabled"`
	AdaptiveWeights   bool `toml:"adaptive_weights"`
	ShowLearning      bool `toml:"show_learning"` // surface weight changes to the user.
}

// WorkingHours bounds the scheduler's day.
type WorkingHours struct {
	StartHour int `toml:"start_hour"`
	EndHour   int `toml:"end_hour"`
}

// Default returns the default configuration.
func Default() *Settings {
	return &Settings{
		Notifications: NotificationSettings{
			Enabled:         true,
			Frequency:       "moderate",
			QuietStart:      22,
			QuietEnd:        7,
			ProductiveStart: 9,
			ProductiveEnd:   17,
			WeekendStrategy: "reduced",
		},
		Energy: EnergySettings{
			TrackingEnabled:  true,
			PromptEveryHours: 3,
		},
		Features: FeatureSettings{
			HeuristicsEnabled: true,
			AdaptiveWeights:   true,
			ShowLearning:      false,
		},
		Working: WorkingHours{
			StartHour: 8,
			EndHour:   20,
		},
		MotivationStyle: "encouraging",
	}
}

// Load loads configuration from the standard location
// (~/.config/tempo/config.toml).
func Load() (*Settings, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting home dir: %w", err)
	}
	return LoadFrom(filepath.Join(homeDir, ".config", "tempo", "config.toml"))
}

// LoadFrom loads configuration from a specific path. A missing file
// yields the defaults; a malformed file is an error.
func LoadFrom(path string) (*Settings, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// NotifyConfig converts the settings into the gatekeeper's config.
func (s *Settings) NotifyConfig() notify.Config {
	cfg := notify.Config{
		QuietStartHour: s.Notifications.QuietStart,
		QuietEndHour:   s.Notifications.QuietEnd,
		Frequency:      parseFrequency(s.Notifications.Frequency),
	}
	if start, end := s.Notifications.ProductiveStart, s.Notifications.ProductiveEnd; start < end {
		for h := start; h < end; h++ {
			cfg.ProductiveHours = append(cfg.ProductiveHours, h)
		}
	}
	return cfg
}

// ScheduleConfig converts the settings into the scheduling engine's
// config.
func (s *Settings) ScheduleConfig() schedule.Config {
	return schedule.Config{
		WorkStartHour: s.Working.StartHour,
		WorkEndHour:   s.Working.EndHour,
	}
}

func parseFrequency(name string) notify.Frequency {
	var f notify.Frequency
	if err := f.UnmarshalText([]byte(strings.ToLower(name))); err != nil {
		return notify.Moderate
	}
	return f
}
