package config

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kalviumcommunity/S56-Shreyas-OOP-Home-Automation-System/internal/device"
)

// EnvPrefix is the prefix shared by every environment override.
const EnvPrefix = "HOMEAUTO"

// Config is the root configuration structure.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Logging  LoggingConfig  `yaml:"logging"`
	History  HistoryConfig  `yaml:"history"`
	Fleet    FleetConfig    `yaml:"fleet"`
	Routines RoutinesConfig `yaml:"routines"`
	Shell    ShellConfig    `yaml:"shell"`
}

// SiteConfig contains site-specific information.
type SiteConfig struct {
	Name string `yaml:"name"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string            `yaml:"level"`
	Format string            `yaml:"format"`
	Output string            `yaml:"output"`
	File   FileLoggingConfig `yaml:"file"`
}

// FileLoggingConfig contains file-based logging settings.
type FileLoggingConfig struct {
	Path       string `yaml:"path"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	Compress   bool   `yaml:"compress"`
}

// HistoryConfig contains routine execution history settings.
type HistoryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`

	// Capacity is the most executions kept, in memory or in SQLite.
	// Zero keeps every execution in SQLite and 100 in memory.
	Capacity int `yaml:"capacity"`

	// RetentionDays drops stored executions older than this at startup.
	// Zero keeps them regardless of age.
	RetentionDays int `yaml:"retention_days"`
}

// FleetConfig lists the devices registered at startup, in registry order.
type FleetConfig struct {
	Devices []DeviceConfig `yaml:"devices"`
}

// DeviceConfig describes one device.
type DeviceConfig struct {
	ID         string         `yaml:"id"`
	Kind       string         `yaml:"kind"`
	Attributes map[string]int `yaml:"attributes,omitempty"`
}

// RoutinesConfig contains routine definition settings.
type RoutinesConfig struct {
	// Builtins registers morning, away, night and securityAlert.
	Builtins bool `yaml:"builtins"`

	// File is an optional YAML routine definition file applied after the
	// built-in routines. Routines it names replace built-ins of the same name.
	File string `yaml:"file"`
}

// ShellConfig contains interactive shell settings.
type ShellConfig struct {
	Prompt      string `yaml:"prompt"`
	RecentLimit int    `yaml:"recent_limit"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern HOMEAUTO_SECTION_KEY,
// for example HOMEAUTO_HISTORY_PATH or HOMEAUTO_LOG_LEVEL.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is operator supplied
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Default returns the built-in configuration with environment overrides applied.
func Default() (*Config, error) {
	cfg := defaultConfig()
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			Name: "Home",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
			Output: "stderr",
			File: FileLoggingConfig{
				MaxSize:    10,
				MaxBackups: 3,
				MaxAge:     28,
				Compress:   true,
			},
		},
		History: HistoryConfig{
			Enabled:       true,
			Path:          ":memory:",
			WALMode:       true,
			BusyTimeout:   5,
			Capacity:      100,
			RetentionDays: 30,
		},
		Fleet: FleetConfig{
			Devices: []DeviceConfig{
				{ID: "Light1", Kind: string(device.KindLight)},
				{ID: "Light2", Kind: string(device.KindLight)},
				{ID: "Thermostat1", Kind: string(device.KindThermostat)},
				{ID: "Speaker1", Kind: string(device.KindSpeaker)},
				{ID: "FrontCamera", Kind: string(device.KindSecurityCamera)},
				{ID: "FrontDoor", Kind: string(device.KindDoorLock)},
				{ID: "Dishwasher", Kind: string(device.KindAppliance)},
			},
		},
		Routines: RoutinesConfig{
			Builtins: true,
		},
		Shell: ShellConfig{
			Prompt:      "Choose an option:",
			RecentLimit: 10,
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv(EnvPrefix + "_SITE_NAME"); v != "" {
		cfg.Site.Name = v
	}

	// Logging
	if v := os.Getenv(EnvPrefix + "_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvPrefix + "_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv(EnvPrefix + "_LOG_OUTPUT"); v != "" {
		cfg.Logging.Output = v
	}
	if v := os.Getenv(EnvPrefix + "_LOG_FILE"); v != "" {
		cfg.Logging.File.Path = v
	}

	// History
	if v := os.Getenv(EnvPrefix + "_HISTORY_PATH"); v != "" {
		cfg.History.Path = v
	}
	if v := os.Getenv(EnvPrefix + "_HISTORY_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s_HISTORY_ENABLED: %w", EnvPrefix, err)
		}
		cfg.History.Enabled = enabled
	}
	if v := os.Getenv(EnvPrefix + "_HISTORY_RETENTION_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s_HISTORY_RETENTION_DAYS: %w", EnvPrefix, err)
		}
		cfg.History.RetentionDays = days
	}

	// Routines
	if v := os.Getenv(EnvPrefix + "_ROUTINES_FILE"); v != "" {
		cfg.Routines.File = v
	}
	return nil
}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []string

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Sprintf("logging.level %q must be debug, info, warn or error", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("logging.format %q must be json or text", c.Logging.Format))
	}
	switch c.Logging.Output {
	case "stdout", "stderr":
	case "file":
		if c.Logging.File.Path == "" {
			errs = append(errs, "logging.file.path is required when logging.output is file")
		}
	default:
		errs = append(errs, fmt.Sprintf("logging.output %q must be stdout, stderr or file", c.Logging.Output))
	}

	if c.History.Enabled && c.History.BusyTimeout < 0 {
		errs = append(errs, "history.busy_timeout cannot be negative")
	}
	if c.History.Capacity < 0 {
		errs = append(errs, "history.capacity cannot be negative")
	}
	if c.History.RetentionDays < 0 {
		errs = append(errs, "history.retention_days cannot be negative")
	}

	seen := make(map[string]bool, len(c.Fleet.Devices))
	for i, d := range c.Fleet.Devices {
		if err := device.ValidateID(d.ID); err != nil {
			errs = append(errs, fmt.Sprintf("fleet.devices[%d]: %v", i, err))
		} else if seen[d.ID] {
			errs = append(errs, fmt.Sprintf("fleet.devices[%d]: duplicate id %q", i, d.ID))
		}
		seen[d.ID] = true

		kind, err := device.ParseKind(d.Kind)
		if err != nil {
			errs = append(errs, fmt.Sprintf("fleet.devices[%d]: %v", i, err))
			continue
		}
		for _, name := range slices.Sorted(maps.Keys(d.Attributes)) {
			if err := kind.ValidateAttribute(name, d.Attributes[name]); err != nil {
				errs = append(errs, fmt.Sprintf("fleet.devices[%d]: %v", i, err))
			}
		}
	}

	if c.Shell.RecentLimit < 0 {
		errs = append(errs, "shell.recent_limit cannot be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// DeviceSpecs converts the fleet section to device specs in declared order.
// The configuration must have passed Validate.
func (c *Config) DeviceSpecs() ([]device.Spec, error) {
	specs := make([]device.Spec, 0, len(c.Fleet.Devices))
	for _, d := range c.Fleet.Devices {
		kind, err := device.ParseKind(d.Kind)
		if err != nil {
			return nil, fmt.Errorf("device %q: %w", d.ID, err)
		}
		specs = append(specs, device.Spec{ID: d.ID, Kind: kind, Attributes: d.Attributes})
	}
	return specs, nil
}
