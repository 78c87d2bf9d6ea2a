// Package config handles configuration loading from YAML files and environment variables.
// Configuration precedence: CLI flags > environment variables > config file > embedded > defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Guliveer/vitafetch/internal/report"
)

// Display modes.
const (
	ModeAuto        = "auto"
	ModeProgressive = "progressive"
	ModeStatic      = "static"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Duration is a wrapper around time.Duration that supports YAML unmarshaling
// from human-readable strings like "50ms", "2s", "24h".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		parsed, err := time.ParseDuration(value.Value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value.Value, err)
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("unsupported duration format: %v", value.Kind)
	}
}

// MarshalYAML implements the yaml.Marshaler interface for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Config holds all vitafetch configuration.
type Config struct {
	Fields  []string      `yaml:"fields"`
	Display DisplayConfig `yaml:"display"`
	Probes  ProbesConfig  `yaml:"probes"`
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
}

// DisplayConfig controls how frames are drawn.
type DisplayConfig struct {
	Mode        string   `yaml:"mode"`
	Interval    Duration `yaml:"interval"`
	Gap         int      `yaml:"gap"`
	Color       bool     `yaml:"color"`
	ColorBlocks bool     `yaml:"color_blocks"`
	SmallLogo   bool     `yaml:"small_logo"`
	Icons       bool     `yaml:"icons"`
	BarWidth    int      `yaml:"bar_width"`
}

// ProbesConfig holds probe execution settings.
type ProbesConfig struct {
	Timeout Duration `yaml:"timeout"`
}

// CacheConfig holds the slow-field cache settings.
type CacheConfig struct {
	Enabled bool     `yaml:"enabled"`
	Path    string   `yaml:"path"`
	MaxAge  Duration `yaml:"max_age"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DefaultFields is the field list used when nothing is configured.
var DefaultFields = []string{
	"os", "host", "kernel", "uptime", "packages", "shell", "terminal",
	"de", "wm", "cpu", "gpu", "memory", "swap", "disk", "network", "battery",
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Fields: append([]string(nil), DefaultFields...),
		Display: DisplayConfig{
			Mode:        ModeAuto,
			Interval:    Duration{50 * time.Millisecond},
			Gap:         4,
			Color:       true,
			ColorBlocks: true,
			SmallLogo:   false,
			Icons:       false,
			BarWidth:    10,
		},
		Probes: ProbesConfig{
			Timeout: Duration{2 * time.Second},
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    defaultCachePath(),
			MaxAge:  Duration{24 * time.Hour},
		},
		Logging: LoggingConfig{
			Level: "error",
			File:  "",
		},
	}
}

// LoadFromBytes parses YAML configuration from a byte slice and merges with defaults.
// Environment variables take highest precedence and override values from the byte slice.
func LoadFromBytes(data []byte) (*Config, error) {
	cfg := DefaultConfig()

	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config data: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// Load reads configuration from a YAML file and merges with defaults.
// If path is empty or the file does not exist, only defaults and environment
// variables are used.
func Load(path string) (*Config, error) {
	if path == "" {
		return LoadFromBytes(nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		return LoadFromBytes(nil)
	}

	return LoadFromBytes(data)
}

// CLIOverrides holds values from command-line flags.
// Nil pointers and empty values are treated as "not set" and skipped.
type CLIOverrides struct {
	Mode         string
	Fields       []string
	Show         []string
	Hide         []string
	Gap          *int
	Interval     time.Duration
	ProbeTimeout time.Duration
	NoColor      bool
	NoCache      bool
	SmallLogo    bool
	LogLevel     string
	LogFile      string
}

// Locate searches standard config file paths and returns the first one found.
// Returns empty string if no config file exists.
func Locate() string {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// LoadLayered loads configuration with the full precedence chain:
// CLI flags > env vars > external YAML file > embedded bytes > defaults.
//
// An optional configPath argument controls external-file discovery:
//   - omitted        → auto-discover via Locate()
//   - explicit value  → use that path ("" means no external file)
func LoadLayered(cli CLIOverrides, embedded []byte, configPath ...string) (*Config, error) {
	cfg := DefaultConfig()

	if len(embedded) > 0 {
		if err := yaml.Unmarshal(embedded, cfg); err != nil {
			return nil, fmt.Errorf("parsing embedded config: %w", err)
		}
	}

	var filePath string
	if len(configPath) > 0 {
		filePath = configPath[0]
	} else {
		filePath = Locate()
	}
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file %s: %w", filePath, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", filePath, err)
			}
		}
	}

	applyEnvOverrides(cfg)
	applyCLIOverrides(cfg, cli)

	return cfg, nil
}

// WriteConfig serializes the config to a YAML file at the given path.
// Creates parent directories if needed.
func WriteConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	if mode := os.Getenv("VITAFETCH_MODE"); mode != "" {
		cfg.Display.Mode = mode
	}
	if level := os.Getenv("VITAFETCH_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if fields := os.Getenv("VITAFETCH_FIELDS"); fields != "" {
		cfg.Fields = SplitList(fields)
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		cfg.Display.Color = false
	}
}

func applyCLIOverrides(cfg *Config, cli CLIOverrides) {
	if cli.Mode != "" {
		cfg.Display.Mode = cli.Mode
	}
	if len(cli.Fields) > 0 {
		cfg.Fields = append([]string(nil), cli.Fields...)
	}
	if len(cli.Show) > 0 || len(cli.Hide) > 0 {
		cfg.Fields = adjustFields(cfg.Fields, cli.Show, cli.Hide)
	}
	if cli.Gap != nil {
		cfg.Display.Gap = *cli.Gap
	}
	if cli.Interval > 0 {
		cfg.Display.Interval = Duration{cli.Interval}
	}
	if cli.ProbeTimeout > 0 {
		cfg.Probes.Timeout = Duration{cli.ProbeTimeout}
	}
	if cli.NoColor {
		cfg.Display.Color = false
	}
	if cli.NoCache {
		cfg.Cache.Enabled = false
	}
	if cli.SmallLogo {
		cfg.Display.SmallLogo = true
	}
	if cli.LogLevel != "" {
		cfg.Logging.Level = cli.LogLevel
	}
	if cli.LogFile != "" {
		cfg.Logging.File = cli.LogFile
	}
}

// adjustFields appends shown fields that are missing and drops hidden ones,
// preserving the original order.
func adjustFields(fields, show, hide []string) []string {
	hidden := make(map[string]bool, len(hide))
	for _, h := range hide {
		hidden[strings.ToLower(strings.TrimSpace(h))] = true
	}
	seen := make(map[string]bool, len(fields)+len(show))
	var out []string
	for _, f := range append(append([]string(nil), fields...), show...) {
		key := strings.ToLower(strings.TrimSpace(f))
		if key == "" || hidden[key] || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	return out
}

// SplitList splits a comma or whitespace separated list.
func SplitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

// Enabled resolves the configured field names into the run's EnabledSet.
func (c *Config) Enabled() (report.FieldSet, error) {
	set, err := report.ParseFieldSet(c.Fields)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return set.Normalize(), nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if _, err := c.Enabled(); err != nil {
		return err
	}
	switch c.Display.Mode {
	case ModeAuto, ModeProgressive, ModeStatic:
	default:
		return fmt.Errorf("%w: display mode must be one of auto, progressive, static (got: %q)", ErrInvalid, c.Display.Mode)
	}
	if c.Display.Interval.Duration <= 0 {
		return fmt.Errorf("%w: display interval must be positive", ErrInvalid)
	}
	if c.Display.Gap < 0 {
		return fmt.Errorf("%w: display gap must not be negative", ErrInvalid)
	}
	if c.Display.BarWidth < 0 {
		return fmt.Errorf("%w: bar width must not be negative", ErrInvalid)
	}
	if c.Probes.Timeout.Duration <= 0 {
		return fmt.Errorf("%w: probe timeout must be positive", ErrInvalid)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalid, c.Logging.Level)
	}
	return nil
}
