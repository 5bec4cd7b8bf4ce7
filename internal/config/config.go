package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Display backends selectable with the display key.
const (
	DisplayWindow   = "window"
	DisplayHeadless = "headless"
	DisplayTerminal = "terminal"
	DisplaySPI      = "spi"
)

const (
	DefaultSchedule = "* * * * *"
	DefaultDisplay  = DisplayWindow
	DefaultHz       = 10
	DefaultSPIHz    = 40_000_000
)

// HeadlessConfig tunes the windowless runner.
type HeadlessConfig struct {
	// Hz is the frame rate of the step loop.
	Hz int `yaml:"hz" json:"hz"`
	// Ticks stops the runner after this many frames; 0 runs forever.
	Ticks uint64 `yaml:"ticks" json:"ticks"`
}

// SPIConfig names the periph.io devices of a directly attached ST7789 panel.
type SPIConfig struct {
	Port      string `yaml:"port" json:"port"`
	DC        string `yaml:"dc" json:"dc"`
	Reset     string `yaml:"reset" json:"reset"`
	Backlight string `yaml:"backlight" json:"backlight"`
	Hz        int64  `yaml:"hz" json:"hz"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	// Level is debug, info or error.
	Level string `yaml:"level" json:"level"`
	// File, if set, receives log lines instead of stderr and is rotated by size.
	File       string `yaml:"file" json:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" json:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" json:"max_age_days"`
}

// Config is the top-level application configuration.
type Config struct {
	// Timezone is the IANA zone the face shows (e.g. "Europe/Berlin"). Empty or
	// "Local" uses the system zone.
	Timezone string `yaml:"timezone" json:"timezone"`

	// Schedule is a five-field cron expression for face updates.
	Schedule string `yaml:"schedule" json:"schedule"`

	// Display selects the backend: window, headless, terminal or spi.
	Display string `yaml:"display" json:"display"`

	// Listen is the HTTP address of the status and preview surface. Empty disables it.
	Listen string `yaml:"listen" json:"listen"`

	Headless HeadlessConfig `yaml:"headless" json:"headless"`
	SPI      SPIConfig      `yaml:"spi" json:"spi"`

	// Backlight is the panel brightness, 0-255.
	Backlight *int `yaml:"backlight,omitempty" json:"backlight,omitempty"`

	// Background is the color behind the digits as #rrggbb.
	Background string `yaml:"background" json:"background"`

	Log LogConfig `yaml:"log" json:"log"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	c := &Config{}
	c.Normalize()
	return c
}

// Normalize fills in missing/zero values with defaults so partially-filled configs
// still behave correctly.
func (c *Config) Normalize() {
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	if strings.TrimSpace(c.Schedule) == "" {
		c.Schedule = DefaultSchedule
	}
	switch c.Display {
	case DisplayWindow, DisplayHeadless, DisplayTerminal, DisplaySPI:
	default:
		c.Display = DefaultDisplay
	}
	if c.Headless.Hz <= 0 {
		c.Headless.Hz = DefaultHz
	}
	if c.SPI.Port == "" {
		c.SPI.Port = "/dev/spidev0.0"
	}
	if c.SPI.DC == "" {
		c.SPI.DC = "GPIO25"
	}
	if c.SPI.Reset == "" {
		c.SPI.Reset = "GPIO27"
	}
	if c.SPI.Backlight == "" {
		c.SPI.Backlight = "GPIO18"
	}
	if c.SPI.Hz <= 0 {
		c.SPI.Hz = DefaultSPIHz
	}
	if c.Backlight == nil {
		full := 255
		c.Backlight = &full
	} else if *c.Backlight < 0 {
		*c.Backlight = 0
	} else if *c.Backlight > 255 {
		*c.Backlight = 255
	}
	if _, _, _, err := ParseColor(c.Background); err != nil {
		c.Background = "#000000"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.MaxSizeMB <= 0 {
		c.Log.MaxSizeMB = 10
	}
	if c.Log.MaxBackups <= 0 {
		c.Log.MaxBackups = 3
	}
	if c.Log.MaxAgeDays <= 0 {
		c.Log.MaxAgeDays = 28
	}
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	switch c.Timezone {
	case "", "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// BacklightLevel returns the configured brightness.
func (c *Config) BacklightLevel() uint8 {
	if c.Backlight == nil {
		return 255
	}
	return uint8(*c.Backlight)
}

// ParseColor parses #rrggbb.
func ParseColor(s string) (r, g, b uint8, err error) {
	hex, ok := strings.CutPrefix(strings.TrimSpace(s), "#")
	if !ok || len(hex) != 6 {
		return 0, 0, 0, fmt.Errorf("config: color %q is not #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("config: color %q: %w", s, err)
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, a default config is written there with 0600
//     permissions and returned.
//   - Otherwise the YAML is unmarshalled and normalized.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg to path atomically (temp file + rename) with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".handdrawn-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func (c *Config) Save(path string) error {
	return Save(path, c)
}
