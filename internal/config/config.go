// Package config provides configuration loading from YAML files, a .env file,
// the macOS Keychain and environment variables. Environment variables take
// precedence for dev flexibility.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/phinze/slidedeck/internal/carousel"
	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"
)

const (
	// KeychainService is the macOS Keychain service name for slidedeck secrets.
	KeychainService = "slidedeck"

	// KeyImageToken is the Keychain account holding the bearer token sent
	// when fetching remote slide images.
	KeyImageToken = "image-token"

	// DefaultBrightness is the device brightness used when none is configured.
	DefaultBrightness = 80
)

// Config holds the full application configuration, assembled from YAML,
// Keychain and env.
type Config struct {
	Carousel CarouselConfig `yaml:"carousel"`
	Device   DeviceConfig   `yaml:"device"`
	Slides   []SlideConfig  `yaml:"slides" validate:"dive"`

	// ImageToken is a secret and never written to YAML.
	ImageToken string `yaml:"-"`
}

// CarouselConfig holds the carousel behaviour.
type CarouselConfig struct {
	StartIndex int    `yaml:"start_index" validate:"min=0"`
	TimeoutMS  int    `yaml:"timeout_ms"`
	Autoplay   bool   `yaml:"autoplay"`
	DurationMS int    `yaml:"duration_ms" validate:"min=0,max=10000"`
	Engine     string `yaml:"engine" validate:"omitempty,engine"`
	Easing     string `yaml:"easing" validate:"omitempty,oneof=swing linear"`
	AutoHeight bool   `yaml:"auto_height"`
	FrameRate  int    `yaml:"frame_rate" validate:"min=0,max=60"`
}

// DeviceConfig holds Stream Deck settings.
type DeviceConfig struct {
	Brightness int `yaml:"brightness" validate:"min=0,max=100"`
}

// SlideConfig describes one slide. A slide needs a title or an image.
type SlideConfig struct {
	Title      string `yaml:"title" validate:"required_without=Image"`
	Subtitle   string `yaml:"subtitle,omitempty"`
	Icon       string `yaml:"icon,omitempty"`
	Color      string `yaml:"color,omitempty" validate:"omitempty,colorspec"`
	Background string `yaml:"background,omitempty" validate:"omitempty,colorspec"`
	Image      string `yaml:"image,omitempty" validate:"omitempty,http_url|filepath"`
}

// Default returns the configuration used for anything the file leaves out.
func Default() *Config {
	return &Config{
		Carousel: CarouselConfig{
			TimeoutMS:  int(carousel.DefaultTimeout / time.Millisecond),
			DurationMS: int(carousel.DefaultDuration / time.Millisecond),
			Engine:     carousel.DefaultEngine,
			Easing:     "swing",
			AutoHeight: true,
			FrameRate:  carousel.DefaultFrameRate,
		},
		Device: DeviceConfig{
			Brightness: DefaultBrightness,
		},
	}
}

// DefaultConfigDir returns the default config directory path.
func DefaultConfigDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "slidedeck")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	if p := os.Getenv("SLIDEDECK_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Load reads the .env file next to the config, then assembles configuration
// from the default config path.
func Load() (*Config, error) {
	path := DefaultConfigPath()
	if err := loadDotEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return LoadFile(path)
}

// LoadFile assembles configuration from the YAML file at path, the Keychain
// and environment variables, in increasing precedence. A missing file is not
// an error. Relative image paths are resolved against the file's directory.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	// Keychain may not be populated.
	if token, err := keyring.Get(KeychainService, KeyImageToken); err == nil {
		cfg.ImageToken = token
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	for i := range cfg.Slides {
		cfg.Slides[i].Image = resolveImage(dir, cfg.Slides[i].Image)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating %s: %w", path, err)
	}
	return cfg, nil
}

// applyEnv overrides cfg from SLIDEDECK_* environment variables.
func applyEnv(cfg *Config) error {
	if v := os.Getenv("SLIDEDECK_IMAGE_TOKEN"); v != "" {
		cfg.ImageToken = v
	}
	if v := os.Getenv("SLIDEDECK_ENGINE"); v != "" {
		cfg.Carousel.Engine = v
	}
	if v := os.Getenv("SLIDEDECK_EASING"); v != "" {
		cfg.Carousel.Easing = v
	}
	if v := os.Getenv("SLIDEDECK_AUTOPLAY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SLIDEDECK_AUTOPLAY: %w", err)
		}
		cfg.Carousel.Autoplay = b
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"SLIDEDECK_TIMEOUT_MS", &cfg.Carousel.TimeoutMS},
		{"SLIDEDECK_DURATION_MS", &cfg.Carousel.DurationMS},
		{"SLIDEDECK_BRIGHTNESS", &cfg.Device.Brightness},
	}
	for _, e := range ints {
		v := os.Getenv(e.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", e.name, err)
		}
		*e.dst = n
	}
	return nil
}

// Options translates the carousel section into carousel options.
func (c CarouselConfig) Options() ([]carousel.Option, error) {
	curve, err := carousel.CurveByName(c.Easing)
	if err != nil {
		return nil, err
	}

	opts := []carousel.Option{
		carousel.WithStartIndex(c.StartIndex),
		carousel.WithTimeout(time.Duration(c.TimeoutMS) * time.Millisecond),
		carousel.WithAutoplay(c.Autoplay),
		carousel.WithDuration(time.Duration(c.DurationMS) * time.Millisecond),
		carousel.WithCurve(curve),
		carousel.WithAutoHeight(c.AutoHeight),
	}
	if c.Engine != "" {
		opts = append(opts, carousel.WithEngine(c.Engine))
	}
	if c.FrameRate > 0 {
		opts = append(opts, carousel.WithFrameRate(c.FrameRate))
	}
	return opts, nil
}

// WriteConfigFile writes the non-secret portion of cfg to the default path.
func WriteConfigFile(cfg *Config) error {
	return WriteFile(DefaultConfigPath(), cfg)
}

// WriteFile writes the non-secret portion of cfg to path.
func WriteFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

// SetKeychainSecret stores a secret in the macOS Keychain.
func SetKeychainSecret(account, value string) error {
	// Delete first to avoid "already exists" errors on update
	_ = keyring.Delete(KeychainService, account)
	return keyring.Set(KeychainService, account, value)
}

// GetKeychainSecret retrieves a secret from the macOS Keychain.
func GetKeychainSecret(account string) (string, error) {
	return keyring.Get(KeychainService, account)
}

// loadDotEnv loads environment variables from path. Missing files are
// ignored and variables already set are kept.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func resolveImage(dir, image string) string {
	if image == "" || isURL(image) || filepath.IsAbs(image) {
		return image
	}
	return filepath.Join(dir, image)
}
