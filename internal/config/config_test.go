package config

import (
	"context"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/phinze/slidedeck/internal/carousel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func init() {
	keyring.MockInit()
}

const sample = `
carousel:
  start_index: 1
  timeout_ms: 3000
  autoplay: true
  engine: slide
  easing: linear
device:
  brightness: 60
slides:
  - title: Welcome
    subtitle: to the deck
    icon: star
    color: "#fff"
    background: midnightblue
  - image: photos/cat.png
  - title: Remote
    image: https://example.com/slide.png
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, sample)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Carousel.StartIndex)
	assert.Equal(t, 3000, cfg.Carousel.TimeoutMS)
	assert.True(t, cfg.Carousel.Autoplay)
	assert.Equal(t, "slide", cfg.Carousel.Engine)
	assert.Equal(t, 60, cfg.Device.Brightness)

	// Unset keys keep their defaults.
	assert.Equal(t, 300, cfg.Carousel.DurationMS)
	assert.True(t, cfg.Carousel.AutoHeight)
	assert.Equal(t, carousel.DefaultFrameRate, cfg.Carousel.FrameRate)

	require.Len(t, cfg.Slides, 3)
	assert.Equal(t, "Welcome", cfg.Slides[0].Title)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "photos", "cat.png"), cfg.Slides[1].Image)
	assert.Equal(t, "https://example.com/slide.png", cfg.Slides[2].Image)
}

func TestLoadFile_Missing(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := map[string]string{
		"unknown engine":     "carousel:\n  engine: wipe\n",
		"unknown easing":     "carousel:\n  easing: bounce\n",
		"negative duration":  "carousel:\n  duration_ms: -1\n",
		"bad brightness":     "device:\n  brightness: 130\n",
		"slide without body": "slides:\n  - subtitle: nothing else\n",
		"bad color":          "slides:\n  - title: x\n    color: notacolor\n",
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, body))
			require.Error(t, err)
			var verrs validator.ValidationErrors
			assert.ErrorAs(t, err, &verrs)
		})
	}

	_, err := LoadFile(writeConfig(t, "carousel: [\n"))
	assert.ErrorContains(t, err, "parsing")
}

func TestLoadFile_EnvAndKeychain(t *testing.T) {
	require.NoError(t, SetKeychainSecret(KeyImageToken, "from-keychain"))
	t.Cleanup(func() { _ = keyring.Delete(KeychainService, KeyImageToken) })

	path := writeConfig(t, sample)

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "from-keychain", cfg.ImageToken)

	t.Setenv("SLIDEDECK_IMAGE_TOKEN", "from-env")
	t.Setenv("SLIDEDECK_AUTOPLAY", "false")
	t.Setenv("SLIDEDECK_TIMEOUT_MS", "750")
	t.Setenv("SLIDEDECK_ENGINE", "fade")

	cfg, err = LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.ImageToken)
	assert.False(t, cfg.Carousel.Autoplay)
	assert.Equal(t, 750, cfg.Carousel.TimeoutMS)
	assert.Equal(t, "fade", cfg.Carousel.Engine)

	t.Setenv("SLIDEDECK_BRIGHTNESS", "bright")
	_, err = LoadFile(path)
	assert.ErrorContains(t, err, "SLIDEDECK_BRIGHTNESS")
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SLIDEDECK_DURATION_MS=450\n"), 0o644))

	t.Setenv("SLIDEDECK_CONFIG", path)
	// Registered with t.Setenv so it is restored after godotenv sets it.
	t.Setenv("SLIDEDECK_DURATION_MS", "")
	require.NoError(t, os.Unsetenv("SLIDEDECK_DURATION_MS"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 450, cfg.Carousel.DurationMS)
}

func TestWriteFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Slides = []SlideConfig{{Title: "One"}, {Title: "Two", Color: "tomato"}}
	cfg.ImageToken = "secret"

	require.NoError(t, WriteFile(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Slides, loaded.Slides)
}

func TestParseColor(t *testing.T) {
	tests := map[string]color.RGBA{
		"#ff8000":   {255, 128, 0, 255},
		"#fff":      {255, 255, 255, 255},
		"SteelBlue": {70, 130, 180, 255},
	}
	for in, want := range tests {
		got, err := ParseColor(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "#12", "#gggggg", "blurple"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestCarouselOptions(t *testing.T) {
	cfg := Default().Carousel
	cfg.Engine = "slide"
	cfg.TimeoutMS = 100
	cfg.DurationMS = 0

	opts, err := cfg.Options()
	require.NoError(t, err)

	c, err := carousel.New(3, nopRenderer{}, opts...)
	require.NoError(t, err)
	defer c.Close()

	s := c.State()
	assert.Equal(t, "slide", c.Engine())
	assert.Equal(t, 100*time.Millisecond, s.Timeout)
	assert.Equal(t, time.Duration(0), s.Duration)

	cfg.Easing = "bounce"
	_, err = cfg.Options()
	assert.ErrorIs(t, err, carousel.ErrConfig)
}

type nopRenderer struct{}

func (nopRenderer) ShowSlide(int)             {}
func (nopRenderer) DrawFrame([]carousel.Layer) {}
func (nopRenderer) SetIndicatorActive(int)    {}
func (nopRenderer) ClearIndicators()          {}

func TestWatcher(t *testing.T) {
	path := writeConfig(t, sample)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan *Config, 4)
	errs := make(chan error, 4)
	w := NewWatcher(path).WithDebounce(10 * time.Millisecond)
	require.NoError(t, w.Watch(ctx, func(cfg *Config, err error) {
		if err != nil {
			errs <- err
			return
		}
		got <- cfg
	}))

	updated := sample + "  - title: Fourth\n"
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	select {
	case cfg := <-got:
		assert.Len(t, cfg.Slides, 4)
	case err := <-errs:
		t.Fatalf("reload failed: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("no reload after write")
	}

	require.NoError(t, os.WriteFile(path, []byte("carousel:\n  engine: wipe\n"), 0o644))
	select {
	case err := <-errs:
		assert.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("no reload error after invalid write")
	}
}
