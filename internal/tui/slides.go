package tui

import (
	"fmt"
	"image/color"

	"github.com/phinze/slidedeck/internal/config"
)

var (
	defaultForeground = color.RGBA{255, 255, 255, 255}
	defaultBackground = color.RGBA{25, 25, 25, 255}
)

// Slide is the text content of one slide.
type Slide struct {
	Title      string
	Subtitle   string
	Color      color.RGBA
	Background color.RGBA
}

// SlidesFromConfig converts slide configs for terminal display. Slides with
// only an image are labelled with its source.
func SlidesFromConfig(cfgs []config.SlideConfig) ([]Slide, error) {
	slides := make([]Slide, 0, len(cfgs))
	for i, sc := range cfgs {
		s := Slide{
			Title:      sc.Title,
			Subtitle:   sc.Subtitle,
			Color:      defaultForeground,
			Background: defaultBackground,
		}
		if s.Title == "" {
			s.Title = "[image] " + sc.Image
		}

		var err error
		if sc.Color != "" {
			if s.Color, err = config.ParseColor(sc.Color); err != nil {
				return nil, fmt.Errorf("slide %d color: %w", i, err)
			}
		}
		if sc.Background != "" {
			if s.Background, err = config.ParseColor(sc.Background); err != nil {
				return nil, fmt.Errorf("slide %d background: %w", i, err)
			}
		}
		slides = append(slides, s)
	}
	return slides, nil
}

// blend mixes from into to by t in [0, 1].
func blend(from, to color.RGBA, t float64) color.RGBA {
	t = max(0, min(1, t))
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
	}
	return color.RGBA{mix(from.R, to.R), mix(from.G, to.G), mix(from.B, to.B), 255}
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
