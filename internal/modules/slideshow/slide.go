package slideshow

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log"

	"github.com/phinze/slidedeck/internal/config"
	"golang.org/x/image/draw"
)

const slidePadding = 10

// Slide is one slide's content, resolved from config.
type Slide struct {
	Title      string
	Subtitle   string
	Icon       string
	Color      color.RGBA
	Background color.RGBA
	Image      image.Image
}

// LoadSlides resolves slide configs into slides. Images that fail to load
// are logged and left out so the rest of the slide still shows.
func LoadSlides(ctx context.Context, cfgs []config.SlideConfig, loader *ImageLoader) ([]Slide, error) {
	slides := make([]Slide, 0, len(cfgs))
	for i, sc := range cfgs {
		s := Slide{
			Title:      sc.Title,
			Subtitle:   sc.Subtitle,
			Icon:       sc.Icon,
			Color:      colorWhite,
			Background: colorBackground,
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

		if sc.Image != "" && loader != nil {
			img, err := loader.Load(ctx, sc.Image)
			if err != nil {
				log.Printf("Failed to load image for slide %d: %v", i, err)
			} else {
				s.Image = img
			}
		}

		slides = append(slides, s)
	}
	return slides, nil
}

// rasterize draws s into an image of the given size and returns it with the
// height its content actually needs.
func rasterize(s Slide, size image.Point, f *faces) (*image.RGBA, int) {
	img := image.NewRGBA(image.Rectangle{Max: size})
	fillRect(img, s.Background)

	x := slidePadding
	contentH := 0
	inner := size.Y - 2*slidePadding

	switch {
	case s.Image != nil && s.Title == "":
		// Image-only slides fill the viewport
		scaled := scaleToFit(s.Image, size)
		at := image.Pt((size.X-scaled.Bounds().Dx())/2, (size.Y-scaled.Bounds().Dy())/2)
		draw.Draw(img, scaled.Bounds().Add(at), scaled, image.Point{}, draw.Over)
		return img, scaled.Bounds().Dy()

	case s.Image != nil:
		thumb := scaleToFit(s.Image, image.Pt(inner, inner))
		at := image.Pt(x, (size.Y-thumb.Bounds().Dy())/2)
		draw.Draw(img, thumb.Bounds().Add(at), thumb, image.Point{}, draw.Over)
		x += thumb.Bounds().Dx() + slidePadding
		contentH = thumb.Bounds().Dy() + 2*slidePadding

	case s.Icon != "":
		svg, ok := icons[s.Icon]
		if !ok {
			log.Printf("Unknown slide icon %q", s.Icon)
			break
		}
		iconSize := min(56, inner)
		icon := renderSVGIcon(svg, iconSize, s.Color)
		at := image.Pt(x, (size.Y-iconSize)/2)
		draw.Draw(img, icon.Bounds().Add(at), icon, image.Point{}, draw.Over)
		x += iconSize + slidePadding
		contentH = iconSize + 2*slidePadding
	}

	// Text block, vertically centered
	textH := lineHeight(f.title)
	if s.Subtitle != "" {
		textH += lineHeight(f.subtitle)
	}
	top := (size.Y - textH) / 2
	maxW := size.X - x - slidePadding

	title := truncate(s.Title, maxW, f.title)
	drawText(img, title, x, top+f.title.Metrics().Ascent.Ceil(), f.title, s.Color)
	if s.Subtitle != "" {
		subtitle := truncate(s.Subtitle, maxW, f.subtitle)
		baseline := top + lineHeight(f.title) + f.subtitle.Metrics().Ascent.Ceil()
		drawText(img, subtitle, x, baseline, f.subtitle, colorGray)
	}

	contentH = max(contentH, textH+2*slidePadding)
	return img, min(contentH, size.Y)
}
