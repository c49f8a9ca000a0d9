package slideshow

import (
	"fmt"
	"image"
	"image/color"

	"github.com/phinze/slidedeck/internal/device"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font"
)

const keySize = device.PlusKeySize

// iconColor picks the foreground for a control, dimmed when there is
// nothing to navigate.
func iconColor(c color.Color, enabled bool) color.Color {
	if !enabled {
		return colorDimGray
	}
	return c
}

func drawPrevIcon(size int, enabled bool) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	fillRect(img, colorKeyBg)

	c := iconColor(colornames.White, enabled)
	center := size / 2
	iconSize := size / 3

	// Bar, then two triangles pointing left
	barW := iconSize / 4
	fillRectArea(img, c, center-iconSize, center-iconSize/2, barW, iconSize)
	drawTriangleLeft(img, c, center, center, iconSize/2)
	drawTriangleLeft(img, c, center+iconSize/2, center, iconSize/2)

	return img
}

func drawNextIcon(size int, enabled bool) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	fillRect(img, colorKeyBg)

	c := iconColor(colornames.White, enabled)
	center := size / 2
	iconSize := size / 3

	drawTriangleRight(img, c, center-iconSize/2, center, iconSize/2)
	drawTriangleRight(img, c, center, center, iconSize/2)
	barW := iconSize / 4
	fillRectArea(img, c, center+iconSize-barW, center-iconSize/2, barW, iconSize)

	return img
}

func drawPlayIcon(size int, enabled bool) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	fillRect(img, colorKeyBg)

	center := size / 2
	iconSize := size / 3
	drawTriangleRight(img, iconColor(colornames.Limegreen, enabled), center-iconSize/3, center, iconSize)

	return img
}

func drawPauseIcon(size int, enabled bool) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	fillRect(img, colorKeyBg)

	c := iconColor(colornames.Orange, enabled)
	center := size / 2
	barW := size / 8
	barH := size / 3
	gap := size / 8

	fillRectArea(img, c, center-gap-barW, center-barH/2, barW, barH)
	fillRectArea(img, c, center+gap, center-barH/2, barW, barH)

	return img
}

// drawPositionIcon shows "current/total", or a dash before the first slide
// is placed.
func drawPositionIcon(size, index, total int, face font.Face) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	fillRect(img, colorKeyBg)

	label := "-"
	if index >= 0 && total > 0 {
		label = fmt.Sprintf("%d/%d", index+1, total)
	}
	baseline := (size + face.Metrics().Ascent.Ceil()) / 2
	drawTextCentered(img, label, size/2, baseline, face, iconColor(colornames.Deepskyblue, total > 1))

	return img
}
