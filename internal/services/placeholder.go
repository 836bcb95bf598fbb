package services

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	placeholderBackground = color.RGBA{R: 250, G: 250, B: 250, A: 255}
	placeholderText       = color.RGBA{R: 110, G: 110, B: 110, A: 255}
)

// Placeholder returns a blank chart-sized image with a centered message.
// It stands in for the chart until something can be plotted.
func Placeholder(width, height int, message string) image.Image {
	width = clamp(width, minChartWidth)
	height = clamp(height, minChartHeight)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(placeholderBackground), image.Point{}, draw.Src)

	message = strings.TrimSpace(message)
	if message == "" {
		return img
	}

	face := basicfont.Face7x13
	dr := &font.Drawer{Dst: img, Src: image.NewUniform(placeholderText), Face: face}
	tw := dr.MeasureString(message).Ceil()
	x := (width - tw) / 2
	if x < 4 {
		x = 4
	}
	y := height/2 + face.Metrics().Ascent.Ceil()/2
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(message)
	return img
}
