// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensehat

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Rows 2-9 of the 7x13 face hold the cap height when the baseline sits at
// row 11; that band is what fits on the matrix.
const (
	bannerBaseline = 11
	bannerTop      = 2
)

// renderBanner draws text on a strip Size pixels high, padded with one blank
// screen on each side so the text scrolls fully in and out.
func renderBanner(text string, fg, bg color.RGBA) *image.RGBA {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()

	tall := image.NewRGBA(image.Rect(0, 0, width+2*Size, face.Height))
	draw.Draw(tall, tall.Bounds(), &image.Uniform{bg}, image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  tall,
		Src:  &image.Uniform{fg},
		Face: face,
		Dot:  fixed.P(Size, bannerBaseline),
	}
	drawer.DrawString(text)

	strip := image.NewRGBA(image.Rect(0, 0, tall.Bounds().Dx(), Size))
	draw.Draw(strip, strip.Bounds(), tall, image.Point{Y: bannerTop}, draw.Src)
	return strip
}
