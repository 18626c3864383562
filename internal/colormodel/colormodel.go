// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package colormodel maps the quadrature acceleration (|a| in g) to an LED
// color by piecewise-linear interpolation around a central color.
//
// At 1g the central color is shown. Above 1g each channel moves toward Max,
// reaching it at 3.5g (2g full scale per axis gives just under 3.5g in
// quadrature). Below 1g each channel moves toward Min, reaching it at 0g.
package colormodel

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// HighRange is the quadrature span (in g above 1g) over which the color
// travels from Central to Max.
const HighRange = 2.5

// LowRange is the quadrature span (in g below 1g) over which the color
// travels from Central to Min.
const LowRange = 1.0

var (
	DefaultCentral = color.RGBA{255, 255, 191, 255}
	DefaultMax     = color.RGBA{215, 25, 28, 255}
	DefaultMin     = color.RGBA{26, 150, 65, 255}
)

// Model holds the reference colors and the per-channel slopes derived from
// them. It is immutable after New.
type Model struct {
	central [3]float64
	max     [3]float64
	min     [3]float64

	highSlope [3]float64
	lowSlope  [3]float64
}

// New builds a Model from the three reference colors.
func New(central, max, min color.RGBA) Model {
	m := Model{
		central: channels(central),
		max:     channels(max),
		min:     channels(min),
	}
	for i := 0; i < 3; i++ {
		m.highSlope[i] = (m.max[i] - m.central[i]) / HighRange
		m.lowSlope[i] = (m.min[i] - m.central[i]) / LowRange
	}
	return m
}

// Default returns the model with the stock palette.
func Default() Model {
	return New(DefaultCentral, DefaultMax, DefaultMin)
}

// Central returns the central reference color.
func (m Model) Central() color.RGBA { return toRGBA(m.central) }

// HighSlope returns the per-channel slope used for quadrature >= 1.
func (m Model) HighSlope() [3]float64 { return m.highSlope }

// LowSlope returns the per-channel slope used for quadrature < 1.
func (m Model) LowSlope() [3]float64 { return m.lowSlope }

// Color returns the unclamped interpolated color for quadrature q.
//
// q >= 1 uses the high branch and q < 1 the low branch; both reduce to the
// central color at q == 1.
func (m Model) Color(q float64) [3]float64 {
	var out [3]float64
	if q >= 1 {
		for i := range out {
			out[i] = m.central[i] + m.highSlope[i]*(q-1)
		}
	}
	if q < 1 {
		for i := range out {
			out[i] = m.central[i] + m.lowSlope[i]*(1-q)
		}
	}
	return out
}

// RGBA returns Color(q) clamped to [0,255] and truncated to integers.
func (m Model) RGBA(q float64) color.RGBA {
	return toRGBA(m.Color(q))
}

func channels(c color.RGBA) [3]float64 {
	return [3]float64{float64(c.R), float64(c.G), float64(c.B)}
}

func toRGBA(c [3]float64) color.RGBA {
	return color.RGBA{R: clamp(c[0]), G: clamp(c[1]), B: clamp(c[2]), A: 255}
}

func clamp(v float64) uint8 {
	switch {
	case v != v: // NaN
		return 0
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}

// ParseRGB parses "r,g,b" with each component in 0-255.
func ParseRGB(s string) (color.RGBA, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return color.RGBA{}, fmt.Errorf("color %q: want r,g,b", s)
	}
	var ch [3]uint8
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
		}
		if v < 0 || v > 255 {
			return color.RGBA{}, fmt.Errorf("color %q: component %d out of range 0-255", s, v)
		}
		ch[i] = uint8(v)
	}
	return color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: 255}, nil
}
