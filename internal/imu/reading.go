// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package imu

import "math"

// Vec3 is a 3-axis sample (x, y, z) in device-native units.
type Vec3 [3]float64

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// Sub returns v - o component-wise.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

// Reading is the snapshot handed to the vehicle-control loop after each
// controller tick.
type Reading struct {
	Acceleration     Vec3 `json:"acceleration"`     // g
	AngularRate      Vec3 `json:"angularRate"`      // rad/s
	AngularRateDelta Vec3 `json:"angularRateDelta"` // rate minus previous rate
}
