// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package reactor

import (
	"math"
	"time"
)

// Floating describes the idle motion of a decorative floating element.
type Floating struct {
	Speed     float64 `json:"speed"`
	Amplitude float64 `json:"amplitude"`
}

// FloatingAt returns the motion parameters of the i-th floating element.
func FloatingAt(i int) Floating {
	return Floating{
		Speed:     0.5 + 0.2*float64(i),
		Amplitude: 20 + 10*float64(i),
	}
}

// Offset returns the element translation, in pixels, at clock time t.
func (f Floating) Offset(t time.Duration) (x, y float64) {
	seconds := t.Seconds()

	y = math.Sin(seconds*f.Speed) * f.Amplitude
	x = math.Cos(seconds*f.Speed*0.5) * (f.Amplitude * 0.5)

	return x, y
}
