// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package reactor

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// FrameInterval approximates one animation frame at 60Hz.
const FrameInterval = time.Second / 60

// EaseOutQuart is the easing curve 1-(1-t)^4.
func EaseOutQuart(t float64) float64 {
	return 1 - math.Pow(1-t, 4)
}

// Counter animates an integer from From to To over Duration.
type Counter struct {
	From     int           `json:"from"`
	To       int           `json:"to"`
	Duration time.Duration `json:"-"`
	Suffix   string        `json:"suffix"`
}

// Progress returns the linear progress in [0, 1] after elapsed.
func (c Counter) Progress(elapsed time.Duration) float64 {
	if c.Duration <= 0 {
		return 1
	}

	return min(max(float64(elapsed)/float64(c.Duration), 0), 1)
}

// ValueAt returns the displayed integer after elapsed.
func (c Counter) ValueAt(elapsed time.Duration) int {
	eased := EaseOutQuart(c.Progress(elapsed))

	return int(math.Floor(float64(c.From) + float64(c.To-c.From)*eased))
}

// TextAt returns the displayed text after elapsed.
func (c Counter) TextAt(elapsed time.Duration) string {
	return strconv.Itoa(c.ValueAt(elapsed)) + c.Suffix
}

// Frames samples the counter once per frame, starting one frame in, until
// progress reaches 1. The last frame always shows To.
func (c Counter) Frames(frame time.Duration) []int {
	if frame <= 0 {
		frame = FrameInterval
	}

	n := int(c.Duration/frame) + 1
	frames := make([]int, 0, n)

	for elapsed := frame; ; elapsed += frame {
		frames = append(frames, c.ValueAt(elapsed))

		if c.Progress(elapsed) >= 1 {
			break
		}
	}

	return frames
}

// ParseStat reads a statistic such as "150+" into its number and suffix.
// The number is the text with every non-digit removed, the suffix the
// text with every digit removed. ok is false when the text holds no digit.
func ParseStat(text string) (number int, suffix string, ok bool) {
	text = strings.TrimSpace(text)

	var digits, rest strings.Builder

	for _, r := range text {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		} else {
			rest.WriteRune(r)
		}
	}

	if digits.Len() == 0 {
		return 0, text, false
	}

	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0, rest.String(), false
	}

	return n, rest.String(), true
}

// leadingInt parses the leading decimal digits of s, ignoring leading
// whitespace. It returns 0 when there are none.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}

	return n
}
