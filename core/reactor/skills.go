// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package reactor

import "time"

// SkillBar is a progress bar inside the skills section.
type SkillBar struct {
	ID string
	// Width is the raw data-width attribute, a percentage.
	Width string
}

// SkillStep reveals one bar.
type SkillStep struct {
	ID      string  `json:"id"`
	Width   int     `json:"width"`
	DelayMs int64   `json:"delayMs"`
	Counter Counter `json:"counter"`
	Frames  []int   `json:"frames"`
}

// PlanSkills staggers the reveal of bars by stagger per index and pairs
// each bar with a percentage counter running for duration.
func PlanSkills(bars []SkillBar, stagger, duration time.Duration) []SkillStep {
	steps := make([]SkillStep, 0, len(bars))

	for i, bar := range bars {
		width := leadingInt(bar.Width)
		counter := Counter{From: 0, To: width, Duration: duration, Suffix: "%"}

		steps = append(steps, SkillStep{
			ID:      bar.ID,
			Width:   width,
			DelayMs: (time.Duration(i) * stagger).Milliseconds(),
			Counter: counter,
			Frames:  counter.Frames(FrameInterval),
		})
	}

	return steps
}
