// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package reactor

import (
	"errors"
	"sync"
)

var errUnknownMenuAction = errors.New("unknown menu action")

// MenuAction is an input affecting the mobile navigation menu.
type MenuAction string

const (
	MenuToggle    MenuAction = "toggle"
	MenuLinkClick MenuAction = "link"
	MenuOutside   MenuAction = "outside"
	MenuEscape    MenuAction = "escape"
)

// MenuState is the presentation of the mobile menu.
type MenuState struct {
	Open bool `json:"open"`
	// LockScroll freezes page scrolling behind the open menu.
	LockScroll bool `json:"lockScroll"`
}

// Menu is the open/closed state machine of the mobile menu.
type Menu struct {
	mu   sync.Mutex
	open bool
}

// Handle applies action and returns the resulting state.
// Every action other than toggle closes the menu.
func (m *Menu) Handle(action MenuAction) (MenuState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch action {
	case MenuToggle:
		m.open = !m.open
	case MenuLinkClick, MenuOutside, MenuEscape:
		m.open = false
	default:
		return MenuState{Open: m.open, LockScroll: m.open}, errUnknownMenuAction
	}

	return MenuState{Open: m.open, LockScroll: m.open}, nil
}

// State returns the current state.
func (m *Menu) State() MenuState {
	m.mu.Lock()
	defer m.mu.Unlock()

	return MenuState{Open: m.open, LockScroll: m.open}
}
