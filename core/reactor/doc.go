// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package reactor turns scroll, visibility, menu and keyboard input into the
UI state the page should display.

Scroll-driven state is a pure function of the scroll offset and is
recomputed at a throttled rate. Visibility-driven effects are one-shot: each
tracked element animates the first time it becomes visible and never again
for the lifetime of the page.

The reactors are registered on an events.Bus and write their results to the
Outbox carried by the publishing context.
*/
package reactor
