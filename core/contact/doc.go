// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package contact validates the contact form and runs its simulated submission.

Nothing is delivered anywhere: a valid submission waits for a fixed delay
and then reports success, or failure when failure injection is enabled.
*/
package contact
