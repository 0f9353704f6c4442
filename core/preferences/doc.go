// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package preferences reads and writes the two persisted visitor choices:
the display language and the colour theme.

Absence of a stored value, an invalid stored value, or an unavailable
backing store all resolve to the default. Writes never fail loudly; a write
that cannot be honoured is dropped.
*/
package preferences
