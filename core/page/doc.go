// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package page renders the portfolio document.

The source document is parsed once. Tracked elements (skill sections,
statistics, cards and lazy images) are annotated with stable ids and a
data-track attribute, and collected into a catalog the reactors consult when
the browser reports that an element became visible. Every render starts
from the annotated source, fills the server-rendered slots, then applies the
language and the theme. Results are cached per language and theme, so the
per-response page view id is stamped into the copy handed out.
*/
package page
