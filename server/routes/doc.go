// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package routes holds the HTTP handlers of the portfolio.

Handlers return an error and are wrapped in middleware.CatchError, which
buffers their output. A handler that writes a 4xx status keeps its body;
any other failure is replaced by a notification or the error page.

Browser-facing events collected while a handler runs (language and theme
changes, notifications) are sent back in the HX-Trigger header.
*/
package routes
