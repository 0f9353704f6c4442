// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package middleware provides the HTTP middleware chain for Folio.

Every middleware has the Middleware signature and is installed by
router.RegisterMiddleware. Handlers that return an error are wrapped in
CatchError, which buffers their output and renders failures.
*/
package middleware
