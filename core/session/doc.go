// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package session holds the state of one visitor.

A Session owns the event bus page events travel on, the contact form
submitter and an in-memory mirror of the visitor's preferences. Every page
load gets a View with its own reactor state, named by the id stamped into
the served document, so tabs do not share one-shot effects or menu state.
Sessions live in a bounded LRU cache and are found again through a signed
cookie. Idle sessions are swept by a janitor.
*/
package session
