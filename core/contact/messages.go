// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package contact

import "codeberg.org/folio/folio/i18n"

// User-facing messages. Translate with MsgKey.Tr.
const (
	MsgEmailRequired  i18n.MsgKey = "Email is required"
	MsgInvalidEmail   i18n.MsgKey = "Invalid email format"
	MsgFieldRequired  i18n.MsgKey = "This field is required"
	MsgTooShort       i18n.MsgKey = "Must be at least 2 characters"
	MsgFormInvalid    i18n.MsgKey = "Please correct the errors in the form"
	MsgSending        i18n.MsgKey = "Sending..."
	MsgSent           i18n.MsgKey = "Your message has been sent successfully!"
	MsgSendFailed     i18n.MsgKey = "An error occurred while sending the message"
	MsgAlreadySending i18n.MsgKey = "Your message is already being sent"
)

// Field labels.
const (
	LabelName    i18n.MsgKey = "Name"
	LabelEmail   i18n.MsgKey = "Email"
	LabelSubject i18n.MsgKey = "Subject"
	LabelMessage i18n.MsgKey = "Message"
	LabelSend    i18n.MsgKey = "Send Message"
)
