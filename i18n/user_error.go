// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"errors"
)

// UserError is an error whose message is translated and fit to show to the
// visitor. The underlying cause stays reachable through errors.Is and
// errors.As.
type UserError struct {
	message string
	cause   error
}

// NewUserError wraps cause with msg translated into the language of ctx.
func NewUserError(ctx context.Context, cause error, msg Translatable) *UserError {
	return &UserError{message: msg.Tr(ctx), cause: cause}
}

// Error returns the translated message.
func (e *UserError) Error() string {
	return e.message
}

func (e *UserError) Unwrap() error {
	return e.cause
}

// UserMessage returns the message of the first UserError in err's chain.
func UserMessage(err error) (string, bool) {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue.message, true
	}

	return "", false
}
