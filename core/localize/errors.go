// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package localize

import "errors"

var (
	errIncompleteRule = errors.New("localize: rule needs a name, prefix and writer")
	errDuplicateRule  = errors.New("localize: rule already registered")
)
