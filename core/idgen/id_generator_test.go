// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package idgen

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	t.Parallel()

	now := time.Now()

	if strings.ReplaceAll(now.Format("15:04:05"), ":", "") != maketime(now) {
		t.Error("time part incorrect")
	}
}

func TestMakeLength(t *testing.T) {
	t.Parallel()

	id := makeAt(time.Date(2025, time.March, 4, 13, 5, 9, 0, time.UTC))

	assert.Len(t, id, 10)
	assert.True(t, strings.HasPrefix(id, "130509"))
}

func TestPrefixed(t *testing.T) {
	t.Parallel()

	assert.True(t, strings.HasPrefix(Prefixed("sub-"), "sub-"))
}
