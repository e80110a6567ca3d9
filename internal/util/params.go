// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"strconv"
	"strings"
)

// ParseID parses a positive record ID from a query or path parameter.
// ok is false for empty, malformed, zero or negative input.
func ParseID(s string) (id int64, ok bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
