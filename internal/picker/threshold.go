// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package picker

import (
	"math"
	"strconv"
	"strings"
)

// NormalizeThreshold constrains a goal threshold to a non-negative multiple
// of 0.5. Empty input stays empty, non-numeric input becomes empty, negative
// values become "0", and other values round to the nearest 0.5 with one
// decimal place. Values that are already multiples of 0.5 are returned as
// typed.
func NormalizeThreshold(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	if v < 0 || math.Signbit(v) {
		return "0"
	}
	if doubled := v * 2; doubled == math.Trunc(doubled) {
		return s
	}
	return strconv.FormatFloat(math.Round(v*2)/2, 'f', 1, 64)
}
