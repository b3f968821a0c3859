package utils

import (
	"strconv"
)

// StringToUint parses a positive id, ok is false for anything else.
func StringToUint(s string) (uint, bool) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
