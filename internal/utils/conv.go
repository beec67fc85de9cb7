package utils

import (
	"strconv"
)

// ParseID converts a path parameter to a positive id, false on anything
// malformed.
func ParseID(s string) (uint, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return uint(n), true
}
