package utils

import (
	"strconv"
)

// StringToUint parses an id path parameter, returning 0 on garbage input.
func StringToUint(s string) uint {
	i, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0
	}
	return uint(i)
}
