package utils

import (
	"strings"
)

const wordsPerMinute = 200

// ReadingTime estimates how many minutes a post takes to read, rounding up.
// It is recomputed on every read and never stored.
func ReadingTime(content string) int {
	words := len(strings.Fields(content))
	if words == 0 {
		return 0
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}
