package util

import "strings"

// FindLineRange finds the start and end line numbers (1-based) for the first
// occurrence of needle in content. If not found, returns (1,1).
func FindLineRange(content, needle string) (start, end int) {
	if needle == "" {
		return 1, 1
	}
	idx := strings.Index(content, needle)
	if idx < 0 {
		return 1, 1
	}
	before := content[:idx]
	start = strings.Count(before, "\n") + 1
	end = start + strings.Count(needle, "\n")
	return
}

// Lines splits content into its ordered line sequence. Line numbers used
// throughout the engine are 1-based indices into this slice.
func Lines(content string) []string {
	return strings.Split(content, "\n")
}
