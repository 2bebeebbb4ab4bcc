package access

import "strings"

const invalidPathChars = "\"<>|"

// ContainsInvalidPathChars reports whether path cannot name a file on any supported platform.
func ContainsInvalidPathChars(path string) bool {
	if strings.ContainsAny(path, invalidPathChars) {
		return true
	}

	for _, r := range path {
		if r < 32 {
			return true
		}
	}

	return false
}
