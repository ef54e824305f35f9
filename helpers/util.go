package helpers

import (
	"errors"
	"strings"
)

// GetSplitPart returns the index-th part of target split by separate
func GetSplitPart(target string, separate string, index int) (string, error) {
	parts := strings.Split(target, separate)
	if index >= len(parts) {
		return "", errors.New("index out of range")
	}
	return parts[index], nil
}

// LastSplitPart returns the part after the last occurrence of separate,
// or target itself when separate does not occur.
func LastSplitPart(target string, separate string) string {
	parts := strings.Split(target, separate)
	return parts[len(parts)-1]
}

// CollapseSpaces trims s and joins its whitespace-separated words with single spaces
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
