// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

// Package stringutil holds the substring matching shared by the line
// classifier and the error hint table.
package stringutil

import "strings"

// ContainsAny reports whether text contains any of substrings (case-sensitive).
func ContainsAny(text string, substrings []string) bool {
	return FirstMatch(text, substrings) >= 0
}

// FirstMatch returns the index of the first entry of substrings that occurs
// in text, or -1.
func FirstMatch(text string, substrings []string) int {
	for i, substr := range substrings {
		if strings.Contains(text, substr) {
			return i
		}
	}

	return -1
}

// ContainsAnyFold is ContainsAny ignoring case.
func ContainsAnyFold(text string, substrings []string) bool {
	lower := strings.ToLower(text)

	for _, substr := range substrings {
		if strings.Contains(lower, strings.ToLower(substr)) {
			return true
		}
	}

	return false
}
