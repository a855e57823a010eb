package textutil

import (
	"crypto/sha256"
	"encoding/hex"
	"unicode"
	"unicode/utf8"
)

// ContainsCyrillic checks if a string contains Cyrillic characters.
// The full Unicode Cyrillic block is used, which covers а-я, А-Я and
// both Ё/ё outliers of the basic range.
func ContainsCyrillic(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Cyrillic, r) {
			return true
		}
	}
	return false
}

// Hash computes a SHA-256 hex hash of a string for content addressing.
func Hash(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

// Truncate shortens a string to at most maxLen bytes, appending "..."
// if truncated. The cut lands on a rune boundary so multi-byte text
// stays valid UTF-8.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
