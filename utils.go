package memecat

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsValidName validates that a string is usable as a blob-store object key.
// It checks that the name:
//   - is not empty, ".", or "/"
//   - is relative (does not start with "/")
//   - does not end with "/"
//   - does not contain ".." (path traversal)
//   - does not contain "//" (empty segments)
//   - does not contain invalid characters: \ ? # ~
//   - is valid UTF-8
//   - does not contain null bytes, control characters, or whitespace
//
// Returns true if the name is valid, false otherwise.
func IsValidName(name string) bool {
	if name == "" || name == "/" || name == "." {
		return false
	}

	if name[0] == '/' {
		return false
	}

	if strings.HasSuffix(name, "/") {
		return false
	}

	if strings.Contains(name, "..") {
		return false
	}

	if strings.Contains(name, "//") {
		return false
	}

	if strings.ContainsAny(name, `\?#~`) {
		return false
	}

	if !utf8.ValidString(name) {
		return false
	}

	for _, r := range name {
		if r == 0 || r < 0x20 || r == 0x7f || unicode.IsSpace(r) {
			return false
		}
	}

	return true
}
